package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"antipop/internal/logging"

	"google.golang.org/genai"
)

// GeminiConfig holds settings for the Gemini streaming client.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DefaultGeminiConfig returns the stock tutor settings for apiKey.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:      apiKey,
		Model:       "gemini-2.5-flash",
		Temperature: 1.0,
		Timeout:     60 * time.Second,
	}
}

// GeminiClient implements Client over the Google Gen AI SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGeminiClient creates a client for the Gemini API backend.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiConfig("").Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGeminiConfig("").Timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	logging.Tutor("Gemini client ready: model=%s timeout=%v", cfg.Model, cfg.Timeout)

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Model returns the model name requests are sent to.
func (c *GeminiClient) Model() string { return c.model }

// CompleteWithStreaming sends one user turn and streams the reply text.
func (c *GeminiClient) CompleteWithStreaming(ctx context.Context, systemPrompt, userPrompt string) (<-chan string, <-chan error) {
	contentChan := make(chan string, 100)
	errorChan := make(chan error, 1)

	logging.TutorDebug("[Gemini] CompleteWithStreaming: starting model=%s", c.model)

	go func() {
		defer close(contentChan)
		defer close(errorChan)

		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		startTime := time.Now()
		contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
		genCfg := &genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		}
		if strings.TrimSpace(systemPrompt) != "" {
			genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
		}

		chunks := 0
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, genCfg) {
			if err != nil {
				logging.TutorError("[Gemini] stream failed after %v (%d chunks): %v", time.Since(startTime), chunks, err)
				errorChan <- fmt.Errorf("gemini stream: %w", err)
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case contentChan <- text:
				chunks++
			case <-ctx.Done():
				errorChan <- ctx.Err()
				return
			}
		}
		logging.TutorDebug("[Gemini] stream complete: %d chunks in %v", chunks, time.Since(startTime))
	}()

	return contentChan, errorChan
}
