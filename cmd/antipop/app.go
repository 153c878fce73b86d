package main

import (
	"context"

	"antipop/internal/config"
	"antipop/internal/logging"
	"antipop/internal/session"
	"antipop/internal/store"
	"antipop/internal/tutor"
)

// sessionOptions converts the loaded config into session options.
func sessionOptions(c *config.Config) (session.Options, error) {
	params, err := c.Simulation.Params()
	if err != nil {
		return session.Options{}, err
	}
	policy, err := c.SamplePolicy()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Params:          params,
		HistoryCapacity: c.History.Capacity,
		Policy:          policy,
	}, nil
}

func newSession(c *config.Config) (*session.Session, error) {
	opts, err := sessionOptions(c)
	if err != nil {
		return nil, err
	}
	return session.New(opts)
}

// newTutor builds the Gemini-backed tutor, or an offline one when no key is
// configured or the client cannot be created.
func newTutor(ctx context.Context, c *config.Config) *tutor.Tutor {
	timeout := c.GetLLMTimeout()
	if !c.LLM.HasAPIKey() {
		logging.TutorDebug("No API key configured; tutor runs offline")
		return tutor.New(tutor.OfflineClient{}, timeout)
	}
	client, err := tutor.NewGeminiClient(ctx, tutor.GeminiConfig{
		APIKey:      c.LLM.APIKey,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		Timeout:     timeout,
	})
	if err != nil {
		logging.TutorError("Gemini client unavailable, tutor runs offline: %v", err)
		return tutor.New(tutor.OfflineClient{}, timeout)
	}
	return tutor.New(client, timeout)
}

// openStore opens the transcript store, or returns nil when persistence is
// disabled.
func openStore(c *config.Config) (*store.TranscriptStore, error) {
	if !c.Store.Enabled {
		return nil, nil
	}
	return store.NewTranscriptStore(c.DatabasePath(workspace))
}
