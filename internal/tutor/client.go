package tutor

import (
	"context"
	"errors"
)

// ErrNoAPIKey is reported by clients that cannot reach the service because
// no key was configured.
var ErrNoAPIKey = errors.New("API key not configured")

// Client streams a model reply. Content deltas arrive on the first channel;
// at most one error arrives on the second. Both channels are closed when the
// reply ends.
type Client interface {
	CompleteWithStreaming(ctx context.Context, systemPrompt, userPrompt string) (<-chan string, <-chan error)
}

// OfflineClient fails every request. It stands in when no API key is set so
// the tutor still answers with its fallback text.
type OfflineClient struct{}

// CompleteWithStreaming implements Client.
func (OfflineClient) CompleteWithStreaming(ctx context.Context, systemPrompt, userPrompt string) (<-chan string, <-chan error) {
	contentChan := make(chan string)
	errorChan := make(chan error, 1)
	errorChan <- ErrNoAPIKey
	close(contentChan)
	close(errorChan)
	return contentChan, errorChan
}
