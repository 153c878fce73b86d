package tutor

import (
	"context"
	"errors"
	"strings"
	"time"

	"antipop/internal/logging"
)

// FallbackReply is delivered in place of an error whenever the model call
// fails.
const FallbackReply = "Sorry, I'm having trouble connecting to the electronics lab right now. Please check your API key."

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// Tutor answers questions about the circuit through a streaming Client.
type Tutor struct {
	client  Client
	timeout time.Duration
}

// New creates a tutor. A nil client behaves like OfflineClient. A zero
// timeout leaves the deadline to the client.
func New(client Client, timeout time.Duration) *Tutor {
	if client == nil {
		client = OfflineClient{}
	}
	return &Tutor{client: client, timeout: timeout}
}

// Ask streams the reply to question given the circuit context snapshot. The
// returned channel yields reply fragments and is closed when the reply ends.
// Service failures never surface as errors: the stream ends with exactly one
// FallbackReply fragment instead, after any fragments already delivered.
func (t *Tutor) Ask(ctx context.Context, question, circuitContext string) (<-chan string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	out := make(chan string, 16)
	logging.Tutor("Ask: %q", truncate(question, 80))

	go func() {
		defer close(out)

		callCtx := ctx
		if t.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, t.timeout)
			defer cancel()
		}

		timer := logging.StartTimer(logging.CategoryTutor, "Ask")
		defer timer.Stop()

		contentChan, errorChan := t.client.CompleteWithStreaming(callCtx, SystemPrompt(circuitContext), question)
		delivered := 0
		for chunk := range contentChan {
			if !send(ctx, out, chunk) {
				return
			}
			delivered++
		}
		if err, ok := <-errorChan; ok && err != nil {
			logging.TutorError("Ask failed after %d fragments: %v", delivered, err)
			send(ctx, out, FallbackReply)
			return
		}
		logging.TutorDebug("Ask complete: %d fragments", delivered)
	}()

	return out, nil
}

// send delivers s unless the caller went away.
func send(ctx context.Context, out chan<- string, s string) bool {
	select {
	case out <- s:
		return true
	case <-ctx.Done():
		return false
	}
}

// Collect drains a reply stream into a single string.
func Collect(fragments <-chan string) string {
	var b strings.Builder
	for f := range fragments {
		b.WriteString(f)
	}
	return b.String()
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
