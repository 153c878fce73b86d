package tutor

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"antipop/internal/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, whose stats worker never exits.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeClient replays canned fragments and then an optional error.
type fakeClient struct {
	chunks []string
	err    error

	gotSystem string
	gotUser   string
	gotCtx    context.Context
}

func (f *fakeClient) CompleteWithStreaming(ctx context.Context, systemPrompt, userPrompt string) (<-chan string, <-chan error) {
	f.gotSystem, f.gotUser, f.gotCtx = systemPrompt, userPrompt, ctx
	contentChan := make(chan string, len(f.chunks))
	errorChan := make(chan error, 1)
	for _, c := range f.chunks {
		contentChan <- c
	}
	if f.err != nil {
		errorChan <- f.err
	}
	close(contentChan)
	close(errorChan)
	return contentChan, errorChan
}

func drain(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var out []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("reply stream did not close")
			return out
		}
	}
}

func TestAskStreamsFragments(t *testing.T) {
	client := &fakeClient{chunks: []string{"Think of the ", "capacitor as ", "a bucket."}}
	tu := New(client, time.Second)

	ch, err := tu.Ask(context.Background(), "What does C1 do?", "Power is ON.")
	require.NoError(t, err)

	assert.Equal(t, []string{"Think of the ", "capacitor as ", "a bucket."}, drain(t, ch))
	assert.Equal(t, "What does C1 do?", client.gotUser)
	assert.Contains(t, client.gotSystem, "Power is ON.")
	_, hasDeadline := client.gotCtx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAskFailureYieldsSingleFallback(t *testing.T) {
	tu := New(&fakeClient{err: errors.New("connection refused")}, 0)

	ch, err := tu.Ask(context.Background(), "Why is it muted?", "Power is OFF.")
	require.NoError(t, err)
	assert.Equal(t, []string{FallbackReply}, drain(t, ch))
}

func TestAskFallbackFollowsPartialReply(t *testing.T) {
	tu := New(&fakeClient{chunks: []string{"The transistor "}, err: errors.New("stream reset")}, 0)

	ch, err := tu.Ask(context.Background(), "Why?", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"The transistor ", FallbackReply}, drain(t, ch))
}

func TestAskWithoutClientFallsBack(t *testing.T) {
	tu := New(nil, 0)

	ch, err := tu.Ask(context.Background(), "Hello?", "")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, Collect(ch))
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	client := &fakeClient{}
	tu := New(client, 0)

	for _, q := range []string{"", "   ", "\n\t"} {
		ch, err := tu.Ask(context.Background(), q, "")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
		assert.Nil(t, ch)
	}
	assert.Empty(t, client.gotUser)
}

func TestAskStopsWhenCallerLeaves(t *testing.T) {
	chunks := make([]string, 64)
	for i := range chunks {
		chunks[i] = "x"
	}
	tu := New(&fakeClient{chunks: chunks}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := tu.Ask(ctx, "Long answer please", "")
	require.NoError(t, err)
	<-ch
	cancel()

	// The stream must still close so the goroutine exits.
	drain(t, ch)
}

func TestCircuitContext(t *testing.T) {
	p := circuit.DefaultParams()

	off := CircuitContext(circuit.Initial(), p)
	assert.Equal(t, "Power is OFF.\nCapacitor Charge is 0%.\nTransistor is OFF.\nSDZ Voltage is 0.0V.\nThe Amp is Muted.", off)

	s := circuit.Initial().TogglePower()
	for i := 0; i < 10; i++ {
		s = circuit.Step(s, p)
	}
	charging := CircuitContext(s, p)
	assert.Contains(t, charging, "Power is ON.")
	assert.Contains(t, charging, "Capacitor Charge is 20%.")
	assert.Contains(t, charging, "Transistor is ON.")
	assert.Contains(t, charging, "SDZ Voltage is 0.2V.")
	assert.Contains(t, charging, "The Amp is Muted.")

	for i := 0; i < 40; i++ {
		s = circuit.Step(s, p)
	}
	playing := CircuitContext(s, p)
	assert.Contains(t, playing, "Capacitor Charge is 100%.")
	assert.Contains(t, playing, "Transistor is OFF.")
	assert.Contains(t, playing, "SDZ Voltage is 21.4V.")
	assert.Contains(t, playing, "The Amp is Playing.")
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt("\n  Power is ON.\n")
	assert.Contains(t, prompt, "expert electronics teacher")
	assert.Contains(t, prompt, "TPA3116")
	assert.Contains(t, prompt, "BC548")
	assert.Contains(t, prompt, "Current State of Simulation:\nPower is ON.\n")
	assert.NotContains(t, prompt, "{{context}}")
}

func TestOfflineClient(t *testing.T) {
	contentChan, errorChan := OfflineClient{}.CompleteWithStreaming(context.Background(), "", "hi")
	_, open := <-contentChan
	assert.False(t, open)
	assert.ErrorIs(t, <-errorChan, ErrNoAPIKey)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	q := "Warum ist der Verstärker stumm? Ω µF ✓"
	for n := 0; n <= utf8.RuneCountInString(q); n++ {
		got := truncate(q, n)
		assert.True(t, utf8.ValidString(got), "n=%d produced %q", n, got)
	}
	assert.Equal(t, "Ωµ...", truncate("ΩµF", 2))
}
