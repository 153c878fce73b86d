package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptStartsWithWelcome(t *testing.T) {
	tr := NewTranscript()
	require.Equal(t, 1, tr.Len())
	msg, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, RoleModel, msg.Role)
	assert.Equal(t, WelcomeMessage, msg.Text)
}

func TestTranscriptStreamingReply(t *testing.T) {
	tr := NewTranscript()
	tr.AddUser("What is SDZ?")
	tr.BeginReply()

	last, _ := tr.Last()
	assert.Equal(t, RoleModel, last.Role)
	assert.Empty(t, last.Text)

	tr.AppendChunk("Shutdown ")
	tr.AppendChunk("pin.")
	last, _ = tr.Last()
	assert.Equal(t, "Shutdown pin.", last.Text)
	assert.Equal(t, 3, tr.Len())
}

func TestTranscriptAppendAfterUserStartsReply(t *testing.T) {
	tr := NewTranscript()
	tr.AddUser("Hi")
	tr.AppendChunk("Hello")

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleModel, msgs[2].Role)
	assert.Equal(t, "Hello", msgs[2].Text)
}

func TestTranscriptMessagesIsCopy(t *testing.T) {
	tr := NewTranscript()
	msgs := tr.Messages()
	msgs[0].Text = "changed"

	last, _ := tr.Last()
	assert.Equal(t, WelcomeMessage, last.Text)
}
