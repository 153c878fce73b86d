package tutor

import "time"

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// WelcomeMessage opens every transcript.
const WelcomeMessage = "Hi! I am your AI electronics tutor. Turn on the power to see the circuit in action, or ask me anything about how this anti-pop circuit works!"

// Message is one chat transcript entry.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Transcript is the ordered chat log. Methods return copies; callers never
// see its backing slice.
type Transcript struct {
	messages []Message
	now      func() time.Time
}

// NewTranscript starts a transcript holding the welcome message.
func NewTranscript() *Transcript {
	t := &Transcript{now: time.Now}
	t.messages = append(t.messages, Message{Role: RoleModel, Text: WelcomeMessage, Time: t.now()})
	return t
}

// AddUser appends a user question.
func (t *Transcript) AddUser(text string) {
	t.messages = append(t.messages, Message{Role: RoleUser, Text: text, Time: t.now()})
}

// BeginReply appends the empty model message that streamed fragments grow.
func (t *Transcript) BeginReply() {
	t.messages = append(t.messages, Message{Role: RoleModel, Time: t.now()})
}

// AppendChunk extends the newest model message, starting one if the newest
// message is the user's.
func (t *Transcript) AppendChunk(chunk string) {
	n := len(t.messages)
	if n == 0 || t.messages[n-1].Role != RoleModel {
		t.BeginReply()
		n++
	}
	t.messages[n-1].Text += chunk
}

// Messages returns a copy of the log, oldest first.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the newest message.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Len is the number of messages.
func (t *Transcript) Len() int { return len(t.messages) }
