package chat

import (
	"antipop/internal/session"
)

type (
	// snapshotMsg carries a committed tick from the session runtime.
	snapshotMsg session.Snapshot

	// sessionClosedMsg reports that the session stopped publishing.
	sessionClosedMsg struct{}

	// replyChunkMsg is one streamed tutor fragment.
	replyChunkMsg string

	// replyDoneMsg marks the end of a tutor reply.
	replyDoneMsg struct{}

	// turnSavedMsg reports the outcome of persisting a chat turn.
	turnSavedMsg struct{ err error }

	// chartSavedMsg reports the outcome of a chart export.
	chartSavedMsg struct {
		path string
		err  error
	}
)

// pendingTurn accumulates the reply in flight so it can be persisted whole.
type pendingTurn struct {
	question string
	context  string
	reply    string
	fallback bool
}
