// Package chat implements the interactive antipop terminal: live schematic,
// controls, voltage chart and the tutor chat pane.
package chat

import (
	"context"
	"time"

	"antipop/cmd/antipop/ui"
	"antipop/internal/config"
	"antipop/internal/logging"
	"antipop/internal/parts"
	"antipop/internal/session"
	"antipop/internal/store"
	"antipop/internal/tutor"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Options wires a Model to its collaborators. Store may be nil.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Tutor     *tutor.Tutor
	Store     *store.TranscriptStore
	Config    *config.Config
	Workspace string
	ModelName string
}

// Model is the bubbletea model for the interactive session.
type Model struct {
	ctx       context.Context
	sess      *session.Session
	tutor     *tutor.Tutor
	store     *store.TranscriptStore
	cfg       *config.Config
	workspace string
	modelName string

	styles   ui.Styles
	renderer *glamour.TermRenderer
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	snap        session.Snapshot
	snaps       <-chan session.Snapshot
	unsubscribe func()

	transcript *tutor.Transcript
	focus      parts.ID
	isTyping   bool
	replyCh    <-chan string
	pending    pendingTurn
	turn       int

	width         int
	height        int
	ready         bool
	statusMessage string
}

// New creates the model and subscribes it to the session.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	ti := textinput.New()
	ti.Placeholder = "Ask about the circuit... (Enter to send)"
	ti.Focus()
	ti.Prompt = "| "
	ti.CharLimit = 2048
	ti.Width = 40
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Question

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(40, 20)

	m := Model{
		ctx:        ctx,
		sess:       opts.Session,
		tutor:      opts.Tutor,
		store:      opts.Store,
		cfg:        cfg,
		workspace:  opts.Workspace,
		modelName:  opts.ModelName,
		styles:     styles,
		renderer:   newRenderer(styles, 40),
		viewport:   vp,
		input:      ti,
		spinner:    sp,
		transcript: tutor.NewTranscript(),
	}
	if m.tutor == nil {
		m.tutor = tutor.New(nil, 0)
	}
	if m.sess != nil {
		m.snap = m.sess.Snapshot()
		m.snaps, m.unsubscribe = m.sess.Subscribe()
	}
	m.viewport.SetContent(m.renderHistory())
	logging.UIDebug("Chat model created (theme dark=%v)", styles.Theme.IsDark)
	return m
}

func newRenderer(styles ui.Styles, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	var (
		r   *glamour.TermRenderer
		err error
	)
	if styles.Theme.IsDark {
		r, err = glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(width))
	} else {
		r, err = glamour.NewTermRenderer(glamour.WithStylePath("light"), glamour.WithWordWrap(width))
	}
	if err != nil {
		logging.UIDebug("glamour renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Init starts the cursor blink and the snapshot feed.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.snaps))
}

// Close releases the session subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// waitForSnapshot blocks on the subscription for the next committed tick.
func waitForSnapshot(ch <-chan session.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return sessionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// waitForChunk reads the next tutor fragment.
func waitForChunk(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			return replyDoneMsg{}
		}
		return replyChunkMsg(chunk)
	}
}

func (m Model) saveTurnCmd(t store.Turn) tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		return turnSavedMsg{err: st.SaveTurn(t)}
	}
}

func (m Model) chartPath() string {
	return chartPath(m.workspace, time.Now())
}
