package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"antipop/internal/chart"
	"antipop/internal/logging"
	"antipop/internal/parts"
	"antipop/internal/session"
	"antipop/internal/store"
	"antipop/internal/tutor"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerHeight = 2
	footerHeight = 1
	inputHeight  = 3
)

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.Close()
			return m, tea.Quit

		case tea.KeyCtrlP:
			if m.sess != nil {
				m.snap = m.sess.TogglePower()
				m.statusMessage = fmt.Sprintf("Power %s", onOff(m.snap.State.Powered))
			}
			return m, nil

		case tea.KeyTab:
			m.focus = parts.Next(m.focus, 1)
			return m, nil

		case tea.KeyShiftTab:
			m.focus = parts.Next(m.focus, -1)
			return m, nil

		case tea.KeyEsc:
			m.focus = ""
			return m, nil

		case tea.KeyCtrlS:
			return m, m.exportChart()

		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd

		case tea.KeyEnter:
			return m.sendQuestion()
		}

		m.input, tiCmd = m.input.Update(msg)
		return m, tiCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		chatWidth := m.chatWidth()
		vpHeight := msg.Height - headerHeight - footerHeight - inputHeight
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.viewport.Width = chatWidth - 2
		m.viewport.Height = vpHeight
		m.input.Width = chatWidth - 6
		m.renderer = newRenderer(m.styles, chatWidth-4)
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case snapshotMsg:
		m.snap = session.Snapshot(msg)
		return m, waitForSnapshot(m.snaps)

	case sessionClosedMsg:
		m.statusMessage = "Simulation stopped"
		return m, nil

	case replyChunkMsg:
		chunk := string(msg)
		m.transcript.AppendChunk(chunk)
		m.pending.reply += chunk
		if chunk == tutor.FallbackReply {
			m.pending.fallback = true
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, waitForChunk(m.replyCh)

	case replyDoneMsg:
		m.isTyping = false
		m.replyCh = nil
		m.turn++
		turn := store.Turn{
			Turn:      m.turn,
			Question:  m.pending.question,
			Context:   m.pending.context,
			Reply:     m.pending.reply,
			Model:     m.modelName,
			Fallback:  m.pending.fallback,
			CreatedAt: time.Now(),
		}
		if m.sess != nil {
			turn.SessionID = m.sess.ID()
		}
		m.pending = pendingTurn{}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, m.saveTurnCmd(turn)

	case turnSavedMsg:
		if msg.err != nil {
			logging.Get(logging.CategoryUI).Warn("Failed to persist chat turn: %v", msg.err)
			m.statusMessage = "Transcript not saved"
		}
		return m, nil

	case chartSavedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Chart export failed: %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Chart saved to %s", msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		if m.isTyping {
			var spCmd tea.Cmd
			m.spinner, spCmd = m.spinner.Update(msg)
			m.viewport.SetContent(m.renderHistory())
			return m, spCmd
		}
		return m, nil
	}

	return m, nil
}

// sendQuestion submits the input line to the tutor with a snapshot of the
// circuit taken now. Sending is ignored while a reply is streaming.
func (m Model) sendQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.isTyping {
		return m, nil
	}

	snap := m.snap
	if m.sess != nil {
		snap = m.sess.Snapshot()
	}
	circuitContext := tutor.CircuitContext(snap.State, snap.Params)

	replyCh, err := m.tutor.Ask(m.ctx, question, circuitContext)
	if err != nil {
		m.statusMessage = err.Error()
		return m, nil
	}

	m.transcript.AddUser(question)
	m.transcript.BeginReply()
	m.input.Reset()
	m.isTyping = true
	m.replyCh = replyCh
	m.pending = pendingTurn{question: question, context: circuitContext}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	logging.UIDebug("Question sent (%d chars)", len(question))

	return m, tea.Batch(waitForChunk(replyCh), m.spinner.Tick)
}

func (m Model) exportChart() tea.Cmd {
	samples := m.snap.Samples
	opts := chart.DefaultOptions()
	opts.Threshold = m.snap.Params.MuteThreshold
	path := m.chartPath()
	return func() tea.Msg {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return chartSavedMsg{path: path, err: err}
		}
		return chartSavedMsg{path: path, err: chart.Save(samples, opts, path)}
	}
}

func chartPath(workspace string, now time.Time) string {
	return filepath.Join(workspace, ".antipop", "charts", "sdz-"+now.Format("20060102-150405")+".png")
}

func (m Model) chatWidth() int {
	ratio := m.cfg.UI.ChatPaneRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.38
	}
	w := int(float64(m.width) * ratio)
	if w < 30 {
		w = 30
	}
	return w
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
