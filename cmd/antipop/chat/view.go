package chat

import (
	"strings"

	"antipop/cmd/antipop/ui"
	"antipop/internal/chart"
	"antipop/internal/parts"
	"antipop/internal/tutor"

	"github.com/charmbracelet/lipgloss"
)

// renderHistory formats the transcript for the chat viewport.
func (m Model) renderHistory() string {
	var sb strings.Builder
	msgs := m.transcript.Messages()
	for i, msg := range msgs {
		if msg.Role == tutor.RoleUser {
			sb.WriteString(m.styles.Prompt.Render("You: "))
			sb.WriteString(m.styles.Question.Render(msg.Text))
			sb.WriteString("\n\n")
			continue
		}
		if msg.Text == "" && m.isTyping && i == len(msgs)-1 {
			sb.WriteString(m.spinner.View())
			sb.WriteString(m.styles.Muted.Render(" Thinking..."))
			sb.WriteString("\n\n")
			continue
		}
		if m.cfg.UI.MarkdownReplies {
			sb.WriteString(m.safeRenderMarkdown(msg.Text))
		} else {
			sb.WriteString(m.styles.Reply.Render(msg.Text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing circuit..."
	}

	chatWidth := m.chatWidth()
	leftWidth := m.width - chatWidth - 1
	if leftWidth < 40 {
		leftWidth = 40
	}

	header := m.renderHeader()
	left := m.renderCircuitPane(leftWidth)
	right := m.renderChatPane(chatWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("Anti-Pop Circuit Visualizer")
	sub := m.styles.Subtitle.Render("Interactive Simulation for TPA3116 Amplifier")
	return title + " " + sub + "\n" + m.styles.RenderDivider(m.width)
}

func (m Model) renderCircuitPane(width int) string {
	st := m.snap.State
	p := m.snap.Params

	schematic := ui.RenderSchematic(st, m.focus, m.styles)
	controls := m.styles.Panel.Render(ui.RenderControls(st, p, m.styles))

	info, ok := parts.Lookup(m.focus)
	card := ui.RenderCard(info, ok, width-lipgloss.Width(controls)-1, m.styles)

	middle := lipgloss.JoinHorizontal(lipgloss.Top, controls, " ", card)
	graph := ui.RenderChart(m.snap.Samples, width, 6, chart.YMax, p.MuteThreshold, m.styles)

	return lipgloss.NewStyle().Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, schematic, "", middle, "", graph),
	)
}

func (m Model) renderChatPane(width int) string {
	title := m.styles.Title.Render("AI Tutor")
	input := m.input.View()
	if m.isTyping {
		input = m.styles.Muted.Render("| waiting for the tutor...")
	}
	return m.styles.Panel.Width(width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), m.styles.RenderDivider(width-4), input),
	)
}

func (m Model) renderFooter() string {
	keys := "ctrl+p power • tab/shift+tab parts • esc clear • ctrl+s save chart • enter ask • ctrl+c quit"
	if m.statusMessage != "" {
		keys = m.statusMessage + "  •  " + keys
	}
	return m.styles.Footer.Render(keys)
}
