package ui

import (
	"strings"

	"antipop/internal/parts"

	"github.com/charmbracelet/lipgloss"
)

// HoverHint is shown in the component card when no part is selected.
const HoverHint = "Select any component in the schematic (tab / shift+tab) to learn how it works."

// RenderCard draws the component card for info, or the hint when ok is false.
func RenderCard(info parts.Info, ok bool, width int, s Styles) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	if !ok {
		return s.EmptyCard.Width(inner).Render("ⓘ " + HoverHint)
	}

	head := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Info.Bold(true).Render(info.Name)+" "+s.Muted.Render(info.Value),
		"  ",
		s.Muted.Render(strings.ToUpper(info.Role)),
	)
	body := s.Body.Width(inner).Render(info.Description)
	return s.Card.Width(inner).Render(head + "\n" + body)
}
