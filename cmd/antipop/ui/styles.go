// Package ui provides the visual styling and static renderers for the
// antipop terminal interface.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light lab bench
	LightForeground = lipgloss.Color("#0f172a")
	LightPrimary    = lipgloss.Color("#1e3a8a")
	LightAccent     = lipgloss.Color("#2563eb")
	LightMuted      = lipgloss.Color("#64748b")
	LightBorder     = lipgloss.Color("#cbd5e1")
	LightIdleWire   = lipgloss.Color("#94a3b8")

	// Dark lab bench
	DarkForeground = lipgloss.Color("#e2e8f0") // slate-200
	DarkPrimary    = lipgloss.Color("#60a5fa") // blue-400
	DarkAccent     = lipgloss.Color("#818cf8") // indigo-400
	DarkMuted      = lipgloss.Color("#64748b") // slate-500
	DarkBorder     = lipgloss.Color("#334155") // slate-700
	DarkIdleWire   = lipgloss.Color("#334155")

	// Circuit colours, shared by both themes
	PowerRail   = lipgloss.Color("#ef4444") // energized 24 V rail
	GroundRail  = lipgloss.Color("#3b82f6") // ground, and SDZ while pulled low
	SDZHigh     = lipgloss.Color("#f59e0b") // SDZ at ~21 V
	BaseCurrent = lipgloss.Color("#fbbf24") // base path while Q1 conducts
	ChargeFill  = lipgloss.Color("#10b981")

	// Amp status
	AmpPlaying = lipgloss.Color("#22c55e")
	AmpMuted   = lipgloss.Color("#ef4444")
	Notice     = lipgloss.Color("#3b82f6")
)

// Theme is the colour set for one terminal background.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IdleWire   lipgloss.Color // unpowered wires
	IsDark     bool
}

// LightTheme is for light terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IdleWire:   LightIdleWire,
	}
}

// DarkTheme is the default.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IdleWire:   DarkIdleWire,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the terminal's COLORFGBG hint, then
// ANTIPOP_DARK_MODE. The lab look is dark, so that is the fallback.
func DetectTheme() Theme {
	if hint := os.Getenv("COLORFGBG"); hint != "" {
		// "fg;bg", sometimes "fg;default;bg"
		fields := strings.Split(hint, ";")
		if bg, err := strconv.Atoi(fields[len(fields)-1]); err == nil && len(fields) >= 2 {
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return DarkTheme()
			}
			return LightTheme()
		}
	}
	if os.Getenv("ANTIPOP_DARK_MODE") == "0" {
		return LightTheme()
	}
	return DarkTheme()
}

// ThemeFor resolves the configured theme name: "light", "dark" or "auto".
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	return DetectTheme()
}

// Styles is the full style sheet derived from a Theme.
type Styles struct {
	Theme Theme

	// Frame
	Header lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style

	// Tutor chat
	Prompt   lipgloss.Style
	Question lipgloss.Style
	Reply    lipgloss.Style
	Spinner  lipgloss.Style

	// Schematic and card
	Part        lipgloss.Style
	FocusedPart lipgloss.Style
	Card        lipgloss.Style
	EmptyCard   lipgloss.Style
	Divider     lipgloss.Style

	// Amp status
	PlayingBadge lipgloss.Style
	MutedBadge   lipgloss.Style
}

// NewStyles builds the style sheet for theme.
func NewStyles(theme Theme) Styles {
	bold := func(c lipgloss.Color) lipgloss.Style { return fg(c).Bold(true) }
	boxed := func(b lipgloss.Border, c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(b).BorderForeground(c).Padding(0, 1)
	}
	badge := func(c lipgloss.Color) lipgloss.Style {
		return boxed(lipgloss.RoundedBorder(), c).Foreground(c).Bold(true).Padding(0, 2)
	}

	return Styles{
		Theme: theme,

		Header: bold(theme.Primary).Padding(0, 1),
		Footer: fg(theme.Muted).Padding(0, 1),
		Panel:  boxed(lipgloss.RoundedBorder(), theme.Border),

		Title:    bold(theme.Foreground),
		Subtitle: fg(theme.Muted).Italic(true),
		Body:     fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Bold:     bold(theme.Foreground),
		Error:    bold(AmpMuted),
		Info:     fg(Notice),

		Prompt:   bold(theme.Accent),
		Question: bold(theme.Foreground),
		Reply: fg(theme.Foreground).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),
		Spinner: fg(theme.Accent),

		Part:        fg(theme.Foreground),
		FocusedPart: bold(theme.Primary).Underline(true),
		Card:        boxed(lipgloss.RoundedBorder(), theme.Primary),
		EmptyCard:   boxed(lipgloss.NormalBorder(), theme.Border).Foreground(theme.Muted),
		Divider:     fg(theme.Border),

		PlayingBadge: badge(AmpPlaying),
		MutedBadge:   badge(AmpMuted),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal rule of width cells.
func (s Styles) RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

// fg is a plain foreground style, also used for wire segments.
func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
