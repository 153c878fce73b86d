package ui

import (
	"fmt"
	"math"
	"strings"

	"antipop/internal/circuit"
	"antipop/internal/parts"

	"github.com/charmbracelet/lipgloss"
)

// wireColors are the live colors of the three circuit nets.
type wireColors struct {
	power lipgloss.Color
	base  lipgloss.Color
	sdz   lipgloss.Color
}

func colorsFor(st circuit.State, theme Theme) wireColors {
	c := wireColors{power: theme.IdleWire, base: theme.IdleWire, sdz: theme.IdleWire}
	if !st.Powered {
		return c
	}
	c.power = PowerRail
	if st.Transistor == circuit.TransistorOn {
		c.base = BaseCurrent
		c.sdz = GroundRail
	} else {
		c.sdz = SDZHigh
	}
	return c
}

// ChargeBar renders the capacitor charge as a fixed-width gauge.
func ChargeBar(charge float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, charge)) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderSchematic draws the anti-pop network with each net colored by the
// live state. The focused part, if any, is highlighted.
func RenderSchematic(st circuit.State, focus parts.ID, s Styles) string {
	c := colorsFor(st, s.Theme)
	power := fg(c.power)
	base := fg(c.base)
	sdz := fg(c.sdz)
	gnd := fg(GroundRail)
	charge := fg(ChargeFill)

	part := func(id parts.ID, text string) string {
		if id == focus {
			return s.FocusedPart.Render(text)
		}
		return s.Part.Render(text)
	}
	pad := func(n int) string { return strings.Repeat(" ", n) }

	q1 := "ON "
	if st.Transistor == circuit.TransistorOff {
		q1 = "OFF"
	}
	sdzLabel := fmt.Sprintf(" %4.1f V", st.GatingVoltage)

	groundRail := []rune(strings.Repeat("━", 55))
	groundRail[3] = '┷'
	groundRail[21] = '┷'

	lines := []string{
		s.Muted.Render("+24V ") + power.Render(strings.Repeat("━", 55)),
		pad(8) + power.Render("│") + pad(35) + power.Render("│"),
		pad(6) + part(parts.Capacitor, "──┴──") + pad(2) + part(parts.Capacitor, "C1 10µF") + pad(23) + part(parts.PullUpResistor, "┌┴┐"),
		pad(6) + part(parts.Capacitor, "──┬──") + pad(2) + "[" + charge.Render(ChargeBar(st.CapacitorCharge, 10)) + "]" +
			fmt.Sprintf("%4d%%", st.ChargePercent()) + pad(13) + part(parts.PullUpResistor, "│ │") + " " + part(parts.PullUpResistor, "R_PU 12kΩ"),
		pad(8) + base.Render("│") + pad(34) + part(parts.PullUpResistor, "└┬┘"),
		pad(8) + base.Render("├──") + part(parts.BaseResistor, "[R_BASE 22kΩ]") + base.Render("──┐") + pad(17) + sdz.Render("│"),
		pad(8) + base.Render("│") + pad(17) + base.Render("│") + pad(17) + sdz.Render("├── SDZ ──▶ ") + part(parts.Amplifier, "[TPA3116]") + sdz.Render(sdzLabel),
		pad(7) + part(parts.DischargeResistor, "┌┴┐") + pad(16) + base.Render("▼") + pad(17) + sdz.Render("│"),
		pad(7) + part(parts.DischargeResistor, "│ │") + " " + part(parts.DischargeResistor, "R_DIS 100kΩ") + pad(2) + part(parts.Transistor, "┌─┴─┐") + sdz.Render(strings.Repeat("─", 15)+"┘"),
		pad(7) + part(parts.DischargeResistor, "└┬┘") + pad(14) + part(parts.Transistor, "│"+q1+"│") + " " + part(parts.Transistor, "Q1 BC548"),
		pad(8) + gnd.Render("│") + pad(15) + part(parts.Transistor, "└─┬─┘"),
		pad(8) + gnd.Render("│") + pad(17) + gnd.Render("│"),
		s.Muted.Render("GND  ") + gnd.Render(string(groundRail)),
	}
	return strings.Join(lines, "\n")
}
