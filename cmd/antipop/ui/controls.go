package ui

import (
	"fmt"
	"strings"

	"antipop/internal/circuit"
)

// RenderControls draws the power and amplifier status panel.
func RenderControls(st circuit.State, p circuit.Params, s Styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Controls"))
	b.WriteString("\n\n")

	supply := fmt.Sprintf("%.1f V", 0.0)
	powerStyle := s.Muted
	power := "OFF"
	if st.Powered {
		supply = fmt.Sprintf("%.1f V", p.SupplyVoltage)
		powerStyle = s.Error
		power = "ON"
	}
	b.WriteString(s.Muted.Render("POWER SUPPLY  "))
	b.WriteString(powerStyle.Render(fmt.Sprintf("%-7s [%s]", supply, power)))
	b.WriteString("\n\n")

	b.WriteString(s.Muted.Render("AMP STATUS"))
	b.WriteString("\n")
	if st.Playing(p) {
		b.WriteString(s.PlayingBadge.Render("♪ PLAYING"))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(fmt.Sprintf("SDZ Voltage is High (>%gV)", p.MuteThreshold)))
	} else {
		b.WriteString(s.MutedBadge.Render("✕ MUTED"))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(fmt.Sprintf("SDZ Voltage is Low (<%gV)", p.MuteThreshold)))
	}
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("t=%.2fs  C1 %d%%  Q1 %s", st.TimeElapsed, st.ChargePercent(), st.Transistor)))
	return b.String()
}
