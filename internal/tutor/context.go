package tutor

import (
	"fmt"
	"math"
	"strings"

	"antipop/internal/circuit"
)

// CircuitContext renders the fixed-shape state summary handed to the model
// alongside each question.
func CircuitContext(s circuit.State, p circuit.Params) string {
	power := "OFF"
	if s.Powered {
		power = "ON"
	}
	amp := "Muted"
	if s.Playing(p) {
		amp = "Playing"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Power is %s.\n", power)
	fmt.Fprintf(&b, "Capacitor Charge is %d%%.\n", s.ChargePercent())
	fmt.Fprintf(&b, "Transistor is %s.\n", s.Transistor)
	fmt.Fprintf(&b, "SDZ Voltage is %.1fV.\n", roundTenth(s.GatingVoltage))
	fmt.Fprintf(&b, "The Amp is %s.", amp)
	return b.String()
}

// roundTenth rounds half away from zero so 0.25 reads as 0.3, not 0.2.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
