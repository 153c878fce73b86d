// Package circuit models the anti-pop timing circuit: an RC timer whose
// charging current holds a BC548 transistor on, which in turn keeps the
// TPA3116 shutdown pin (SDZ) low until the capacitor is nearly full.
//
// The model is deliberately discrete. A fixed charge step per tick and a
// single threshold stand in for the RC curve, and SDZ only takes three
// levels: 0 V unpowered, a low level while the transistor conducts, and the
// resistive-divider level once it releases.
package circuit

import "math"

// TransistorState is the switching state of Q1.
type TransistorState string

const (
	TransistorOff TransistorState = "OFF"
	TransistorOn  TransistorState = "ON"
)

// State is one snapshot of the circuit. Values are replaced whole on every
// tick; nothing mutates a State after it has been published.
type State struct {
	Powered         bool            `json:"is_powered"`
	TimeElapsed     float64         `json:"time_elapsed"` // seconds
	CapacitorCharge float64         `json:"capacitor_charge"`
	Transistor      TransistorState `json:"transistor_state"`
	GatingVoltage   float64         `json:"gating_voltage"`
	SupplyVoltage   float64         `json:"supply_voltage"`
}

// Initial returns the unpowered, fully discharged state.
func Initial() State {
	return State{Transistor: TransistorOff}
}

// TogglePower flips the power input. Derived fields catch up on the next Step.
func (s State) TogglePower() State {
	s.Powered = !s.Powered
	return s
}

// Playing reports whether SDZ is above the amplifier's mute threshold.
func (s State) Playing(p Params) bool {
	return s.GatingVoltage > p.MuteThreshold
}

// ChargePercent is the capacitor charge as a whole percentage.
func (s State) ChargePercent() int {
	return int(math.Round(s.CapacitorCharge * 100))
}
