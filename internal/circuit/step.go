package circuit

import "math"

// Step advances the circuit by one tick of p.Tick and returns the next state.
// It never fails: every branch clamps its result.
func Step(prev State, p Params) State {
	next := prev
	next.TimeElapsed = prev.TimeElapsed + p.Tick.Seconds()

	if !prev.Powered {
		// The rail is gone, so SDZ collapses with it rather than through the
		// RC network; the capacitor drains through the discharge resistor.
		next.CapacitorCharge = math.Max(0, prev.CapacitorCharge-p.DischargeRate())
		next.Transistor = TransistorOff
		next.GatingVoltage = 0
		next.SupplyVoltage = 0
		return next
	}

	next.CapacitorCharge = math.Min(1, prev.CapacitorCharge+p.ChargeRate)
	if next.CapacitorCharge < p.ChargeThreshold {
		next.Transistor = TransistorOn
		next.GatingVoltage = p.LowGatingVoltage
	} else {
		next.Transistor = TransistorOff
		next.GatingVoltage = p.HighGatingVoltage()
	}
	next.SupplyVoltage = p.SupplyVoltage
	return next
}

// Run applies Step n times and returns every intermediate state, oldest first.
func Run(start State, p Params, n int) []State {
	if n <= 0 {
		return nil
	}
	out := make([]State, 0, n)
	s := start
	for i := 0; i < n; i++ {
		s = Step(s, p)
		out = append(out, s)
	}
	return out
}
