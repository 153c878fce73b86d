package circuit

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid circuit params")

// Params holds the tunable constants of the simulation.
// The defaults reproduce the reference behavior: 10ms ticks, 2% charge per
// tick, discharge at twice the charge rate and the transistor releasing SDZ
// once the capacitor passes 85%.
type Params struct {
	Tick                time.Duration
	ChargeRate          float64 // charge fraction added per powered tick
	DischargeMultiplier float64 // discharge per tick = ChargeRate * DischargeMultiplier
	ChargeThreshold     float64 // transistor is ON while charge is below this
	SupplyVoltage       float64 // volts on the main rail when powered
	LowGatingVoltage    float64 // SDZ level while the transistor pulls it to ground
	PullUpOhms          float64 // external pull-up between the rail and SDZ
	InternalOhms        float64 // amplifier's internal pull-down on SDZ
	MuteThreshold       float64 // SDZ above this means the amplifier plays
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		Tick:                10 * time.Millisecond,
		ChargeRate:          0.02,
		DischargeMultiplier: 2,
		ChargeThreshold:     0.85,
		SupplyVoltage:       24.0,
		LowGatingVoltage:    0.2,
		PullUpOhms:          12_000,
		InternalOhms:        100_000,
		MuteThreshold:       2.0,
	}
}

// HighGatingVoltage is the steady SDZ level once the transistor releases the
// pin: the supply divided between the pull-up and the internal resistor.
func (p Params) HighGatingVoltage() float64 {
	return p.SupplyVoltage * (p.InternalOhms / (p.PullUpOhms + p.InternalOhms))
}

// DischargeRate is the charge fraction removed per unpowered tick.
func (p Params) DischargeRate() float64 {
	return p.ChargeRate * p.DischargeMultiplier
}

// Validate reports the first parameter outside its usable range.
func (p Params) Validate() error {
	switch {
	case p.Tick <= 0:
		return fmt.Errorf("%w: tick must be positive, got %v", ErrInvalidParams, p.Tick)
	case p.ChargeRate <= 0 || p.ChargeRate > 1:
		return fmt.Errorf("%w: charge rate must be in (0, 1], got %g", ErrInvalidParams, p.ChargeRate)
	case p.DischargeMultiplier <= 0:
		return fmt.Errorf("%w: discharge multiplier must be positive, got %g", ErrInvalidParams, p.DischargeMultiplier)
	case p.ChargeThreshold <= 0 || p.ChargeThreshold > 1:
		return fmt.Errorf("%w: charge threshold must be in (0, 1], got %g", ErrInvalidParams, p.ChargeThreshold)
	case p.SupplyVoltage <= 0:
		return fmt.Errorf("%w: supply voltage must be positive, got %g", ErrInvalidParams, p.SupplyVoltage)
	case p.PullUpOhms < 0 || p.InternalOhms < 0 || p.PullUpOhms+p.InternalOhms <= 0:
		return fmt.Errorf("%w: divider resistances must be non-negative with a positive sum", ErrInvalidParams)
	case p.LowGatingVoltage < 0 || p.LowGatingVoltage >= p.HighGatingVoltage():
		return fmt.Errorf("%w: low gating voltage %g must be in [0, %.2f)", ErrInvalidParams, p.LowGatingVoltage, p.HighGatingVoltage())
	case p.MuteThreshold < 0:
		return fmt.Errorf("%w: mute threshold must be non-negative, got %g", ErrInvalidParams, p.MuteThreshold)
	}
	return nil
}
