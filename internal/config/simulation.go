package config

import (
	"fmt"
	"time"

	"antipop/internal/circuit"
	"antipop/internal/history"
)

// SimulationConfig exposes the circuit model's constants. The threshold and
// discharge multiplier have no derivation from the real component values, so
// they are tunable rather than fixed.
type SimulationConfig struct {
	TickRate            string  `yaml:"tick_rate"`
	ChargeRate          float64 `yaml:"charge_rate"`
	DischargeMultiplier float64 `yaml:"discharge_multiplier"`
	ChargeThreshold     float64 `yaml:"charge_threshold"`
	SupplyVoltage       float64 `yaml:"supply_voltage"`
	LowGatingVoltage    float64 `yaml:"low_gating_voltage"`
	PullUpOhms          float64 `yaml:"pullup_ohms"`
	InternalOhms        float64 `yaml:"internal_ohms"`
	MuteThreshold       float64 `yaml:"mute_threshold"`
}

// DefaultSimulationConfig mirrors circuit.DefaultParams.
func DefaultSimulationConfig() SimulationConfig {
	p := circuit.DefaultParams()
	return SimulationConfig{
		TickRate:            p.Tick.String(),
		ChargeRate:          p.ChargeRate,
		DischargeMultiplier: p.DischargeMultiplier,
		ChargeThreshold:     p.ChargeThreshold,
		SupplyVoltage:       p.SupplyVoltage,
		LowGatingVoltage:    p.LowGatingVoltage,
		PullUpOhms:          p.PullUpOhms,
		InternalOhms:        p.InternalOhms,
		MuteThreshold:       p.MuteThreshold,
	}
}

// Params converts the section into circuit parameters. It does not validate
// the values; call Validate on the result.
func (s SimulationConfig) Params() (circuit.Params, error) {
	tick, err := time.ParseDuration(s.TickRate)
	if err != nil {
		return circuit.Params{}, fmt.Errorf("invalid tick_rate %q: %w", s.TickRate, err)
	}
	return circuit.Params{
		Tick:                tick,
		ChargeRate:          s.ChargeRate,
		DischargeMultiplier: s.DischargeMultiplier,
		ChargeThreshold:     s.ChargeThreshold,
		SupplyVoltage:       s.SupplyVoltage,
		LowGatingVoltage:    s.LowGatingVoltage,
		PullUpOhms:          s.PullUpOhms,
		InternalOhms:        s.InternalOhms,
		MuteThreshold:       s.MuteThreshold,
	}, nil
}

// SamplePolicy parses the history sampling policy.
func (c *Config) SamplePolicy() (history.Policy, error) {
	return history.ParsePolicy(c.History.SamplePolicy)
}
