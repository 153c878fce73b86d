package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams_Divider(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 24*100.0/112.0, p.HighGatingVoltage(), 1e-9)
	assert.InDelta(t, 0.04, p.DischargeRate(), 1e-12)
	assert.NoError(t, p.Validate())
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero tick", func(p *Params) { p.Tick = 0 }},
		{"negative charge rate", func(p *Params) { p.ChargeRate = -0.1 }},
		{"charge rate above one", func(p *Params) { p.ChargeRate = 1.5 }},
		{"zero multiplier", func(p *Params) { p.DischargeMultiplier = 0 }},
		{"threshold above one", func(p *Params) { p.ChargeThreshold = 1.2 }},
		{"zero threshold", func(p *Params) { p.ChargeThreshold = 0 }},
		{"no supply", func(p *Params) { p.SupplyVoltage = 0 }},
		{"negative pull-up", func(p *Params) { p.PullUpOhms = -1 }},
		{"open divider", func(p *Params) { p.PullUpOhms, p.InternalOhms = 0, 0 }},
		{"low level above high", func(p *Params) { p.LowGatingVoltage = 30 }},
		{"negative mute threshold", func(p *Params) { p.MuteThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))
		})
	}
}

func TestState_ChargePercent(t *testing.T) {
	assert.Equal(t, 0, Initial().ChargePercent())
	assert.Equal(t, 86, State{CapacitorCharge: 0.8600000001}.ChargePercent())
	assert.Equal(t, 100, State{CapacitorCharge: 1}.ChargePercent())
}

func TestState_TogglePowerOnlyFlipsInput(t *testing.T) {
	s := State{Powered: true, CapacitorCharge: 0.4, Transistor: TransistorOn, GatingVoltage: 0.2, SupplyVoltage: 24}
	off := s.TogglePower()
	assert.False(t, off.Powered)
	assert.Equal(t, s.CapacitorCharge, off.CapacitorCharge)
	assert.Equal(t, s.GatingVoltage, off.GatingVoltage)
	assert.True(t, s.Powered, "receiver must not change")
}
