package domain

import (
	"errors"
	"testing"
)

func TestDefaultParams_Valid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default parameters must validate: %v", err)
	}
}

func TestParams_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero take profit", func(p *Params) { p.TakeProfitPct = 0 }},
		{"take profit at 100%", func(p *Params) { p.TakeProfitPct = 1 }},
		{"negative stop loss", func(p *Params) { p.StopLossPct = -0.1 }},
		{"stop loss above 100%", func(p *Params) { p.StopLossPct = 1.5 }},
		{"zero risk reward", func(p *Params) { p.MinRiskReward = 0 }},
		{"zero confirmations", func(p *Params) { p.MinConfirmations = 0 }},
		{"inverted rsi buy band", func(p *Params) { p.RSIBuyLow = 60; p.RSIBuyHigh = 40 }},
		{"rsi sell band above 100", func(p *Params) { p.RSISellHigh = 120 }},
		{"zero volume threshold", func(p *Params) { p.VolumeThreshold = 0 }},
		{"zero interval", func(p *Params) { p.MinSignalIntervalDays = 0 }},
		{"zero window", func(p *Params) { p.ExecutionWindowDays = 0 }},
		{"bogus tie break", func(p *Params) { p.TieBreak = "highest_wins" }},
		{"zero fallback stop", func(p *Params) { p.FallbackStopLossPct = 0 }},
		{"fallback take profit at 100%", func(p *Params) { p.FallbackTakeProfitPct = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestOverrides_Apply(t *testing.T) {
	base := DefaultParams()

	tp := 0.25
	conf := 4
	applied := Overrides{TakeProfitPct: &tp, MinConfirmations: &conf}.Apply(base)

	if applied.TakeProfitPct != 0.25 {
		t.Errorf("TakeProfitPct = %v, want 0.25", applied.TakeProfitPct)
	}
	if applied.MinConfirmations != 4 {
		t.Errorf("MinConfirmations = %v, want 4", applied.MinConfirmations)
	}
	// Untouched fields keep the base value.
	if applied.StopLossPct != base.StopLossPct {
		t.Errorf("StopLossPct changed: %v", applied.StopLossPct)
	}
	if applied.TieBreak != base.TieBreak {
		t.Errorf("TieBreak changed: %v", applied.TieBreak)
	}

	// Empty overrides are the identity.
	if got := (Overrides{}).Apply(base); got != base {
		t.Error("empty overrides must not modify the base")
	}
}
