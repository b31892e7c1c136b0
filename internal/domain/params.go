package domain

import (
	"errors"
	"fmt"
)

// TieBreak selects which side wins when a single bar touches both the
// target and the stop. Target-first is optimistic and overstates win
// rate; stop-first exists for sensitivity runs.
type TieBreak string

// TieBreak constants.
const (
	TieBreakTargetFirst TieBreak = "target_first"
	TieBreakStopFirst   TieBreak = "stop_first"
)

// Params validation errors.
var (
	ErrInvalidParams = errors.New("invalid strategy parameters")
)

// Params is the immutable configuration object passed into every
// component. There is no ambient or global strategy state; a run owns
// exactly one Params value.
type Params struct {
	// Signal construction
	TakeProfitPct float64 `yaml:"take_profit_pct"` // target distance from entry
	StopLossPct   float64 `yaml:"stop_loss_pct"`   // stop distance from entry
	MinRiskReward float64 `yaml:"min_risk_reward"` // hard gate at signal creation

	// Confirmation scoring
	MinConfirmations int     `yaml:"min_confirmations"`
	RSIBuyLow        float64 `yaml:"rsi_buy_low"`
	RSIBuyHigh       float64 `yaml:"rsi_buy_high"`
	RSISellLow       float64 `yaml:"rsi_sell_low"`
	RSISellHigh      float64 `yaml:"rsi_sell_high"`
	VolumeThreshold  float64 `yaml:"volume_threshold"`

	// Cadence and replay
	MinSignalIntervalDays int      `yaml:"min_signal_interval_days"` // one signal per interval is guaranteed
	ExecutionWindowDays   int      `yaml:"execution_window_days"`
	TieBreak              TieBreak `yaml:"tie_break"`

	// Fallback tiers (relaxed / trend-following) use smaller exits and a
	// lower gate to make acceptance more likely.
	FallbackTakeProfitPct float64 `yaml:"fallback_take_profit_pct"`
	FallbackStopLossPct   float64 `yaml:"fallback_stop_loss_pct"`
	FallbackMinRiskReward float64 `yaml:"fallback_min_risk_reward"`
}

// DefaultParams returns the documented default configuration.
func DefaultParams() Params {
	return Params{
		TakeProfitPct: 0.15,
		StopLossPct:   0.08,
		MinRiskReward: 1.5,

		MinConfirmations: 2,
		RSIBuyLow:        20,
		RSIBuyHigh:       50,
		RSISellLow:       50,
		RSISellHigh:      80,
		VolumeThreshold:  1.2,

		MinSignalIntervalDays: 60,
		ExecutionWindowDays:   7,
		TieBreak:              TieBreakTargetFirst,

		FallbackTakeProfitPct: 0.12,
		FallbackStopLossPct:   0.06,
		FallbackMinRiskReward: 1.2,
	}
}

// Validate fails fast on configuration errors before any simulation
// begins.
func (p Params) Validate() error {
	if p.TakeProfitPct <= 0 || p.TakeProfitPct >= 1 {
		return fmt.Errorf("%w: take_profit_pct must be in (0, 1)", ErrInvalidParams)
	}
	if p.StopLossPct <= 0 || p.StopLossPct >= 1 {
		return fmt.Errorf("%w: stop_loss_pct must be in (0, 1)", ErrInvalidParams)
	}
	if p.MinRiskReward <= 0 {
		return fmt.Errorf("%w: min_risk_reward must be positive", ErrInvalidParams)
	}
	if p.MinConfirmations < 1 {
		return fmt.Errorf("%w: min_confirmations must be at least 1", ErrInvalidParams)
	}
	if p.RSIBuyLow < 0 || p.RSIBuyHigh > 100 || p.RSIBuyLow >= p.RSIBuyHigh {
		return fmt.Errorf("%w: rsi buy range must be ordered within [0,100]", ErrInvalidParams)
	}
	if p.RSISellLow < 0 || p.RSISellHigh > 100 || p.RSISellLow >= p.RSISellHigh {
		return fmt.Errorf("%w: rsi sell range must be ordered within [0,100]", ErrInvalidParams)
	}
	if p.VolumeThreshold <= 0 {
		return fmt.Errorf("%w: volume_threshold must be positive", ErrInvalidParams)
	}
	if p.MinSignalIntervalDays < 1 {
		return fmt.Errorf("%w: min_signal_interval_days must be at least 1", ErrInvalidParams)
	}
	if p.ExecutionWindowDays < 1 {
		return fmt.Errorf("%w: execution_window_days must be at least 1", ErrInvalidParams)
	}
	if p.TieBreak != TieBreakTargetFirst && p.TieBreak != TieBreakStopFirst {
		return fmt.Errorf("%w: tie_break must be %q or %q", ErrInvalidParams, TieBreakTargetFirst, TieBreakStopFirst)
	}
	if p.FallbackTakeProfitPct <= 0 || p.FallbackTakeProfitPct >= 1 ||
		p.FallbackStopLossPct <= 0 || p.FallbackStopLossPct >= 1 {
		return fmt.Errorf("%w: fallback exit percentages must be in (0, 1)", ErrInvalidParams)
	}
	if p.FallbackMinRiskReward <= 0 {
		return fmt.Errorf("%w: fallback_min_risk_reward must be positive", ErrInvalidParams)
	}
	return nil
}

// Overrides carries optional parameter replacements. Nil fields keep
// the base value. This is the explicit merge path for optimizers; no
// reflection-based attribute injection exists.
type Overrides struct {
	TakeProfitPct    *float64  `yaml:"take_profit_pct"`
	StopLossPct      *float64  `yaml:"stop_loss_pct"`
	MinRiskReward    *float64  `yaml:"min_risk_reward"`
	MinConfirmations *int      `yaml:"min_confirmations"`
	VolumeThreshold  *float64  `yaml:"volume_threshold"`
	TieBreak         *TieBreak `yaml:"tie_break"`
}

// Apply returns a copy of base with the non-nil overrides applied.
func (o Overrides) Apply(base Params) Params {
	p := base
	if o.TakeProfitPct != nil {
		p.TakeProfitPct = *o.TakeProfitPct
	}
	if o.StopLossPct != nil {
		p.StopLossPct = *o.StopLossPct
	}
	if o.MinRiskReward != nil {
		p.MinRiskReward = *o.MinRiskReward
	}
	if o.MinConfirmations != nil {
		p.MinConfirmations = *o.MinConfirmations
	}
	if o.VolumeThreshold != nil {
		p.VolumeThreshold = *o.VolumeThreshold
	}
	if o.TieBreak != nil {
		p.TieBreak = *o.TieBreak
	}
	return p
}
