package domain

import (
	"errors"
	"testing"
)

func validCandle() *Candle {
	return &Candle{
		Timestamp: 1_700_000_000_000,
		Open:      100,
		High:      110,
		Low:       95,
		Close:     105,
		Volume:    1000,
	}
}

func TestCandle_Validate(t *testing.T) {
	if err := validCandle().Validate(); err != nil {
		t.Fatalf("valid candle rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Candle)
		wantErr error
	}{
		{"zero open", func(c *Candle) { c.Open = 0 }, ErrNonPositivePrice},
		{"negative close", func(c *Candle) { c.Close = -1 }, ErrNonPositivePrice},
		{"high below low", func(c *Candle) { c.High = 90 }, ErrInvalidCandleRange},
		{"high below open", func(c *Candle) { c.High = 99; c.Close = 98 }, ErrInvalidCandleRange},
		{"low above close", func(c *Candle) { c.Low = 106 }, ErrInvalidCandleRange},
		{"negative volume", func(c *Candle) { c.Volume = -5 }, ErrNegativeVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandle()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCandle_ZeroVolumeAllowed(t *testing.T) {
	c := validCandle()
	c.Volume = 0
	if err := c.Validate(); err != nil {
		t.Errorf("zero volume should be valid: %v", err)
	}
}

func TestCandle_Shape(t *testing.T) {
	c := validCandle() // open 100, close 105
	if !c.Bullish() || c.Bearish() {
		t.Error("close above open must read bullish")
	}
	if got := c.Body(); got != 5 {
		t.Errorf("Body() = %v, want 5", got)
	}
	if got := c.Range(); got != 15 {
		t.Errorf("Range() = %v, want 15", got)
	}

	c.Close = 95
	if c.Bullish() || !c.Bearish() {
		t.Error("close below open must read bearish")
	}
}
