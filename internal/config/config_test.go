package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trading-signal-lab/internal/domain"
)

func writeParams(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeParams(t, "take_profit_pct: 0.2\nmin_confirmations: 3\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.TakeProfitPct != 0.2 {
		t.Errorf("TakeProfitPct = %v, want 0.2", p.TakeProfitPct)
	}
	if p.MinConfirmations != 3 {
		t.Errorf("MinConfirmations = %d, want 3", p.MinConfirmations)
	}

	defaults := domain.DefaultParams()
	if p.StopLossPct != defaults.StopLossPct {
		t.Errorf("StopLossPct = %v, want the default %v", p.StopLossPct, defaults.StopLossPct)
	}
	if p.TieBreak != defaults.TieBreak {
		t.Errorf("TieBreak = %s, want the default %s", p.TieBreak, defaults.TieBreak)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"negative stop loss", "stop_loss_pct: -0.05\n"},
		{"zero interval", "min_signal_interval_days: 0\n"},
		{"unknown tie break", "tie_break: coin_flip\n"},
		{"inverted rsi range", "rsi_buy_low: 60\nrsi_buy_high: 40\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeParams(t, tc.body))
			if !errors.Is(err, domain.ErrInvalidParams) {
				t.Errorf("Load = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	if _, err := Load(writeParams(t, "take_profit_pct: [not a number\n")); err == nil {
		t.Error("malformed yaml must fail")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file must fail")
	}
}
