package candles

import (
	"errors"
	"strings"
	"testing"

	"trading-signal-lab/internal/domain"
)

// makeCandles builds one candle per day with the given closes, starting
// at startMs. High/low bracket the close by 1%.
func makeCandles(closes []float64, startMs int64) []*domain.Candle {
	out := make([]*domain.Candle, len(closes))
	for i, c := range closes {
		out[i] = &domain.Candle{
			Timestamp: startMs + int64(i)*domain.DayMs,
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

func TestNewSeries_RejectsOutOfOrder(t *testing.T) {
	cs := makeCandles([]float64{100, 101, 102}, 1_000_000)
	cs[2].Timestamp = cs[1].Timestamp // duplicate timestamp

	if _, err := NewSeries("BTC", cs); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("NewSeries() = %v, want ErrOutOfOrder", err)
	}
}

func TestNewSeries_RejectsInvalidCandle(t *testing.T) {
	cs := makeCandles([]float64{100, 101}, 1_000_000)
	cs[1].High = cs[1].Low - 1

	if _, err := NewSeries("BTC", cs); !errors.Is(err, domain.ErrInvalidCandleRange) {
		t.Fatalf("NewSeries() = %v, want ErrInvalidCandleRange", err)
	}
}

func TestSeries_UpTo(t *testing.T) {
	start := int64(1_000_000)
	series, err := NewSeries("BTC", makeCandles([]float64{100, 101, 102, 103, 104}, start))
	if err != nil {
		t.Fatal(err)
	}

	sub := series.UpTo(start + 2*domain.DayMs)
	if sub.Len() != 3 {
		t.Fatalf("UpTo len = %d, want 3", sub.Len())
	}
	if sub.End() != start+2*domain.DayMs {
		t.Errorf("UpTo must not include candles after the boundary")
	}

	// Boundary before the first candle yields an empty sub-series.
	if got := series.UpTo(start - 1).Len(); got != 0 {
		t.Errorf("UpTo before start len = %d, want 0", got)
	}

	// Boundary after the last candle yields everything.
	if got := series.UpTo(start + 100*domain.DayMs).Len(); got != 5 {
		t.Errorf("UpTo after end len = %d, want 5", got)
	}
}

func TestSeries_Between(t *testing.T) {
	start := int64(1_000_000)
	series, err := NewSeries("BTC", makeCandles([]float64{100, 101, 102, 103}, start))
	if err != nil {
		t.Fatal(err)
	}

	// [from, to) excludes the end bound.
	window := series.Between(start+domain.DayMs, start+3*domain.DayMs)
	if len(window) != 2 {
		t.Fatalf("Between len = %d, want 2", len(window))
	}
	if window[0].Close != 101 || window[1].Close != 102 {
		t.Errorf("Between returned wrong candles: %v, %v", window[0].Close, window[1].Close)
	}

	if got := series.Between(start+10*domain.DayMs, start+20*domain.DayMs); len(got) != 0 {
		t.Errorf("Between past the end must be empty, got %d", len(got))
	}
}

func TestSeries_Empty(t *testing.T) {
	series, err := NewSeries("BTC", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !series.Empty() || series.Len() != 0 {
		t.Error("nil candle slice must make an empty series")
	}
	if series.Start() != 0 || series.End() != 0 {
		t.Error("Start/End on empty series must be 0")
	}
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"timestamp_ms,open,high,low,close,volume",
		"1000,100,110,95,105,500",
		"87401000,105,115,100,110,600",
	}, "\n")

	cs, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("got %d candles, want 2", len(cs))
	}
	if cs[0].Timestamp != 1000 || cs[0].Close != 105 {
		t.Errorf("first candle = %+v", cs[0])
	}
	if cs[1].Volume != 600 {
		t.Errorf("second candle volume = %v, want 600", cs[1].Volume)
	}
}

func TestReadCSV_NoHeader(t *testing.T) {
	cs, err := ReadCSV(strings.NewReader("1000,100,110,95,105,500\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(cs) != 1 {
		t.Fatalf("got %d candles, want 1", len(cs))
	}
}

func TestReadCSV_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"out of order", "2000,100,110,95,105,500\n1000,100,110,95,105,500\n"},
		{"invalid candle", "1000,100,90,95,105,500\n"},
		{"bad float", "1000,100,abc,95,105,500\n"},
		{"bad timestamp past header", "1000,100,110,95,105,500\nxyz,100,110,95,105,500\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadCSV accepted malformed input")
			}
		})
	}
}
