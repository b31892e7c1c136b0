package indicators

import (
	"trading-signal-lab/internal/candles"
)

// Periods holds the indicator window lengths.
type Periods struct {
	FastSMA    int // default 20
	SlowSMA    int // default 50
	RSI        int // default 14
	MACDFast   int // default 12
	MACDSlow   int // default 26
	MACDSignal int // default 9
	Volume     int // default 20
}

// DefaultPeriods returns the standard indicator windows.
func DefaultPeriods() Periods {
	return Periods{
		FastSMA:    20,
		SlowSMA:    50,
		RSI:        14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		Volume:     20,
	}
}

// Warmup returns the number of candles needed before a snapshot is
// defined: the slowest window among all indicators.
func (p Periods) Warmup() int {
	warmup := p.SlowSMA
	if n := p.RSI + 1; n > warmup {
		warmup = n
	}
	if n := p.MACDSlow + p.MACDSignal - 1; n > warmup {
		warmup = n
	}
	if n := p.Volume; n > warmup {
		warmup = n
	}
	return warmup
}

// Snapshot holds the derived values for one candle. A snapshot only
// exists once every component indicator has enough history; callers
// receive nil before that and must treat nil as "cannot evaluate".
type Snapshot struct {
	Timestamp   int64
	SMAFast     float64
	SMASlow     float64
	RSI         float64
	MACD        float64
	MACDSignal  float64
	MACDHist    float64
	VolumeRatio float64
}

// Compute derives one snapshot per candle, causally: the value at
// index i depends only on candles[0..i]. Leading entries are nil until
// the warm-up window is satisfied. Insufficient data is not an error.
func Compute(series *candles.Series, p Periods) []*Snapshot {
	n := series.Len()
	out := make([]*Snapshot, n)
	if n == 0 {
		return out
	}

	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := 0; i < n; i++ {
		c := series.At(i)
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	smaFast := rollingMean(closes, p.FastSMA)
	smaSlow := rollingMean(closes, p.SlowSMA)
	rsi := wilderRSI(closes, p.RSI)
	macd, signal := macdLines(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	volRatio := volumeRatio(volumes, p.Volume)

	warmup := p.Warmup()
	for i := warmup - 1; i < n; i++ {
		out[i] = &Snapshot{
			Timestamp:   series.At(i).Timestamp,
			SMAFast:     smaFast[i],
			SMASlow:     smaSlow[i],
			RSI:         rsi[i],
			MACD:        macd[i],
			MACDSignal:  signal[i],
			MACDHist:    macd[i] - signal[i],
			VolumeRatio: volRatio[i],
		}
	}
	return out
}

// rollingMean computes the simple moving average over the last period
// values. Entries before index period-1 are left at zero; Compute only
// reads past the warm-up boundary.
func rollingMean(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// wilderRSI computes RSI with Wilder smoothing: the first average
// gain/loss is a simple mean over the first period changes, every
// later one is the (period-1)-weighted recursion. RSI is 100 when the
// average loss is zero.
func wilderRSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// macdLines computes the MACD line (EMA fast - EMA slow) and its
// signal line (EMA of the MACD line). EMAs are seeded with the simple
// mean of their first window.
func macdLines(closes []float64, fast, slow, signalPeriod int) (macd, signal []float64) {
	n := len(closes)
	macd = make([]float64, n)
	signal = make([]float64, n)

	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)

	// MACD line is defined once the slow EMA exists.
	macdStart := slow - 1
	for i := macdStart; i < n; i++ {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line: EMA of the MACD line, seeded with the mean of its
	// first signalPeriod values.
	sigStart := macdStart + signalPeriod - 1
	if sigStart >= n {
		return macd, signal
	}
	seed := 0.0
	for i := macdStart; i <= sigStart; i++ {
		seed += macd[i]
	}
	seed /= float64(signalPeriod)
	signal[sigStart] = seed

	alpha := 2.0 / float64(signalPeriod+1)
	for i := sigStart + 1; i < n; i++ {
		signal[i] = signal[i-1]*(1-alpha) + macd[i]*alpha
	}
	return macd, signal
}

// ema computes an exponential moving average seeded with the simple
// mean of the first period values. Entries before index period-1 are
// left at zero.
func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) < period {
		return out
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	out[period-1] = seed / float64(period)

	alpha := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = out[i-1]*(1-alpha) + values[i]*alpha
	}
	return out
}

// volumeRatio computes current volume over the rolling mean volume of
// the last period bars (current bar included). A zero average reads as
// neutral 1.0.
func volumeRatio(volumes []float64, period int) []float64 {
	out := make([]float64, len(volumes))
	avg := rollingMean(volumes, period)
	for i := period - 1; i < len(volumes); i++ {
		if avg[i] == 0 {
			out[i] = 1.0
			continue
		}
		out[i] = volumes[i] / avg[i]
	}
	return out
}
