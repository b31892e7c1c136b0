package frequency

import (
	"math/rand"

	"trading-signal-lab/internal/domain"
	"trading-signal-lab/internal/idhash"
	"trading-signal-lab/internal/signalgen"
)

// syntheticConfidence is the fixed confidence of last-resort signals.
const syntheticConfidence = 0.6

// syntheticPerturbation bounds the seeded price perturbation (+/-5%).
const syntheticPerturbation = 0.05

// defaultPrices is the per-symbol fallback price table used when no
// candle has ever been seen for the symbol. A last-resort heuristic
// with no economic basis; reports over synthetic signals carry an
// IsSynthetic flag so callers never mistake them for real results.
var defaultPrices = map[string]float64{
	"BTC":  45000,
	"ETH":  2500,
	"SOL":  100,
	"BNB":  300,
	"XRP":  0.6,
	"ADA":  0.45,
	"DOGE": 0.08,
}

// genericDefaultPrice is used for symbols absent from the table.
const genericDefaultPrice = 1.0

// syntheticPass generates `required` alternating BUY/SELL signals at
// evenly spaced dates. The price perturbation is seeded from
// (symbol, date, index), so repeated runs are byte-identical.
func (e *Enforcer) syntheticPass(symbol string, rangeStart, rangeEnd int64, required int) []*domain.Signal {
	base, ok := defaultPrices[symbol]
	if !ok {
		base = genericDefaultPrice
	}

	step := (rangeEnd - rangeStart + 1) / int64(required)
	if step <= 0 {
		step = domain.DayMs
	}
	exits := signalgen.FallbackExits(e.params)

	out := make([]*domain.Signal, 0, required)
	for k := 0; k < required; k++ {
		createdAt := rangeStart + int64(k)*step

		rng := rand.New(rand.NewSource(idhash.SyntheticSeed(symbol, createdAt, k)))
		perturb := (rng.Float64()*2 - 1) * syntheticPerturbation
		entry := base * (1 + perturb)

		direction := domain.DirectionBuy
		if k%2 == 1 {
			direction = domain.DirectionSell
		}

		sig, err := signalgen.Build(symbol, direction, entry, createdAt,
			syntheticConfidence, 0, domain.SourceSyntheticFallback, exits)
		if err != nil {
			continue // cannot happen with positive base prices, but never abort the pass
		}
		out = append(out, sig)
	}
	return out
}
