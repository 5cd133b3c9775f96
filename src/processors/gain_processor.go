package processors

import (
	"math"

	"github.com/username/famfolio/backend/src/models"
)

// gainEpsilon absorbs floating-point noise from repeated subtraction so a
// pure capital movement never shows up as a tiny gain or loss.
const gainEpsilon = 1e-4

type GainProcessor struct{}

func NewGainProcessor() *GainProcessor {
	return &GainProcessor{}
}

// Decompose splits the change between two observations into capital movement
// and market performance. A contribution of X inflates the raw delta by X
// without representing performance, so it is subtracted out; the percentage
// base is the previous value adjusted by the movement, which avoids
// computing a return off a stale denominator.
func (p *GainProcessor) Decompose(newValue, previousValue, investmentChange float64) models.GainResult {
	gain := newValue - previousValue - investmentChange
	if math.Abs(gain) < gainEpsilon {
		gain = 0
	}

	adjustedStart := previousValue + investmentChange
	percent := 0.0
	if adjustedStart > 0 {
		percent = gain / adjustedStart * 100
	}

	return models.GainResult{
		MarketGain:        gain,
		MarketGainPercent: percent,
	}
}
