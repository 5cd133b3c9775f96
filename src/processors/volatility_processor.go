package processors

import (
	"math"

	"github.com/username/famfolio/backend/src/models"
)

type VolatilityProcessor struct{}

func NewVolatilityProcessor() *VolatilityProcessor {
	return &VolatilityProcessor{}
}

// Summarize derives the dispersion statistics of a set of monthly return
// percentages: population standard deviation plus the best and worst month.
// An empty set yields zeroes; a single return has no dispersion.
func (p *VolatilityProcessor) Summarize(returns []float64) models.ReturnsSummary {
	if len(returns) == 0 {
		return models.ReturnsSummary{}
	}

	best := returns[0]
	worst := returns[0]
	sum := 0.0
	for _, r := range returns {
		if r > best {
			best = r
		}
		if r < worst {
			worst = r
		}
		sum += r
	}

	volatility := 0.0
	if len(returns) > 1 {
		mean := sum / float64(len(returns))
		var squared float64
		for _, r := range returns {
			d := r - mean
			squared += d * d
		}
		volatility = math.Sqrt(squared / float64(len(returns)))
	}

	return models.ReturnsSummary{
		Volatility: volatility,
		BestMonth:  best,
		WorstMonth: worst,
	}
}
