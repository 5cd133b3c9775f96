package processors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	p := NewVolatilityProcessor()

	t.Run("empty", func(t *testing.T) {
		summary := p.Summarize(nil)
		assert.Equal(t, 0.0, summary.Volatility)
		assert.Equal(t, 0.0, summary.BestMonth)
		assert.Equal(t, 0.0, summary.WorstMonth)
	})

	t.Run("single return has no dispersion", func(t *testing.T) {
		summary := p.Summarize([]float64{5})
		assert.Equal(t, 0.0, summary.Volatility)
		assert.Equal(t, 5.0, summary.BestMonth)
		assert.Equal(t, 5.0, summary.WorstMonth)
	})

	t.Run("population standard deviation", func(t *testing.T) {
		summary := p.Summarize([]float64{0, 10, -10})
		// mean 0, squared deviations 0+100+100 over n=3
		assert.InDelta(t, math.Sqrt(200.0/3.0), summary.Volatility, 1e-9)
		assert.Equal(t, 10.0, summary.BestMonth)
		assert.Equal(t, -10.0, summary.WorstMonth)
	})

	t.Run("all negative returns", func(t *testing.T) {
		summary := p.Summarize([]float64{-2, -5, -1})
		assert.Equal(t, -1.0, summary.BestMonth)
		assert.Equal(t, -5.0, summary.WorstMonth)
	})
}
