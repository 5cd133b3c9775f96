package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecompose(t *testing.T) {
	p := NewGainProcessor()

	t.Run("pure market gain", func(t *testing.T) {
		result := p.Decompose(110, 100, 0)
		assert.InDelta(t, 10.0, result.MarketGain, 1e-9)
		assert.InDelta(t, 10.0, result.MarketGainPercent, 1e-9)
	})

	t.Run("pure capital movement is not a gain", func(t *testing.T) {
		result := p.Decompose(15000, 10000, 5000)
		assert.Equal(t, 0.0, result.MarketGain)
		assert.Equal(t, 0.0, result.MarketGainPercent)
	})

	t.Run("mixed contribution and growth", func(t *testing.T) {
		// 10000 start, 5000 contributed, ended at 15750: the market added 750
		// on an adjusted base of 15000.
		result := p.Decompose(15750, 10000, 5000)
		assert.InDelta(t, 750.0, result.MarketGain, 1e-9)
		assert.InDelta(t, 5.0, result.MarketGainPercent, 1e-9)
	})

	t.Run("withdrawal", func(t *testing.T) {
		result := p.Decompose(9500, 12000, -3000)
		assert.InDelta(t, 500.0, result.MarketGain, 1e-9)
		assert.InDelta(t, 500.0/9000*100, result.MarketGainPercent, 1e-9)
	})

	t.Run("market loss", func(t *testing.T) {
		result := p.Decompose(95, 100, 0)
		assert.InDelta(t, -5.0, result.MarketGain, 1e-9)
		assert.InDelta(t, -5.0, result.MarketGainPercent, 1e-9)
	})

	t.Run("float noise snaps to zero", func(t *testing.T) {
		result := p.Decompose(100.00001, 50, 50)
		assert.Equal(t, 0.0, result.MarketGain)
	})

	t.Run("non-positive adjusted base yields zero percent", func(t *testing.T) {
		result := p.Decompose(50, 100, -100)
		assert.InDelta(t, 50.0, result.MarketGain, 1e-9)
		assert.Equal(t, 0.0, result.MarketGainPercent)
	})
}
