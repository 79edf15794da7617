package valuation_test

import (
	"math"
	"testing"

	"psn-value/core/valuation"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestMeanAndStdDev(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
		mean    float64
		stdDev  float64
	}{
		{"Empty", nil, 0, 0},
		{"Single", []float64{4}, 4, 0},
		{"Uniform", []float64{3, 3, 3}, 3, 0},
		{"Population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mean, valuation.Mean(tt.ratings), 1e-9)
			assert.InDelta(t, tt.stdDev, valuation.StdDev(tt.ratings), 1e-9)
		})
	}
}

func TestWeight(t *testing.T) {
	t.Run("ZeroStdDevIsNeutral", func(t *testing.T) {
		for _, raw := range []float64{0, 1, 3.7, 5, 100} {
			w := valuation.Weight(raw, 3, 0)
			assert.Equal(t, valuation.NeutralWeight, w)
			assert.False(t, math.IsNaN(w))
			assert.False(t, math.IsInf(w, 0))
		}
	})

	t.Run("NonFiniteStdDevIsNeutral", func(t *testing.T) {
		assert.Equal(t, valuation.NeutralWeight, valuation.Weight(4, 3, math.NaN()))
		assert.Equal(t, valuation.NeutralWeight, valuation.Weight(4, 3, math.Inf(1)))
	})

	t.Run("MeanMapsToNeutral", func(t *testing.T) {
		assert.InDelta(t, valuation.NeutralWeight, valuation.Weight(3.5, 3.5, 0.8), 1e-9)
	})

	t.Run("Monotonic", func(t *testing.T) {
		prev := valuation.Weight(0, 3, 1)
		for raw := 0.25; raw <= 5; raw += 0.25 {
			w := valuation.Weight(raw, 3, 1)
			assert.Greater(t, w, prev, "raw=%v", raw)
			prev = w
		}
	})

	t.Run("Bounded", func(t *testing.T) {
		w := valuation.Weight(1, 4.5, 0.3)
		assert.Greater(t, w, 0.0)
		assert.Less(t, valuation.Weight(5, 1, 0.1), valuation.RatingScale+1e-9)
	})

	t.Run("SaturatesForOutliers", func(t *testing.T) {
		// z = 10 and z = 40 both round to the top of the scale.
		assert.Equal(t, valuation.RatingScale, valuation.Weight(4, 3, 0.1))
		assert.Equal(t, valuation.RatingScale, valuation.Weight(5, 1, 0.1))
		assert.GreaterOrEqual(t, valuation.Weight(5, 1, 0.1), valuation.Weight(4, 1, 0.1))
	})
}

func TestExtractDiscounts(t *testing.T) {
	tests := []struct {
		name  string
		block valuation.PriceBlock
		want  valuation.Discounts
	}{
		{
			name:  "NoRewards",
			block: valuation.PriceBlock{Price: 1999},
			want:  valuation.Discounts{Base: 1999},
		},
		{
			name:  "EmptyRewards",
			block: valuation.PriceBlock{Price: 499, Rewards: []valuation.Reward{}},
			want:  valuation.Discounts{Base: 499},
		},
		{
			name: "BothDiscounts",
			block: valuation.PriceBlock{Price: 5999, Rewards: []valuation.Reward{
				{Discount: ptr(40), BonusDiscount: ptr(10)},
			}},
			want: valuation.Discounts{Base: 5999, Standard: 40, Loyalty: 10},
		},
		{
			name: "MissingBonus",
			block: valuation.PriceBlock{Price: 2000, Rewards: []valuation.Reward{
				{Discount: ptr(25)},
			}},
			want: valuation.Discounts{Base: 2000, Standard: 25},
		},
		{
			name: "OnlyFirstRewardCounts",
			block: valuation.PriceBlock{Price: 1000, Rewards: []valuation.Reward{
				{BonusDiscount: ptr(15)},
				{Discount: ptr(90), BonusDiscount: ptr(90)},
			}},
			want: valuation.Discounts{Base: 1000, Loyalty: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuation.ExtractDiscounts(tt.block))
		})
	}
}

func TestDiscountedPrice(t *testing.T) {
	assert.InDelta(t, 1000.0, valuation.DiscountedPrice(valuation.Discounts{Base: 1000}), 1e-9)
	assert.InDelta(t, 500.0, valuation.DiscountedPrice(valuation.Discounts{Base: 1000, Standard: 40, Loyalty: 10}), 1e-9)
	assert.Equal(t, 0.0, valuation.DiscountedPrice(valuation.Discounts{Base: 1000, Standard: 80, Loyalty: 40}))
}

func TestEffectivePrice(t *testing.T) {
	const minimum = 1.0
	for _, p := range []float64{0, -1, -0.01, -5000} {
		assert.Equal(t, minimum, valuation.EffectivePrice(p, minimum), "price=%v", p)
	}
	assert.Equal(t, 1999.0, valuation.EffectivePrice(1999, minimum))
}

func TestComputeValue(t *testing.T) {
	t.Run("IncreasingInRating", func(t *testing.T) {
		assert.Greater(t, valuation.ComputeValue(4, 10), valuation.ComputeValue(3, 10))
	})

	t.Run("DecreasingInPrice", func(t *testing.T) {
		assert.Less(t, valuation.ComputeValue(4, 20), valuation.ComputeValue(4, 10))
	})

	t.Run("FreeTitleIsFinite", func(t *testing.T) {
		v := valuation.ComputeValue(valuation.NeutralWeight, valuation.EffectivePrice(0, 1))
		assert.Equal(t, valuation.NeutralWeight, v)
		assert.False(t, math.IsInf(v, 0))
	})
}
