package gating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasePricingFor(t *testing.T) {
	tests := []struct {
		name          string
		length        int
		expectedPrice int64
		expectedTier  string
	}{
		{name: "three characters", length: 3, expectedPrice: 16035, expectedTier: "3-digit"},
		{name: "four characters", length: 4, expectedPrice: 6414, expectedTier: "4-digit"},
		{name: "five characters", length: 5, expectedPrice: 2673, expectedTier: "5-plus"},
		{name: "long username", length: 12, expectedPrice: 2673, expectedTier: "5-plus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasePricingFor(tt.length)
			assert.Equal(t, tt.expectedPrice, got.Price)
			assert.Equal(t, tt.expectedTier, got.Tier)
			assert.Equal(t, "LOS", got.Currency)
		})
	}
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		discount int
		expected int64
	}{
		{name: "no discount", base: 16035, discount: 0, expected: 16035},
		{name: "half price floors", base: 16035, discount: 50, expected: 8017},
		{name: "full discount", base: 16035, discount: 100, expected: 0},
		{name: "discount above 100 short-circuits", base: 6414, discount: 150, expected: 0},
		{name: "negative discount returns base", base: 6414, discount: -10, expected: 6414},
		{name: "zero base", base: 0, discount: 50, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FinalPrice(tt.base, tt.discount))
		})
	}
}

func TestFinalPriceNeverExceedsBase(t *testing.T) {
	bases := []int64{0, 1, 2673, 6414, 16035}
	for _, base := range bases {
		for discount := 0; discount <= 100; discount++ {
			got := FinalPrice(base, discount)
			assert.LessOrEqual(t, got, base, "base=%d discount=%d", base, discount)
			assert.GreaterOrEqual(t, got, int64(0), "base=%d discount=%d", base, discount)
		}
	}
}
