package valuation

// EffectivePrice clamps price to minimum. Any price at or below zero maps to
// exactly minimum.
func EffectivePrice(price, minimum float64) float64 {
	if price < minimum {
		return minimum
	}
	return price
}

// ComputeValue combines a weighted rating and an effective price.
// effectivePrice must be positive; use EffectivePrice to clamp it.
func ComputeValue(weightedRating, effectivePrice float64) float64 {
	return weightedRating / effectivePrice
}
