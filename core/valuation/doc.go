// Package valuation holds the pure numeric pieces of a sync run.
//
// Nothing in this package touches the network or the database; the
// reconcile engine feeds it decoded catalog data and persists the results.
//
// # Rating Normalization
//
// Mean and StdDev compute population statistics over every rating currently
// known for a library. Weight maps a raw star rating onto a comparable score
// relative to those statistics:
//
//	weight = RatingScale * Φ((raw - mean) / stdDev)
//
// where Φ is the standard normal CDF. The result is always positive and
// never decreases as the raw rating grows. In float64, Φ rounds to exactly 1
// once z exceeds about 8.3, so outliers of a low-spread library tie at
// RatingScale. A library with no spread (stdDev == 0) yields NeutralWeight
// for every title.
//
// # Discounts
//
// ExtractDiscounts reads the storefront price block. Only the first rewards
// entry is considered; the storefront exposes a single active promotion there.
//
// # Value
//
// ComputeValue divides a weighted rating by an effective price. Callers clamp
// the price with EffectivePrice first so free titles never divide by zero.
//
// # Usage
//
//	mean, sd := valuation.Mean(ratings), valuation.StdDev(ratings)
//	w := valuation.Weight(4.5, mean, sd)
//	score := valuation.ComputeValue(w, valuation.EffectivePrice(1999, 1))
package valuation
