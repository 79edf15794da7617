package valuation

import "math"

const (
	// RatingScale is the top of the storefront star scale.
	RatingScale = 5.0
	// NeutralWeight is returned by Weight when the library has no spread.
	NeutralWeight = RatingScale / 2
)

// Mean returns the arithmetic mean of ratings, or 0 when there are none.
func Mean(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}

	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

// StdDev returns the population standard deviation of ratings, or 0 when
// there are none.
func StdDev(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}

	mean := Mean(ratings)
	var sq float64
	for _, r := range ratings {
		d := r - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(ratings)))
}

// Weight converts a raw rating into a weighted score relative to the
// library mean and standard deviation.
func Weight(raw, mean, stdDev float64) float64 {
	if stdDev <= 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return NeutralWeight
	}

	z := (raw - mean) / stdDev
	return RatingScale * normalCDF(z)
}

func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}
