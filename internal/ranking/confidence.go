package ranking

import "math"

// Confidence is a probability in [0, 1] rounded to two decimal places.
type Confidence float64

// NewConfidence clips p into [0, 1] and rounds it half away from zero to two
// decimals, so an exact 0.125 becomes 0.13 rather than the round-half-even
// 0.12. NaN becomes 0.
func NewConfidence(p float64) Confidence {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	return Confidence(math.Round(p*100) / 100)
}

func (c Confidence) Float64() float64 {
	return float64(c)
}
