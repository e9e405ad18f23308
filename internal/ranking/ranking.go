package ranking

import "slices"

type PredictionScore struct {
	Label      string     `json:"label"`
	Confidence Confidence `json:"confidence"`
}

// Rank pairs probabilities with categories index for index and sorts the
// result by descending rounded confidence. Equal confidences keep category
// order. Missing probabilities count as 0, extra ones are ignored.
func Rank(probabilities []float32, categories []string) []PredictionScore {
	scores := make([]PredictionScore, len(categories))
	for i, category := range categories {
		var p float64
		if i < len(probabilities) {
			p = float64(probabilities[i])
		}
		scores[i] = PredictionScore{Label: category, Confidence: NewConfidence(p)}
	}
	slices.SortStableFunc(scores, func(a, b PredictionScore) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return scores
}

// Top returns the first ranked score, or false for an empty ranking.
func Top(scores []PredictionScore) (PredictionScore, bool) {
	if len(scores) == 0 {
		return PredictionScore{}, false
	}
	return scores[0], true
}
