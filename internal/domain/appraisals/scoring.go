package appraisals

import (
	"math"
	"slices"
)

func statusRank(status string) int {
	return slices.Index(statusOrder, status)
}

// OverallScore is the weighted mean of each criterion's best available score
// (final, then manager, then self), rounded to two decimals. Criteria without
// a score are left out; zero weights count as one.
func OverallScore(criteria []Criterion, responses []Response) float64 {
	byID := make(map[string]Response, len(responses))
	for _, r := range responses {
		byID[r.CriteriaID] = r
	}
	var total, weights float64
	for _, c := range criteria {
		r, ok := byID[c.ID]
		if !ok {
			continue
		}
		score := r.FinalScore
		if score == nil {
			score = r.ManagerScore
		}
		if score == nil {
			score = r.SelfScore
		}
		if score == nil {
			continue
		}
		weight := c.Weight
		if weight <= 0 {
			weight = 1
		}
		total += *score * weight
		weights += weight
	}
	if weights == 0 {
		return 0
	}
	return math.Round(total/weights*100) / 100
}
