package models

import "math"

// FinalScore aggregates per-question grades into a 0-100 score.
// Point-based grading wins when any question carries it; otherwise the legacy
// 0-10 scores of graded questions are averaged.
func FinalScore(questions []Question) int {
	pointsBased := false
	for i := range questions {
		if questions[i].Points != nil || questions[i].MaxPoints > 0 {
			pointsBased = true
			break
		}
	}

	var ratio float64
	if pointsBased {
		total, max := 0, 0
		for i := range questions {
			if questions[i].Points != nil {
				total += *questions[i].Points
			}
			max += questions[i].MaxPoints
		}
		if max == 0 {
			max = 1
		}
		ratio = float64(total) / float64(max)
	} else {
		total, scored := 0, 0
		for i := range questions {
			if questions[i].Score != nil {
				total += *questions[i].Score
				scored++
			}
		}
		denom := scored * 10
		if denom == 0 {
			denom = 1
		}
		ratio = float64(total) / float64(denom)
	}

	score := int(math.Round(100 * ratio))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
