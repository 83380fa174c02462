package report

import "github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"

// QualityScore is the aggregate 0–100 quality of a match run: up to 40 points
// for match rate, 40 for the confidence mix, 20 for style coverage.
type QualityScore struct {
	Overall        float64 `json:"overall_score"`
	MatchRateScore float64 `json:"match_rate_score"`
	Confidence     float64 `json:"confidence_score"`
	StyleScore     float64 `json:"style_score"`
}

// Quality computes the score from an analysis block. With zero matches the
// confidence component is 0 by convention — there is no confidence to score.
func Quality(a Analysis) QualityScore {
	var q QualityScore

	if a.Summary.Total > 0 {
		q.MatchRateScore = float64(a.Summary.Matched) / float64(a.Summary.Total) * 40
	}

	if a.Summary.Matched > 0 {
		high := float64(a.Confidence[model.ConfidenceHigh])
		medium := float64(a.Confidence[model.ConfidenceMedium])
		low := float64(a.Confidence[model.ConfidenceLow])
		q.Confidence = (high*1.0 + medium*0.5 + low*0.2) / float64(a.Summary.Matched) * 40
	}

	if a.Styles != nil {
		q.StyleScore = a.Styles.CoveragePercent * 0.2
		if q.StyleScore > 20 {
			q.StyleScore = 20
		}
	}

	q.MatchRateScore = round1(q.MatchRateScore)
	q.Confidence = round1(q.Confidence)
	q.StyleScore = round1(q.StyleScore)

	q.Overall = q.MatchRateScore + q.Confidence + q.StyleScore
	if q.Overall > 100 {
		q.Overall = 100
	}
	if q.Overall < 0 {
		q.Overall = 0
	}
	q.Overall = round1(q.Overall)
	return q
}
