package service

import "github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"

// Confidence maps (method, match count, similarity) to a tier.
// URL and exact-SKU hits are always high; fuzzy tiers follow the configured
// match-count ceilings; name tiers follow the similarity score.
func Confidence(opt model.Options, method string, matchCount int, similarity float64) string {
	switch method {
	case model.MethodURL, model.MethodExactSku:
		return model.ConfidenceHigh
	case model.MethodFuzzySku:
		switch {
		case matchCount <= opt.MaxFuzzyMatchesHigh:
			return model.ConfidenceHigh
		case matchCount <= opt.MaxFuzzyMatchesMedium:
			return model.ConfidenceMedium
		default:
			return model.ConfidenceLow
		}
	case model.MethodName:
		switch {
		case similarity > 0.8:
			return model.ConfidenceHigh
		case similarity > 0.6:
			return model.ConfidenceMedium
		default:
			return model.ConfidenceLow
		}
	}
	return model.ConfidenceNone
}
