package report

import (
	"math"
	"sort"
	"strings"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/style"
)

// Summary is the headline block of a match run.
type Summary struct {
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	MatchRate float64 `json:"match_rate"` // percent, one decimal
}

// ProblemCard is one entry in a review bucket.
type ProblemCard struct {
	SourceID   string `json:"source_id"`
	Sku        string `json:"sku,omitempty"`
	Name       string `json:"name,omitempty"`
	Method     string `json:"method,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	MatchCount int    `json:"match_count,omitempty"`
}

// Problems buckets matches that deserve manual review.
type Problems struct {
	LowConfidence []ProblemCard `json:"low_confidence,omitempty"`
	ManyMatches   []ProblemCard `json:"many_matches,omitempty"`
	NoSku         []ProblemCard `json:"no_sku,omitempty"`
	NoURL         []ProblemCard `json:"no_url,omitempty"`
}

// StyleCoverage summarizes how much of the matched set carries styles.
type StyleCoverage struct {
	TotalStyles       int     `json:"total_styles"`
	StylesWithMatches int     `json:"styles_with_matches"`
	WithStyles        int     `json:"products_with_styles"`
	WithoutStyles     int     `json:"products_without_styles"`
	CoveragePercent   float64 `json:"style_coverage"`
}

// Analysis is the full statistics block the enrichment side consumes.
type Analysis struct {
	Summary       Summary             `json:"summary"`
	Confidence    map[string]int      `json:"confidence"`
	Methods       map[string]int      `json:"methods"`
	DuplicateSkus map[string][]string `json:"duplicate_skus,omitempty"`
	Problems      Problems            `json:"problems"`
	Styles        *StyleCoverage      `json:"styles,omitempty"`
}

const manyMatchThreshold = 4

// Analyze aggregates match results into the summary, the confidence and
// method histograms and the review buckets. cards supplies the original
// record fields for the buckets; styles may be nil when no style mapping ran.
func Analyze(results []model.MatchResult, cards []model.CardRecord, styles *style.Mapping) Analysis {
	bySource := make(map[string]model.CardRecord, len(cards))
	for _, c := range cards {
		bySource[c.SourceID] = c
	}

	a := Analysis{
		Confidence: make(map[string]int),
		Methods:    make(map[string]int),
	}
	a.Summary.Total = len(results)

	for _, res := range results {
		if !res.Matched() {
			continue
		}
		a.Summary.Matched++
		a.Confidence[res.Confidence]++
		a.Methods[res.Method]++

		card := bySource[res.CardSourceID]
		entry := ProblemCard{
			SourceID:   res.CardSourceID,
			Sku:        card.Sku,
			Name:       card.Name,
			Method:     res.Method,
			Confidence: res.Confidence,
			MatchCount: res.MatchCount,
		}
		if res.Confidence == model.ConfidenceLow {
			a.Problems.LowConfidence = append(a.Problems.LowConfidence, entry)
		}
		if res.MatchCount >= manyMatchThreshold {
			a.Problems.ManyMatches = append(a.Problems.ManyMatches, entry)
		}
		if strings.TrimSpace(card.Sku) == "" {
			a.Problems.NoSku = append(a.Problems.NoSku, entry)
		}
		if strings.TrimSpace(card.URL) == "" {
			a.Problems.NoURL = append(a.Problems.NoURL, entry)
		}
	}
	a.Summary.Unmatched = a.Summary.Total - a.Summary.Matched
	if a.Summary.Total > 0 {
		a.Summary.MatchRate = round1(float64(a.Summary.Matched) / float64(a.Summary.Total) * 100)
	}

	for _, bucket := range []*[]ProblemCard{
		&a.Problems.LowConfidence, &a.Problems.ManyMatches, &a.Problems.NoSku, &a.Problems.NoURL,
	} {
		sort.Slice(*bucket, func(i, j int) bool { return (*bucket)[i].SourceID < (*bucket)[j].SourceID })
	}

	if styles != nil {
		a.Styles = styleCoverage(results, styles)
	}
	return a
}

func styleCoverage(results []model.MatchResult, m *style.Mapping) *StyleCoverage {
	cov := &StyleCoverage{TotalStyles: len(m.Styles)}
	for _, st := range m.Styles {
		if len(st.Products) > 0 {
			cov.StylesWithMatches++
		}
	}
	matched := 0
	for _, res := range results {
		if !res.Matched() {
			continue
		}
		matched++
		if len(m.ProductStyles[*res.ProductID]) > 0 {
			cov.WithStyles++
		}
	}
	cov.WithoutStyles = matched - cov.WithStyles
	if matched > 0 {
		cov.CoveragePercent = round1(float64(cov.WithStyles) / float64(matched) * 100)
	}
	return cov
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
