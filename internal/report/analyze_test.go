package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/style"
)

func strptr(s string) *string { return &s }

func matched(source, productID, method, confidence string, count int) model.MatchResult {
	return model.MatchResult{
		CardSourceID: source,
		ProductID:    strptr(productID),
		Method:       method,
		Confidence:   confidence,
		MatchCount:   count,
	}
}

func unmatched(source string) model.MatchResult {
	return model.MatchResult{
		CardSourceID: source,
		Method:       model.MethodNone,
		Confidence:   model.ConfidenceNone,
		Reason:       model.ReasonNoMatch,
	}
}

func TestAnalyze(t *testing.T) {
	cards := []model.CardRecord{
		{SourceID: "c1", Sku: "1234-56", URL: "https://x.com/1"},
		{SourceID: "c2", Sku: "2676-A"},
		{SourceID: "c3", URL: "https://x.com/3"},
		{SourceID: "c4", Sku: "9000-X"},
		{SourceID: "c5", Name: "Orphan Lamp"},
	}
	results := []model.MatchResult{
		matched("c1", "P1", model.MethodExactSku, model.ConfidenceHigh, 1),
		matched("c2", "P2", model.MethodFuzzySku, model.ConfidenceMedium, 2),
		matched("c3", "P3", model.MethodURL, model.ConfidenceHigh, 1),
		matched("c4", "P4", model.MethodFuzzySku, model.ConfidenceLow, 5),
		unmatched("c5"),
	}

	a := Analyze(results, cards, nil)

	t.Run("summary", func(t *testing.T) {
		assert.Equal(t, 5, a.Summary.Total)
		assert.Equal(t, 4, a.Summary.Matched)
		assert.Equal(t, 1, a.Summary.Unmatched)
		assert.Equal(t, 80.0, a.Summary.MatchRate)
	})

	t.Run("histograms count matched only", func(t *testing.T) {
		assert.Equal(t, map[string]int{
			model.ConfidenceHigh:   2,
			model.ConfidenceMedium: 1,
			model.ConfidenceLow:    1,
		}, a.Confidence)
		assert.Equal(t, map[string]int{
			model.MethodExactSku: 1,
			model.MethodFuzzySku: 2,
			model.MethodURL:      1,
		}, a.Methods)
	})

	t.Run("review buckets", func(t *testing.T) {
		require.Len(t, a.Problems.LowConfidence, 1)
		assert.Equal(t, "c4", a.Problems.LowConfidence[0].SourceID)

		require.Len(t, a.Problems.ManyMatches, 1)
		assert.Equal(t, 5, a.Problems.ManyMatches[0].MatchCount)

		require.Len(t, a.Problems.NoSku, 1)
		assert.Equal(t, "c3", a.Problems.NoSku[0].SourceID)

		require.Len(t, a.Problems.NoURL, 2)
		assert.Equal(t, "c2", a.Problems.NoURL[0].SourceID)
		assert.Equal(t, "c4", a.Problems.NoURL[1].SourceID)
	})

	t.Run("no style block without a mapping", func(t *testing.T) {
		assert.Nil(t, a.Styles)
	})

	t.Run("rate rounds to one decimal", func(t *testing.T) {
		small := Analyze([]model.MatchResult{
			matched("c1", "P1", model.MethodURL, model.ConfidenceHigh, 1),
			matched("c2", "P2", model.MethodURL, model.ConfidenceHigh, 1),
			unmatched("c3"),
		}, nil, nil)
		assert.Equal(t, 66.7, small.Summary.MatchRate)
	})

	t.Run("empty input", func(t *testing.T) {
		empty := Analyze(nil, nil, nil)
		assert.Equal(t, 0, empty.Summary.Total)
		assert.Equal(t, 0.0, empty.Summary.MatchRate)
	})
}

func TestAnalyzeStyleCoverage(t *testing.T) {
	m := &style.Mapping{
		Styles: []style.StyleAssignment{
			{StyleName: "Modern", Products: []style.ProductRef{{ProductID: "P1", Sku: "1234-56"}}},
			{StyleName: "Rustic"},
		},
		ProductStyles: map[string][]style.StyleRef{
			"P1": {{StyleName: "Modern"}},
		},
	}
	results := []model.MatchResult{
		matched("c1", "P1", model.MethodExactSku, model.ConfidenceHigh, 1),
		matched("c2", "P2", model.MethodExactSku, model.ConfidenceHigh, 1),
		unmatched("c3"),
	}

	a := Analyze(results, nil, m)
	require.NotNil(t, a.Styles)
	assert.Equal(t, 2, a.Styles.TotalStyles)
	assert.Equal(t, 1, a.Styles.StylesWithMatches)
	assert.Equal(t, 1, a.Styles.WithStyles)
	assert.Equal(t, 1, a.Styles.WithoutStyles)
	assert.Equal(t, 50.0, a.Styles.CoveragePercent)
}
