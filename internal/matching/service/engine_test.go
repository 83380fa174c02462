package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

func newEngine(t *testing.T, products []model.CatalogProduct) *Engine {
	t.Helper()
	opt := model.DefaultOptions()
	return NewEngine(BuildIndex(products, opt), opt, zerolog.Nop())
}

func TestMatchWaterfall(t *testing.T) {
	t.Run("url beats exact sku", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Sku: "9999", URL: "https://shop.example.com/p/emma"},
			{ProductID: "P2", Sku: "1234-56"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "1234-56", URL: "http://www.shop.example.com/p/emma/"})
		require.True(t, res.Matched())
		assert.Equal(t, model.MethodURL, res.Method)
		assert.Equal(t, model.ConfidenceHigh, res.Confidence)
		assert.Equal(t, "P1", *res.ProductID)
	})

	t.Run("ambiguous url falls through to sku", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Sku: "1234-56", URL: "https://shop.example.com/p/emma"},
			{ProductID: "P2", Sku: "7777", URL: "https://shop.example.com/p/emma"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "1234-56", URL: "https://shop.example.com/p/emma"})
		require.True(t, res.Matched())
		assert.Equal(t, model.MethodExactSku, res.Method)
		assert.Equal(t, "P1", *res.ProductID)
	})

	t.Run("exact sku with retailer prefix", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Sku: "1234-56", Name: "Emma Sofa"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "BAS-1234-56", Name: "Emma Sofa"})
		require.True(t, res.Matched())
		assert.Equal(t, model.MethodExactSku, res.Method)
		assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	})

	t.Run("duplicate normalized sku picks smallest product id", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P9", Sku: "1234-56"},
			{ProductID: "P2", Sku: "1234_56"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "1234-56"})
		require.True(t, res.Matched())
		assert.Equal(t, "P2", *res.ProductID)
		assert.Equal(t, 2, res.MatchCount)
	})

	t.Run("fuzzy via base variant", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Sku: "2676-LSECT"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "2676-WLSECTL-KIT53"})
		require.True(t, res.Matched())
		assert.Equal(t, model.MethodFuzzySku, res.Method)
		assert.Equal(t, 1, res.MatchCount)
		assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	})

	t.Run("fuzzy ambiguity counted across variants", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Sku: "1342-3-22"},
			{ProductID: "P2", Sku: "1342-3-53"},
			{ProductID: "P3", Sku: "1342-3L-53"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "1342-3"})
		require.True(t, res.Matched())
		assert.Equal(t, model.MethodFuzzySku, res.Method)
		assert.Equal(t, 3, res.MatchCount)
		assert.Equal(t, model.ConfidenceMedium, res.Confidence)
		assert.Equal(t, "P1", *res.ProductID)
	})

	t.Run("fuzzy disabled skips stage three", func(t *testing.T) {
		opt := model.DefaultOptions()
		opt.FuzzySkuEnabled = false
		products := []model.CatalogProduct{{ProductID: "P1", Sku: "2676-LSECT"}}
		e := NewEngine(BuildIndex(products, opt), opt, zerolog.Nop())
		res := e.Match(model.CardRecord{SourceID: "c1", Sku: "2676-WLSECTL-KIT53"})
		assert.False(t, res.Matched())
	})

	t.Run("name below threshold is unmatched", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Name: "Owens Leather Arm Chair"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Name: "Owens Modern Leather Dining Chair with Arms"})
		assert.False(t, res.Matched())
		assert.Equal(t, model.MethodNone, res.Method)
		assert.Equal(t, model.ConfidenceNone, res.Confidence)
		assert.Equal(t, model.ReasonNoMatch, res.Reason)
	})

	t.Run("name above threshold matches with similarity", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P1", Name: "Emma Velvet Sofa"},
			{ProductID: "P2", Name: "Harbor Oak Dining Table"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Name: "Emma Velvet Sofa"})
		require.True(t, res.Matched())
		assert.Equal(t, model.MethodName, res.Method)
		require.NotNil(t, res.Similarity)
		assert.Equal(t, 1.0, *res.Similarity)
		assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	})

	t.Run("name tie resolves to smallest product id", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{
			{ProductID: "P7", Name: "Emma Velvet Sofa"},
			{ProductID: "P2", Name: "Emma Velvet Sofa"},
		})
		res := e.Match(model.CardRecord{SourceID: "c1", Name: "Emma Velvet Sofa"})
		require.True(t, res.Matched())
		assert.Equal(t, "P2", *res.ProductID)
		assert.Equal(t, 2, res.MatchCount)
	})

	t.Run("nothing to match on gets its own reason", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{{ProductID: "P1", Sku: "1"}})
		res := e.Match(model.CardRecord{SourceID: "c1"})
		assert.False(t, res.Matched())
		assert.Equal(t, model.ReasonNoMatchableFields, res.Reason)
	})

	t.Run("absent urls never compare equal", func(t *testing.T) {
		e := newEngine(t, []model.CatalogProduct{{ProductID: "P1", Name: "Harbor Oak Table"}})
		res := e.Match(model.CardRecord{SourceID: "c1", Name: "Emma Sofa"})
		assert.False(t, res.Matched())
	})
}

func TestFuzzyConfidenceTiers(t *testing.T) {
	for count, want := range map[int]string{
		1: model.ConfidenceHigh,
		2: model.ConfidenceMedium,
		3: model.ConfidenceMedium,
		4: model.ConfidenceLow,
		6: model.ConfidenceLow,
	} {
		t.Run(fmt.Sprintf("match_count=%d", count), func(t *testing.T) {
			products := make([]model.CatalogProduct, 0, count)
			for i := 0; i < count; i++ {
				products = append(products, model.CatalogProduct{
					ProductID: fmt.Sprintf("P%d", i),
					Sku:       fmt.Sprintf("9000-A%d", i),
				})
			}
			e := newEngine(t, products)
			res := e.Match(model.CardRecord{SourceID: "c1", Sku: "9000-X"})
			require.True(t, res.Matched())
			assert.Equal(t, count, res.MatchCount)
			assert.Equal(t, want, res.Confidence)
		})
	}
}

func TestMatchAll(t *testing.T) {
	products := []model.CatalogProduct{
		{ProductID: "P1", Sku: "1234-56", Name: "Emma Sofa"},
		{ProductID: "P2", Sku: "2676-LSECT", Name: "Harbor Sectional"},
	}
	cards := []model.CardRecord{
		{SourceID: "c2", Sku: "2676-WLSECTL-KIT53"},
		{SourceID: "c1", Sku: "BAS-1234-56"},
		{SourceID: "c3", Name: "Totally Unrelated Lamp"},
	}

	t.Run("output sorted by source id", func(t *testing.T) {
		e := newEngine(t, products)
		results := e.MatchAll(context.Background(), cards)
		require.Len(t, results, 3)
		assert.Equal(t, "c1", results[0].CardSourceID)
		assert.Equal(t, "c2", results[1].CardSourceID)
		assert.Equal(t, "c3", results[2].CardSourceID)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		e := newEngine(t, products)
		first := e.MatchAll(context.Background(), cards)
		second := e.MatchAll(context.Background(), cards)
		assert.Equal(t, first, second)
	})

	t.Run("cancelled context reports not attempted", func(t *testing.T) {
		e := newEngine(t, products)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results := e.MatchAll(ctx, cards)
		require.Len(t, results, 3)
		for _, res := range results {
			assert.False(t, res.Matched())
			assert.Equal(t, model.ReasonNotAttempted, res.Reason)
		}
	})
}
