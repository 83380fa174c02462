package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

func TestProducts(t *testing.T) {
	catalog := []model.CatalogProduct{
		{ProductID: "a1b2c3_28", Sku: "1234-56", Name: "Emma Sofa"},
		{ProductID: "private-d4e5f6", Sku: "2676-A", Name: "Harbor Chair"},
		{ProductID: "g7h8i9", Sku: "9000-X"},
	}
	results := []model.MatchResult{
		matched("c1", "a1b2c3_28", model.MethodExactSku, model.ConfidenceHigh, 1),
		matched("c2", "private-d4e5f6", model.MethodExactSku, model.ConfidenceHigh, 1),
		matched("c3", "a1b2c3_28", model.MethodURL, model.ConfidenceHigh, 1),
		unmatched("c4"),
	}

	got := Products(results, catalog)
	require.Len(t, got, 2)

	t.Run("variant suffix stripped into base id", func(t *testing.T) {
		assert.Equal(t, "a1b2c3", got["a1b2c3_28"].BaseID)
		assert.False(t, got["a1b2c3_28"].IsPrivate)
		assert.Equal(t, "1234-56", got["a1b2c3_28"].Sku)
	})

	t.Run("private marker carried through", func(t *testing.T) {
		assert.True(t, got["private-d4e5f6"].IsPrivate)
		assert.Equal(t, "private-d4e5f6", got["private-d4e5f6"].BaseID)
	})

	t.Run("unreferenced products excluded", func(t *testing.T) {
		assert.NotContains(t, got, "g7h8i9")
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Products(nil, catalog))
	})
}
