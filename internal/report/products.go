package report

import (
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

// ProductInfo is the enrichment metadata for one matched catalog product.
// BaseID groups _NN variant ids under their base model.
type ProductInfo struct {
	Sku       string `json:"sku,omitempty"`
	Name      string `json:"name,omitempty"`
	BaseID    string `json:"base_id"`
	IsPrivate bool   `json:"is_private,omitempty"`
}

// Products collects metadata for every catalog product referenced by a
// matched result, keyed by product id.
func Products(results []model.MatchResult, catalog []model.CatalogProduct) map[string]ProductInfo {
	byID := make(map[string]model.CatalogProduct, len(catalog))
	for _, p := range catalog {
		byID[p.ProductID] = p
	}

	out := make(map[string]ProductInfo)
	for _, res := range results {
		if !res.Matched() {
			continue
		}
		id := *res.ProductID
		if _, done := out[id]; done {
			continue
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		out[id] = ProductInfo{
			Sku:       p.Sku,
			Name:      p.Name,
			BaseID:    p.BaseID(),
			IsPrivate: p.IsPrivate(),
		}
	}
	return out
}
