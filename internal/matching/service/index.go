package service

import (
	"sort"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

// Index holds the read-only catalog lookups built once per run.
type Index struct {
	products  map[string]model.CatalogProduct
	byURL     map[string][]string            // normalized url -> product ids
	bySku     map[string][]string            // normalized sku -> product ids
	byVariant map[string][]string            // sku variant -> product ids
	tokens    map[string]map[string]struct{} // product id -> name tokens
	inv       map[string][]string            // name token -> product ids

	dupSkus map[string][]string // normalized skus shared by >1 product
}

// BuildIndex indexes catalog products by URL key, normalized SKU, every
// generated SKU variant and name token. The normalized SKU is always
// registered as a variant verbatim, so exact forms never depend on fuzzy
// expansion.
func BuildIndex(products []model.CatalogProduct, opt model.Options) *Index {
	idx := &Index{
		products:  make(map[string]model.CatalogProduct, len(products)),
		byURL:     make(map[string][]string),
		bySku:     make(map[string][]string),
		byVariant: make(map[string][]string),
		tokens:    make(map[string]map[string]struct{}),
		inv:       make(map[string][]string),
		dupSkus:   make(map[string][]string),
	}

	for _, p := range products {
		if p.ProductID == "" {
			continue
		}
		idx.products[p.ProductID] = p

		if k := NormalizeURL(p.URL); k != "" {
			idx.byURL[k] = append(idx.byURL[k], p.ProductID)
		}

		if sku := NormalizeSku(p.Sku, opt.SkuPrefixStrip); sku != "" {
			idx.bySku[sku] = append(idx.bySku[sku], p.ProductID)
			idx.addVariant(sku, p.ProductID)
		}
		for _, v := range Variants(p.Sku) {
			idx.addVariant(v, p.ProductID)
		}

		if tok := Tokenize(p.Name); len(tok) > 0 {
			idx.tokens[p.ProductID] = tok
			for w := range tok {
				idx.inv[w] = append(idx.inv[w], p.ProductID)
			}
		}
	}

	for _, ids := range idx.byURL {
		sort.Strings(ids)
	}
	for sku, ids := range idx.bySku {
		sort.Strings(ids)
		if len(ids) > 1 {
			idx.dupSkus[sku] = ids
		}
	}
	for _, ids := range idx.byVariant {
		sort.Strings(ids)
	}
	return idx
}

func (idx *Index) addVariant(v, productID string) {
	for _, id := range idx.byVariant[v] {
		if id == productID {
			return
		}
	}
	idx.byVariant[v] = append(idx.byVariant[v], productID)
}

// Product returns the indexed catalog product by id.
func (idx *Index) Product(id string) (model.CatalogProduct, bool) {
	p, ok := idx.products[id]
	return p, ok
}

// Len reports how many catalog products were indexed.
func (idx *Index) Len() int { return len(idx.products) }

// ByURL returns product ids under a normalized URL key.
func (idx *Index) ByURL(key string) []string {
	if key == "" {
		return nil
	}
	return idx.byURL[key]
}

// BySku returns product ids under a normalized SKU.
func (idx *Index) BySku(key string) []string {
	if key == "" {
		return nil
	}
	return idx.bySku[key]
}

// ByVariant returns product ids under one SKU variant.
func (idx *Index) ByVariant(v string) []string {
	if v == "" {
		return nil
	}
	return idx.byVariant[v]
}

// Candidates returns, sorted, every product id sharing at least one name
// token with the given set.
func (idx *Index) Candidates(tokens map[string]struct{}) []string {
	seen := make(map[string]struct{})
	for w := range tokens {
		for _, id := range idx.inv[w] {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NameTokens returns the pre-computed token set for a product.
func (idx *Index) NameTokens(id string) map[string]struct{} { return idx.tokens[id] }

// DuplicateSkus lists normalized SKUs shared by more than one catalog
// product, an input-data anomaly worth surfacing.
func (idx *Index) DuplicateSkus() map[string][]string { return idx.dupSkus }
