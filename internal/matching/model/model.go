package model

import (
	"regexp"
	"strings"
)

// Match methods, in waterfall priority order.
const (
	MethodURL      = "url"
	MethodExactSku = "exact_sku"
	MethodFuzzySku = "fuzzy_sku"
	MethodName     = "name"
	MethodNone     = "none"
)

// Confidence tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// Reason codes for unmatched results.
const (
	ReasonNoMatch           = "no_match"
	ReasonNoMatchableFields = "no_matchable_fields"
	ReasonNotAttempted      = "not_attempted"
)

// CardRecord is one retailer-scraped product card. Immutable once read.
type CardRecord struct {
	SourceID string `json:"source_id"`
	Sku      string `json:"sku,omitempty"`
	URL      string `json:"url,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Matchable reports whether the record carries anything the waterfall can use.
func (c CardRecord) Matchable() bool {
	return strings.TrimSpace(c.Sku) != "" ||
		strings.TrimSpace(c.URL) != "" ||
		strings.TrimSpace(c.Name) != ""
}

const privatePrefix = "private-"

var reVariantSuffix = regexp.MustCompile(`_\d{2}$`)

// CatalogProduct is one canonical catalog record.
type CatalogProduct struct {
	ProductID string `json:"product_id"`
	Sku       string `json:"sku"`
	URL       string `json:"url,omitempty"`
	Name      string `json:"name,omitempty"`
}

// IsPrivate is derived from the product id marker prefix.
func (p CatalogProduct) IsPrivate() bool {
	return strings.HasPrefix(p.ProductID, privatePrefix)
}

// BaseID strips the trailing _NN variant suffix (e.g. "ab12…_28" → "ab12…").
func (p CatalogProduct) BaseID() string {
	return reVariantSuffix.ReplaceAllString(p.ProductID, "")
}

// MatchResult is produced exactly once per card and never mutated.
// ProductID is nil for unmatched cards; Similarity is set for the name method only.
type MatchResult struct {
	CardSourceID string   `json:"source_id"`
	ProductID    *string  `json:"product_id"`
	Method       string   `json:"method"`
	Confidence   string   `json:"confidence"`
	MatchCount   int      `json:"match_count"`
	Similarity   *float64 `json:"similarity,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// Matched reports whether the waterfall accepted a product.
func (r MatchResult) Matched() bool { return r.ProductID != nil }

// PatternConfig is one labeled SKU-extraction pattern for style filenames.
type PatternConfig struct {
	Label   string `json:"label" mapstructure:"label"`
	Pattern string `json:"pattern" mapstructure:"pattern"`
}

// Options is the engine's configuration surface.
type Options struct {
	NameSimilarityThreshold float64         // floor for the name stage (0..1)
	FuzzySkuEnabled         bool            // stage 3 on/off
	MaxFuzzyMatchesHigh     int             // fuzzy match_count ceiling for "high"
	MaxFuzzyMatchesMedium   int             // fuzzy match_count ceiling for "medium"
	SkuPrefixStrip          []string        // literal retailer prefixes removed by NormalizeSku
	SkuPatterns             []PatternConfig // style-extractor patterns, priority order
}

// DefaultOptions mirrors the documented defaults.
func DefaultOptions() Options {
	return Options{
		NameSimilarityThreshold: 0.6,
		FuzzySkuEnabled:         true,
		MaxFuzzyMatchesHigh:     1,
		MaxFuzzyMatchesMedium:   3,
	}
}
