package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

// Pattern is one compiled SKU-extraction pattern. The first capture group (or
// the whole match when there is none) is taken as the SKU.
type Pattern struct {
	Label string
	Re    *regexp.Regexp
}

// DefaultPatterns covers the SKU shapes seen in room-photo filenames:
// dash-delimited numeric (1342-3), letter-prefixed (C300-L4161SF),
// underscore-terminated and bare zero-led four-digit codes.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Label: "standard", Re: regexp.MustCompile(`(?i)\b(\d{3,4}-[A-Z0-9]+)\b`)},
		{Label: "custom", Re: regexp.MustCompile(`(?i)\b([A-Z]\d{3}-[A-Z0-9]+)\b`)},
		{Label: "underscore", Re: regexp.MustCompile(`(?i)(\d{3,4}-\d+)__`)},
		{Label: "numeric", Re: regexp.MustCompile(`\b(0\d{3})\b`)},
	}
}

// CompilePatterns builds a pattern list from configuration, preserving order.
func CompilePatterns(cfgs []model.PatternConfig) ([]Pattern, error) {
	out := make([]Pattern, 0, len(cfgs))
	for _, c := range cfgs {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("sku pattern %q: %w", c.Label, err)
		}
		out = append(out, Pattern{Label: c.Label, Re: re})
	}
	return out, nil
}

// Extractor parses SKUs out of style-image filenames.
type Extractor struct {
	patterns []Pattern
}

// NewExtractor uses the given patterns, or the defaults when none are given.
func NewExtractor(patterns []Pattern) *Extractor {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Extractor{patterns: patterns}
}

var reImageExt = regexp.MustCompile(`(?i)\.(jpe?g|png|webp)$`)

// Extract collects all matches across the patterns in priority order and
// deduplicates while preserving first-seen order. Zero matches is a valid
// outcome, not an error.
func (e *Extractor) Extract(filename string) []string {
	name := strings.TrimPrefix(filename, "ORIGINAL_")
	name = reImageExt.ReplaceAllString(name, "")

	var out []string
	seen := make(map[string]struct{})
	for _, p := range e.patterns {
		for _, m := range p.Re.FindAllStringSubmatch(name, -1) {
			sku := m[0]
			if len(m) > 1 {
				sku = m[1]
			}
			sku = strings.ToUpper(strings.TrimSpace(sku))
			if sku == "" {
				continue
			}
			if _, ok := seen[sku]; ok {
				continue
			}
			seen[sku] = struct{}{}
			out = append(out, sku)
		}
	}
	return out
}
