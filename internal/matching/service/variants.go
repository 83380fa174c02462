package service

import (
	"regexp"
	"strings"
)

var reTrailingAlpha = regexp.MustCompile(`[A-Z]+$`)

const separatorCutset = "-_ \t"

// Variants expands a raw SKU into an ordered, deduplicated list of candidate
// forms, most specific first:
//
//	1. the SKU as-is (upper-cased, trimmed)
//	2. separators removed
//	3. the base segment before the first separator
//	4. the first two segments joined with the original separator
//	5. the first two segments with the separator removed
//	6. the base segment with trailing letters stripped (numeric root)
//
// SKUs without a separator emit only forms 1 and 6. The same expansion is
// used to build the catalog-side index and to query it, so both sides stay
// comparable.
func Variants(raw string) []string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{}, 6)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(s)
	add(reSeparators.ReplaceAllString(s, ""))

	if i := strings.IndexAny(s, separatorCutset); i >= 0 {
		base := s[:i]
		add(base)
		parts := splitSegments(s)
		if len(parts) >= 2 {
			sep := string(s[i])
			add(parts[0] + sep + parts[1])
			add(parts[0] + parts[1])
		}
		add(reTrailingAlpha.ReplaceAllString(base, ""))
	} else {
		add(reTrailingAlpha.ReplaceAllString(s, ""))
	}
	return out
}

func splitSegments(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separatorCutset, r)
	})
	return fields
}
