package service

import (
	"regexp"
	"strings"
)

var (
	reScheme = regexp.MustCompile(`^https?://`)

	// generic retailer prefix: 2-4 letters followed by a dash (BAS-, KIT-, …)
	reRetailerPrefix = regexp.MustCompile(`^[A-Z]{2,4}-`)

	reSeparators = regexp.MustCompile(`[-_\s]+`)
)

// NormalizeURL canonicalizes a URL into a comparable key: scheme, www.,
// query, fragment and the trailing slash are stripped, the rest lower-cased.
// Empty input yields "" which the indexes never register, so two absent URLs
// can never be considered equal.
func NormalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	if u == "" {
		return ""
	}
	u = reScheme.ReplaceAllString(u, "")
	u = strings.TrimPrefix(u, "www.")
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimRight(u, "/")
}

// NormalizeSku canonicalizes a SKU: upper-case, trim, strip a configured
// retailer prefix token (or the generic letters-dash prefix), drop separators.
// Idempotent: once separators are gone the prefix rules can no longer fire.
func NormalizeSku(raw string, prefixStrip []string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	for _, p := range prefixStrip {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if strings.HasPrefix(s, p+"-") {
			s = s[len(p)+1:]
			break
		}
	}
	s = reRetailerPrefix.ReplaceAllString(s, "")
	return reSeparators.ReplaceAllString(s, "")
}
