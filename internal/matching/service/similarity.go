package service

import (
	"regexp"
	"strings"
)

var reWord = regexp.MustCompile(`[a-z0-9]+`)

// words that carry no signal for product-name comparison
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "with": {}, "of": {}, "for": {}, "to": {}, "from": {}, "by": {},
}

// Tokenize lower-cases a product name, splits it on non-alphanumeric
// boundaries and drops stop words.
func Tokenize(name string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range reWord.FindAllString(strings.ToLower(name), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// Jaccard is |a ∩ b| / |a ∪ b| over token sets; 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
