package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

// Engine runs the four-stage waterfall per card against a pre-built index.
// Stages run strictly in order; the first stage producing a candidate decides
// the result. The engine holds no mutable state, so matching is a pure
// function of (card, index, options).
type Engine struct {
	idx    *Index
	opt    model.Options
	log    zerolog.Logger
	stages []stage
}

type stage func(card model.CardRecord) *model.MatchResult

func NewEngine(idx *Index, opt model.Options, log zerolog.Logger) *Engine {
	e := &Engine{idx: idx, opt: opt, log: log}
	e.stages = []stage{e.matchURL, e.matchExactSku, e.matchFuzzySku, e.matchName}
	return e
}

// Match resolves one card. Missing fields and zero hits fall through the
// waterfall; only a card with nothing to match on gets a distinct reason code.
func (e *Engine) Match(card model.CardRecord) model.MatchResult {
	if !card.Matchable() {
		return unmatched(card, model.ReasonNoMatchableFields)
	}
	for _, try := range e.stages {
		if res := try(card); res != nil {
			return *res
		}
	}
	return unmatched(card, model.ReasonNoMatch)
}

// MatchAll matches every card, honoring ctx: cards not reached before
// cancellation are reported as not_attempted, distinct from unmatched.
// Results are sorted by card source id so output order never depends on
// traversal order.
func (e *Engine) MatchAll(ctx context.Context, cards []model.CardRecord) []model.MatchResult {
	for sku, ids := range e.idx.DuplicateSkus() {
		e.log.Warn().Str("sku", sku).Strs("product_ids", ids).Msg("duplicate normalized sku in catalog")
	}

	results := make([]model.MatchResult, 0, len(cards))
	matched := 0
	for i, card := range cards {
		select {
		case <-ctx.Done():
			for _, rest := range cards[i:] {
				results = append(results, unmatched(rest, model.ReasonNotAttempted))
			}
			e.log.Warn().Int("not_attempted", len(cards)-i).Msg("matching cancelled")
			sortResults(results)
			return results
		default:
		}

		res := e.Match(card)
		if res.Matched() {
			matched++
		}
		if res.Method == model.MethodFuzzySku && res.MatchCount >= 4 {
			e.log.Warn().Str("source_id", card.SourceID).Str("sku", card.Sku).
				Int("match_count", res.MatchCount).Msg("highly ambiguous fuzzy sku")
		}
		results = append(results, res)
	}

	sortResults(results)
	e.log.Info().Int("cards", len(cards)).Int("matched", matched).
		Int("catalog", e.idx.Len()).Msg("matching done")
	return results
}

// (1) URL identity. Trusted only when the key resolves to exactly one
// product; an ambiguous URL falls through to the SKU stages.
func (e *Engine) matchURL(card model.CardRecord) *model.MatchResult {
	ids := e.idx.ByURL(NormalizeURL(card.URL))
	if len(ids) != 1 {
		return nil
	}
	return accepted(card, ids[0], model.MethodURL, e.opt, 1, 0)
}

// (2) Exact normalized SKU. Duplicate SKUs across catalog products are an
// input anomaly: pick the lexically smallest product id, keep the count.
func (e *Engine) matchExactSku(card model.CardRecord) *model.MatchResult {
	ids := e.idx.BySku(NormalizeSku(card.Sku, e.opt.SkuPrefixStrip))
	if len(ids) == 0 {
		return nil
	}
	return accepted(card, ids[0], model.MethodExactSku, e.opt, len(ids), 0)
}

// (3) Fuzzy SKU via variant expansion. Candidates are collected across all
// generated variants and deduplicated by product id; match_count reflects the
// true ambiguity even though the result names a single product.
func (e *Engine) matchFuzzySku(card model.CardRecord) *model.MatchResult {
	if !e.opt.FuzzySkuEnabled || strings.TrimSpace(card.Sku) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, v := range Variants(card.Sku) {
		for _, id := range e.idx.ByVariant(v) {
			seen[id] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return accepted(card, ids[0], model.MethodFuzzySku, e.opt, len(ids), 0)
}

// (4) Name-token overlap. Terminal stage: below the threshold the card is
// unmatched, which is a state, not an error.
func (e *Engine) matchName(card model.CardRecord) *model.MatchResult {
	tokens := Tokenize(card.Name)
	if len(tokens) == 0 {
		return nil
	}

	bestID := ""
	best := -1.0
	plausible := 0
	for _, id := range e.idx.Candidates(tokens) {
		s := Jaccard(tokens, e.idx.NameTokens(id))
		if s >= e.opt.NameSimilarityThreshold {
			plausible++
		}
		// ties resolve to the lexically smallest id; Candidates is sorted
		if s > best {
			best = s
			bestID = id
		}
	}
	if bestID == "" || best < e.opt.NameSimilarityThreshold {
		return nil
	}
	res := accepted(card, bestID, model.MethodName, e.opt, plausible, best)
	res.Similarity = &best
	return res
}

func accepted(card model.CardRecord, productID, method string, opt model.Options, count int, sim float64) *model.MatchResult {
	return &model.MatchResult{
		CardSourceID: card.SourceID,
		ProductID:    &productID,
		Method:       method,
		Confidence:   Confidence(opt, method, count, sim),
		MatchCount:   count,
	}
}

func unmatched(card model.CardRecord, reason string) model.MatchResult {
	return model.MatchResult{
		CardSourceID: card.SourceID,
		Method:       model.MethodNone,
		Confidence:   model.ConfidenceNone,
		Reason:       reason,
	}
}

func sortResults(results []model.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].CardSourceID < results[j].CardSourceID
	})
}
