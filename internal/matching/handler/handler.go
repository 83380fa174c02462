package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/config"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/fileio"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
	matchSvc "github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/service"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/report"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/style"
)

type response struct {
	Retailer string                        `json:"retailer,omitempty"`
	Results  []model.MatchResult           `json:"results"`
	Products map[string]report.ProductInfo `json:"products,omitempty"`
	Analysis report.Analysis               `json:"analysis"`
	Quality  report.QualityScore           `json:"quality"`
	Styles   *style.Mapping                `json:"styles,omitempty"`
}

// Match returns the handler for the matching endpoint: multipart upload of a
// catalog export, a card export and an optional style-image listing; options
// come from the retailer profile with per-request form overrides.
func Match(cfg config.Config, profiles map[string]config.RetailerProfile, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		log := logger
		if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
			log = logger.With().Str("req_id", reqID).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		catalogFile, catalogHdr, err := r.FormFile("catalog")
		if err != nil {
			http.Error(w, "missing catalog: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer catalogFile.Close()

		cardsFile, cardsHdr, err := r.FormFile("cards")
		if err != nil {
			http.Error(w, "missing cards: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer cardsFile.Close()

		catalogRows, err := fileio.ReadAnyMaps(catalogFile, catalogHdr.Filename, atoi(r.FormValue("catalog_header_row"), 1))
		if err != nil {
			http.Error(w, "failed to read catalog: "+err.Error(), http.StatusBadRequest)
			return
		}
		cardRows, err := fileio.ReadAnyMaps(cardsFile, cardsHdr.Filename, atoi(r.FormValue("cards_header_row"), 1))
		if err != nil {
			http.Error(w, "failed to read cards: "+err.Error(), http.StatusBadRequest)
			return
		}

		retailer := r.FormValue("retailer")
		profile := profiles[retailer]
		opt := profile.Options()

		// per-request overrides
		opt.NameSimilarityThreshold = toFloat(r.FormValue("name_similarity_threshold"), opt.NameSimilarityThreshold)
		opt.FuzzySkuEnabled = toBool(r.FormValue("fuzzy_sku_enabled"), opt.FuzzySkuEnabled)
		opt.MaxFuzzyMatchesHigh = atoi(r.FormValue("max_fuzzy_matches_high"), opt.MaxFuzzyMatchesHigh)
		opt.MaxFuzzyMatchesMedium = atoi(r.FormValue("max_fuzzy_matches_medium"), opt.MaxFuzzyMatchesMedium)

		catalog := toCatalogProducts(catalogRows, catalogColumns(r.FormValue))
		cards := toCardRecords(cardRows, cardColumns(r.FormValue))

		idx := matchSvc.BuildIndex(catalog, opt)
		engine := matchSvc.NewEngine(idx, opt, log)
		results := engine.MatchAll(r.Context(), cards)

		var mapping *style.Mapping
		if stylesFile, stylesHdr, ferr := r.FormFile("styles"); ferr == nil {
			defer stylesFile.Close()
			styleRows, rerr := fileio.ReadAnyMaps(stylesFile, stylesHdr.Filename, atoi(r.FormValue("styles_header_row"), 1))
			if rerr != nil {
				http.Error(w, "failed to read styles: "+rerr.Error(), http.StatusBadRequest)
				return
			}
			patterns, perr := style.CompilePatterns(opt.SkuPatterns)
			if perr != nil {
				http.Error(w, perr.Error(), http.StatusBadRequest)
				return
			}
			mapper := style.NewMapper(style.NewExtractor(patterns), profile.StyleIDs, log)
			mapper.IndexMatches(cards, results, catalog)
			m := mapper.Map(toImageRecords(styleRows, styleColumns(r.FormValue)))
			mapping = &m
		}

		analysis := report.Analyze(results, cards, mapping)
		analysis.DuplicateSkus = idx.DuplicateSkus()

		resp := response{
			Retailer: retailer,
			Results:  results,
			Products: report.Products(results, catalog),
			Analysis: analysis,
			Quality:  report.Quality(analysis),
			Styles:   mapping,
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("catalog", len(catalog)).
			Int("cards", len(cards)).
			Int("matched", analysis.Summary.Matched).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}
