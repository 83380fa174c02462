package handler

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
	"github.com/Jeroenbekkers/modelbank-card-matching/internal/style"
)

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: lower-case, drop punctuation, collapse spaces.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real column name for a wanted key. Supports
// alternatives via "|" (e.g. "sku|item_number") and falls back to normalized
// and substring comparison for decorated export headers.
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if n != "" && (strings.Contains(nk, n) || strings.Contains(n, nk)) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && k < bestKey) {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// columns carries the wanted key per field, overridable from the form.
type columns struct {
	id, source, sku, url, name, folder, file string
}

func catalogColumns(get func(string) string) columns {
	return columns{
		id:   pick(get("catalog_id"), "product_id|model|id"),
		sku:  pick(get("catalog_sku"), "sku|item"),
		url:  pick(get("catalog_url"), "url|source_url"),
		name: pick(get("catalog_name"), "name|title"),
	}
}

func cardColumns(get func(string) string) columns {
	return columns{
		source: pick(get("cards_source"), "source_id|file_name|filename|id"),
		sku:    pick(get("cards_sku"), "sku|item"),
		url:    pick(get("cards_url"), "url|source_url"),
		name:   pick(get("cards_name"), "name|title"),
	}
}

func styleColumns(get func(string) string) columns {
	return columns{
		folder: pick(get("styles_folder"), "folder_name|folder"),
		file:   pick(get("styles_file"), "file_name|file|filename"),
	}
}

func toCatalogProducts(maps []map[string]string, cols columns) []model.CatalogProduct {
	out := make([]model.CatalogProduct, 0, len(maps))
	for _, rec := range maps {
		p := model.CatalogProduct{
			ProductID: strings.TrimSpace(rec[resolveKey(rec, cols.id)]),
			Sku:       strings.TrimSpace(rec[resolveKey(rec, cols.sku)]),
			URL:       strings.TrimSpace(rec[resolveKey(rec, cols.url)]),
			Name:      strings.TrimSpace(rec[resolveKey(rec, cols.name)]),
		}
		if p.ProductID == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func toCardRecords(maps []map[string]string, cols columns) []model.CardRecord {
	out := make([]model.CardRecord, 0, len(maps))
	for _, rec := range maps {
		c := model.CardRecord{
			SourceID: strings.TrimSpace(rec[resolveKey(rec, cols.source)]),
			Sku:      strings.TrimSpace(rec[resolveKey(rec, cols.sku)]),
			URL:      strings.TrimSpace(rec[resolveKey(rec, cols.url)]),
			Name:     strings.TrimSpace(rec[resolveKey(rec, cols.name)]),
		}
		if c.SourceID == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func toImageRecords(maps []map[string]string, cols columns) []style.ImageRecord {
	out := make([]style.ImageRecord, 0, len(maps))
	for _, rec := range maps {
		img := style.ImageRecord{
			FolderName: strings.TrimSpace(rec[resolveKey(rec, cols.folder)]),
			FileName:   strings.TrimSpace(rec[resolveKey(rec, cols.file)]),
		}
		if img.FolderName == "" || img.FileName == "" {
			continue
		}
		out = append(out, img)
	}
	return out
}

func pick(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func toFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
