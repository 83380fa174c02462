package style

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

// ImageRecord is one (folder, file) pair from the style-image listing.
type ImageRecord struct {
	FolderName string `json:"folder_name"`
	FileName   string `json:"file_name"`
}

// ProductRef identifies a catalog product inside a style assignment.
type ProductRef struct {
	ProductID string `json:"product_id"`
	Sku       string `json:"sku"`
	Name      string `json:"name,omitempty"`
}

// StyleAssignment is one style with every product resolved into it.
type StyleAssignment struct {
	StyleID       int          `json:"style_id,omitempty"`
	StyleName     string       `json:"style_name"`
	ExtractedSkus []string     `json:"extracted_skus"`
	Products      []ProductRef `json:"products"`
}

// StyleRef is the inverse-view reference from a product to a style.
type StyleRef struct {
	StyleID   int    `json:"style_id,omitempty"`
	StyleName string `json:"style_name"`
}

// Mapping is the bidirectional style↔product graph plus the derived
// related-products lists.
type Mapping struct {
	Styles          []StyleAssignment     `json:"styles"`
	ProductStyles   map[string][]StyleRef `json:"product_styles"`
	RelatedProducts map[string][]string   `json:"related_products"`
	UnresolvedSkus  int                   `json:"unresolved_skus"`
}

const maxRelatedProducts = 5

// Mapper resolves extracted SKUs to matched catalog products and builds the
// style graph. All list orderings use explicit sort keys so equal inputs
// always produce identical output.
type Mapper struct {
	ex       *Extractor
	styleIDs map[string]int // style name -> catalog style id
	log      zerolog.Logger

	refs map[string][]ProductRef // sku variant -> matched products
}

func NewMapper(ex *Extractor, styleIDs map[string]int, log zerolog.Logger) *Mapper {
	if ex == nil {
		ex = NewExtractor(nil)
	}
	return &Mapper{
		ex:       ex,
		styleIDs: styleIDs,
		log:      log,
		refs:     make(map[string][]ProductRef),
	}
}

// IndexMatches registers the already-computed match results so extracted SKUs
// can be resolved to catalog product identities. Unmatched cards are skipped;
// they have no catalog identity to offer.
func (m *Mapper) IndexMatches(cards []model.CardRecord, results []model.MatchResult, catalog []model.CatalogProduct) {
	products := make(map[string]model.CatalogProduct, len(catalog))
	for _, p := range catalog {
		products[p.ProductID] = p
	}
	bySource := make(map[string]model.CardRecord, len(cards))
	for _, c := range cards {
		bySource[c.SourceID] = c
	}

	for _, res := range results {
		if !res.Matched() {
			continue
		}
		card, ok := bySource[res.CardSourceID]
		if !ok || strings.TrimSpace(card.Sku) == "" {
			continue
		}
		ref := ProductRef{ProductID: *res.ProductID, Sku: strings.ToUpper(strings.TrimSpace(card.Sku))}
		if p, ok := products[ref.ProductID]; ok {
			ref.Name = p.Name
		}
		if ref.Name == "" {
			ref.Name = card.Name
		}
		for _, v := range lookupVariants(card.Sku) {
			m.addRef(v, ref)
		}
	}
}

func (m *Mapper) addRef(variant string, ref ProductRef) {
	for _, have := range m.refs[variant] {
		if have.ProductID == ref.ProductID {
			return
		}
	}
	m.refs[variant] = append(m.refs[variant], ref)
}

// lookupVariants is the reduced variant set used for style resolution:
// the SKU itself, the separator-free form and the base segment.
func lookupVariants(sku string) []string {
	s := strings.ToUpper(strings.TrimSpace(sku))
	if s == "" {
		return nil
	}
	out := []string{s}
	if nosep := strings.NewReplacer("-", "", "_", "", " ", "").Replace(s); nosep != s {
		out = append(out, nosep)
	}
	if i := strings.IndexAny(s, "-_ "); i > 0 {
		out = append(out, s[:i])
	}
	return out
}

// Map builds the style graph from the image listing. Folders that yield no
// style label are skipped; SKUs that resolve to no matched product are
// dropped and counted, not failed.
func (m *Mapper) Map(images []ImageRecord) Mapping {
	byFolder := make(map[string][]string)
	for _, img := range images {
		byFolder[img.FolderName] = append(byFolder[img.FolderName], img.FileName)
	}
	folders := make([]string, 0, len(byFolder))
	for f := range byFolder {
		folders = append(folders, f)
	}
	sort.Strings(folders)

	styles := make(map[string]*StyleAssignment)
	unresolved := 0

	for _, folder := range folders {
		name := StyleName(folder)
		if name == "" {
			continue
		}

		skus := m.extractFolder(folder, byFolder[folder])
		if len(skus) == 0 {
			m.log.Warn().Str("folder", folder).Msg("style folder yielded no skus")
		}

		st, ok := styles[name]
		if !ok {
			st = &StyleAssignment{StyleName: name, StyleID: m.styleIDs[name]}
			styles[name] = st
		}
		for _, sku := range skus {
			if !containsString(st.ExtractedSkus, sku) {
				st.ExtractedSkus = append(st.ExtractedSkus, sku)
			}
			refs := m.resolve(sku)
			if len(refs) == 0 {
				unresolved++
				continue
			}
			for _, ref := range refs {
				if !containsProduct(st.Products, ref.ProductID) {
					st.Products = append(st.Products, ref)
				}
			}
		}
	}

	out := Mapping{
		ProductStyles:   make(map[string][]StyleRef),
		RelatedProducts: make(map[string][]string),
		UnresolvedSkus:  unresolved,
	}
	for _, st := range styles {
		sort.Slice(st.Products, func(i, j int) bool {
			if st.Products[i].Sku != st.Products[j].Sku {
				return st.Products[i].Sku < st.Products[j].Sku
			}
			return st.Products[i].ProductID < st.Products[j].ProductID
		})
		out.Styles = append(out.Styles, *st)
	}
	sort.Slice(out.Styles, func(i, j int) bool { return out.Styles[i].StyleName < out.Styles[j].StyleName })

	for _, st := range out.Styles {
		ref := StyleRef{StyleID: st.StyleID, StyleName: st.StyleName}
		for _, p := range st.Products {
			out.ProductStyles[p.ProductID] = append(out.ProductStyles[p.ProductID], ref)
		}
	}
	out.RelatedProducts = relatedProducts(out.Styles)
	return out
}

// extractFolder prefers ORIGINAL_-prefixed room shots; when a folder has
// none, every file is scanned.
func (m *Mapper) extractFolder(folder string, files []string) []string {
	sort.Strings(files)
	scan := files[:0:0]
	for _, f := range files {
		if strings.HasPrefix(f, "ORIGINAL_") {
			scan = append(scan, f)
		}
	}
	if len(scan) == 0 {
		scan = files
	}

	var out []string
	for _, f := range scan {
		for _, sku := range m.ex.Extract(f) {
			if !containsString(out, sku) {
				out = append(out, sku)
			}
		}
	}
	return out
}

func (m *Mapper) resolve(sku string) []ProductRef {
	for _, v := range lookupVariants(sku) {
		if refs := m.refs[v]; len(refs) > 0 {
			return refs
		}
	}
	return nil
}

// StyleName derives the human-readable style label from a folder name: the
// prefix before " - " when present, the whole name otherwise. Working folders
// (analysis, temp, test) carry no style.
func StyleName(folder string) string {
	if i := strings.Index(folder, " - "); i >= 0 {
		return strings.TrimSpace(folder[:i])
	}
	lower := strings.ToLower(folder)
	for _, skip := range []string{"analysis", "temp", "test"} {
		if strings.Contains(lower, skip) {
			return ""
		}
	}
	return strings.TrimSpace(folder)
}

// relatedProducts derives, per product, the other products sharing any of its
// styles: ranked by shared-style count (descending), then SKU, capped at
// maxRelatedProducts, never containing the product's own SKU.
func relatedProducts(styles []StyleAssignment) map[string][]string {
	type counter map[string]int // other sku -> shared style count
	shared := make(map[string]counter)
	ownSku := make(map[string]string)

	for _, st := range styles {
		for _, p := range st.Products {
			ownSku[p.ProductID] = p.Sku
			for _, q := range st.Products {
				if q.ProductID == p.ProductID {
					continue
				}
				c, ok := shared[p.ProductID]
				if !ok {
					c = make(counter)
					shared[p.ProductID] = c
				}
				c[q.Sku]++
			}
		}
	}

	out := make(map[string][]string, len(shared))
	for id, c := range shared {
		skus := make([]string, 0, len(c))
		for sku := range c {
			if sku == ownSku[id] {
				continue
			}
			skus = append(skus, sku)
		}
		sort.Slice(skus, func(i, j int) bool {
			if c[skus[i]] != c[skus[j]] {
				return c[skus[i]] > c[skus[j]]
			}
			return skus[i] < skus[j]
		})
		if len(skus) > maxRelatedProducts {
			skus = skus[:maxRelatedProducts]
		}
		if len(skus) > 0 {
			out[id] = skus
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsProduct(list []ProductRef, id string) bool {
	for _, p := range list {
		if p.ProductID == id {
			return true
		}
	}
	return false
}
