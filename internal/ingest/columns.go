package ingest

import (
	"errors"
	"strings"
)

// Canonical fields a source spreadsheet can provide. Only the sell-out
// price is mandatory; everything else degrades gracefully when absent.
type Field string

const (
	FieldBrand           Field = "brand"
	FieldModel           Field = "model"
	FieldWidth           Field = "width" // medida, e.g. "185/65 R14"
	FieldRim             Field = "rim"
	FieldPrice           Field = "price" // sell-out — the anchor column
	FieldCost            Field = "cost"  // sell-in
	FieldCompetitor      Field = "competitor"
	FieldCompetitorBrand Field = "competitor_brand"
	FieldCompetitorModel Field = "competitor_model"
	FieldOrigin          Field = "origin"
	FieldDate            Field = "date"
	FieldMarkup          Field = "mkp"
	FieldLocation        Field = "location"
)

// ColumnMapping maps a canonical field to the column index in the source
// header. Produced once per file and consumed for every row; never persisted.
type ColumnMapping map[Field]int

// ErrColumnsNotIdentified signals that no sell-out price column could be
// located, so the file cannot be ingested at all.
var ErrColumnsNotIdentified = errors.New("colunas não identificadas")

// HeaderTables is the lookup data driving column identification. Injected
// at construction so tests and new file layouts only touch configuration.
type HeaderTables struct {
	// Exact maps a trimmed, lower-cased header to its field. Covers the
	// known recurring spreadsheet schema and is always tried first.
	Exact map[string]Field
	// Keywords per field, used for the substring fallback scored by
	// proximity to the anchor column.
	Keywords map[Field][]string
	// SellOutMarkers score a header as a strong anchor candidate;
	// PriceMarkers as a weak one; CostMarkers disqualify it.
	SellOutMarkers []string
	PriceMarkers   []string
	CostMarkers    []string
}

// DefaultHeaderTables covers the header variants seen across the
// competitor files received so far.
func DefaultHeaderTables() HeaderTables {
	return HeaderTables{
		Exact: map[string]Field{
			"marca":                FieldBrand,
			"modelo":               FieldModel,
			"medida":               FieldWidth,
			"aro":                  FieldRim,
			"preço sell out (r$)":  FieldPrice,
			"preco sell out (r$)":  FieldPrice,
			"preço sell out":       FieldPrice,
			"preco sell out":       FieldPrice,
			"preco_sell_out":       FieldPrice,
			"sell out":             FieldPrice,
			"sell in":              FieldCost,
			"sell_in":              FieldCost,
			"custo":                FieldCost,
			"empresa":              FieldCompetitor,
			"concorrente":          FieldCompetitor,
			"marca concorrente":    FieldCompetitorBrand,
			"modelo concorrente":   FieldCompetitorModel,
			"origem":               FieldOrigin,
			"data":                 FieldDate,
			"data coleta":          FieldDate,
			"data da coleta":       FieldDate,
			"mkp":                  FieldMarkup,
			"markup":               FieldMarkup,
			"cidade":               FieldLocation,
			"uf":                   FieldLocation,
		},
		Keywords: map[Field][]string{
			FieldBrand:           {"marca"},
			FieldModel:           {"modelo"},
			FieldWidth:           {"medida", "dimens"},
			FieldRim:             {"aro", "rim"},
			FieldCost:            {"sell in", "sell_in", "sellin", "custo", "cost"},
			FieldCompetitor:      {"empresa", "concorrente", "loja", "cliente"},
			FieldCompetitorBrand: {"marca conc", "marca"},
			FieldCompetitorModel: {"modelo conc", "modelo"},
			FieldOrigin:          {"origem", "orig"},
			FieldDate:            {"data", "date"},
			FieldMarkup:          {"mkp", "markup", "margem"},
			FieldLocation:        {"cidade", "local", "praca", "uf"},
		},
		SellOutMarkers: []string{"sell out", "sell_out", "sellout"},
		PriceMarkers:   []string{"preço", "preco", "price", "valor"},
		CostMarkers:    []string{"sell in", "sell_in", "sellin", "custo", "cost"},
	}
}

// fallbackOrder fixes the iteration order of the proximity pass so that
// identification is deterministic for a given header row.
var fallbackOrder = []Field{
	FieldWidth, FieldBrand, FieldModel, FieldRim, FieldCost,
	FieldCompetitor, FieldCompetitorBrand, FieldCompetitorModel,
	FieldOrigin, FieldDate, FieldMarkup, FieldLocation,
}

// ColumnIdentifier turns one file's header row into a ColumnMapping.
type ColumnIdentifier struct {
	tables HeaderTables
}

func NewColumnIdentifier(tables HeaderTables) *ColumnIdentifier {
	return &ColumnIdentifier{tables: tables}
}

// Identify applies the ordered strategy: exact table lookup, then sell-out
// anchor detection, then keyword fallback scored by proximity to the
// anchor. Each source column is claimed by at most one field, which is what
// disambiguates near-duplicate headers (an internal "Marca" next to the
// product columns and a competitor "Marca" next to the price).
func (ci *ColumnIdentifier) Identify(headers []string) (ColumnMapping, error) {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := ColumnMapping{}
	claimed := make(map[int]bool)

	// 1. Exact table lookup — first occurrence wins per field.
	for i, h := range norm {
		f, ok := ci.tables.Exact[h]
		if !ok {
			continue
		}
		if _, taken := mapping[f]; taken {
			continue
		}
		mapping[f] = i
		claimed[i] = true
	}

	// 2. Anchor detection. Without a sell-out price column the file is
	// not ingestible.
	anchor, ok := mapping[FieldPrice]
	if !ok {
		anchor = ci.findAnchor(norm, claimed)
		if anchor < 0 {
			return nil, ErrColumnsNotIdentified
		}
		mapping[FieldPrice] = anchor
		claimed[anchor] = true
	}

	// 3. Proximity fallback for every remaining field.
	for _, f := range fallbackOrder {
		if _, done := mapping[f]; done {
			continue
		}
		if idx := ci.closestMatch(norm, claimed, f, anchor); idx >= 0 {
			mapping[f] = idx
			claimed[idx] = true
		}
	}

	return mapping, nil
}

// findAnchor scores every unclaimed column: sell-out markers beat generic
// price markers; cost/sell-in columns are disqualified outright.
func (ci *ColumnIdentifier) findAnchor(norm []string, claimed map[int]bool) int {
	best, bestScore := -1, 0
	for i, h := range norm {
		if claimed[i] || containsAny(h, ci.tables.CostMarkers) {
			continue
		}
		score := 0
		switch {
		case containsAny(h, ci.tables.SellOutMarkers):
			score = 3
		case containsAny(h, ci.tables.PriceMarkers):
			score = 1
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// closestMatch scans unclaimed columns for a keyword hit and prefers the
// one positionally closest to the anchor. An exact keyword match carries a
// bonus that always outweighs distance. The cost field never matches the
// anchor column itself.
func (ci *ColumnIdentifier) closestMatch(norm []string, claimed map[int]bool, f Field, anchor int) int {
	const exactBonus = 1 << 16

	best := -1
	bestScore := -(1 << 30)
	for i, h := range norm {
		if claimed[i] {
			continue
		}
		if f == FieldCost && i == anchor {
			continue
		}
		exact, matched := false, false
		for _, kw := range ci.tables.Keywords[f] {
			if h == kw {
				exact, matched = true, true
				break
			}
			if strings.Contains(h, kw) {
				matched = true
			}
		}
		if !matched {
			continue
		}
		score := -abs(i - anchor)
		if exact {
			score += exactBonus
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
