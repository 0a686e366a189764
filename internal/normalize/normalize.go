// Package normalize contains the pure value normalizers used by the
// ingestion pipeline. Normalizers never return errors: every function
// degrades to a safe default so that all skip-vs-abort judgment stays in
// the pipeline's row loop.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	numberPattern = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw spreadsheet cell values into canonical forms.
// All lookup data comes from the injected Tables.
type Normalizer struct {
	tables       Tables
	suffixRegexp *regexp.Regexp
	titleCaser   cases.Caser
}

func New(tables Tables) *Normalizer {
	// Suffixes match at the end of the name, case-insensitively, with an
	// optional trailing dot ("Ltda", "ltda.", "S.A.", "S/A", ...).
	escaped := make([]string, 0, len(tables.CompanySuffixes))
	for _, s := range tables.CompanySuffixes {
		escaped = append(escaped, regexp.QuoteMeta(s))
	}
	re := regexp.MustCompile(`(?i)[\s,]+(` + strings.Join(escaped, "|") + `)\.?\s*$`)
	return &Normalizer{
		tables:       tables,
		suffixRegexp: re,
		titleCaser:   cases.Title(language.BrazilianPortuguese),
	}
}

// IsFormula reports whether a raw cell carries a spreadsheet formula
// instead of a literal value. Formula cells are treated as unparseable by
// the money and markup normalizers.
func IsFormula(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "=")
}

// Rim converts a raw rim cell ("R14", "ARO 17,5", "aro205/55") into a
// canonical numeric string. Whole numbers lose the fractional part, other
// values keep the decimal form with a dot separator. When no numeric
// content exists the canonical value is "0".
func (n *Normalizer) Rim(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "ARO", "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return formatRim(v)
	}

	// Malformed cell — extract the first embedded numeric group.
	// "205/55" therefore canonicalizes to "205".
	match := numberPattern.FindString(s)
	if match == "" {
		return "0"
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return "0"
	}
	return formatRim(v)
}

func formatRim(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CompanyName title-cases a competitor name and strips trailing
// legal-entity suffixes. Blank cells map to the "Desconhecido" sentinel.
func (n *Normalizer) CompanyName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return n.tables.UnknownCompany
	}
	s = n.suffixRegexp.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return n.tables.UnknownCompany
	}
	return n.titleCaser.String(s)
}

// Date parses a collection date trying each configured layout in order.
// Blank or unparseable cells fall back to the current time — ingestion
// must never fail because of a date cell.
func (n *Normalizer) Date(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Now()
	}
	for _, layout := range n.tables.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}

// Money parses a monetary cell ("R$ 1.234,56") into a decimal. Formula
// cells, blanks and garbage all yield zero.
func (n *Normalizer) Money(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || IsFormula(s) {
		return decimal.Zero
	}
	s = strings.ReplaceAll(strings.ToUpper(s), "R$", "")
	s = spacePattern.ReplaceAllString(s, "")
	if strings.Contains(s, ",") {
		// Comma is the decimal separator; dots are thousands markers.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// Markup resolves the MKP column. A literal value wins; a formula marker
// or blank cell falls back to (sell / cost) - 1 when the cost is known.
func (n *Normalizer) Markup(raw string, sell, cost decimal.Decimal) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s != "" && !IsFormula(s) {
		s = strings.ReplaceAll(s, ",", ".")
		if v, err := decimal.NewFromString(s); err == nil {
			return v
		}
	}
	if cost.IsPositive() {
		return sell.Div(cost).Sub(decimal.NewFromInt(1)).Round(4)
	}
	return decimal.Zero
}

// Origin classifies the origin cell by substring: "NAC" → NACIONAL,
// "IMP" → IMPORTADO, anything else is unknown and rendered as "-".
func (n *Normalizer) Origin(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "NAC"):
		return "NACIONAL"
	case strings.Contains(s, "IMP"):
		return "IMPORTADO"
	default:
		return "-"
	}
}

// Region maps a state abbreviation to its region code; unknown states
// fall back to the caller-supplied default.
func (n *Normalizer) Region(state, fallback string) string {
	if r, ok := n.tables.RegionByState[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return r
	}
	return fallback
}
