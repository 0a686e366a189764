package normalize

// Tables holds the lookup data the normalizers depend on. It is plain
// immutable configuration injected at construction time so tests and
// per-locale deployments can override entries without touching globals.
type Tables struct {
	// UnknownCompany is returned when a company cell is blank.
	UnknownCompany string
	// CompanySuffixes are legal-entity suffixes stripped from the end of a
	// company name (matched case-insensitively, with or without a final dot).
	CompanySuffixes []string
	// DateLayouts are tried in order; the first layout that parses wins.
	DateLayouts []string
	// RegionByState maps a state abbreviation (UF) to one of the five
	// region codes: N, NE, CO, SE, S.
	RegionByState map[string]string
}

// DefaultTables returns the lookup data for the Brazilian market files the
// system receives today.
func DefaultTables() Tables {
	return Tables{
		UnknownCompany:  "Desconhecido",
		CompanySuffixes: []string{"ltda", "s.a", "s/a", "sa", "me", "eireli"},
		DateLayouts: []string{
			"02/01/2006 15:04:05",
			"02/01/2006 15:04",
			"02/01/2006",
			"2006-01-02 15:04:05",
			"2006-01-02",
			"02-01-2006",
			"02/01/06",
			"02-01-06",
		},
		RegionByState: map[string]string{
			// Norte
			"AC": "N", "AM": "N", "AP": "N", "PA": "N", "RO": "N", "RR": "N", "TO": "N",
			// Nordeste
			"AL": "NE", "BA": "NE", "CE": "NE", "MA": "NE", "PB": "NE",
			"PE": "NE", "PI": "NE", "RN": "NE", "SE": "NE",
			// Centro-Oeste
			"DF": "CO", "GO": "CO", "MT": "CO", "MS": "CO",
			// Sudeste
			"ES": "SE", "MG": "SE", "RJ": "SE", "SP": "SE",
			// Sul
			"PR": "S", "RS": "S", "SC": "S",
		},
	}
}
