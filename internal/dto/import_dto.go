package dto

// RowSkip records one rejected input row with its line number (1-based,
// counting the header as line 1) and a human-readable reason.
type RowSkip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportSummary is the per-file result of an ingestion run.
type ImportSummary struct {
	Status   string    `json:"status"`
	Message  string    `json:"mensagem"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	City     string    `json:"city"`
	Region   string    `json:"region"`
	Skips    []RowSkip `json:"skips,omitempty"`
}
