package domain

// ImportOutcome aggregates the per-row results of one bulk import.
// Every non-blank data row is accounted for in exactly one of the three
// counters; blank rows are discarded during parsing and counted nowhere.
type ImportOutcome struct {
	SuccessCount int      `json:"successCount"`
	UpdateCount  int      `json:"updateCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
}
