package interfaces

// RateSnapshot is the serializable state of the in-memory rate cache:
// day → currency code → mid rate, plus the already-fetched period markers.
type RateSnapshot struct {
	Rates   map[string]map[string]float64 `json:"rates"`
	Periods map[string]bool               `json:"periods"`
}

// RateStorage persists rate cache snapshots between runs
type RateStorage interface {
	// Load returns the stored snapshot, or nil when none exists or the
	// stored one is stale or from an incompatible version.
	Load() (*RateSnapshot, error)

	// Save stores the snapshot, replacing any previous one.
	Save(snap *RateSnapshot) error
}
