package usage

// Store persists the usage ledger so spend survives process restarts.
type Store interface {
	// Load returns the persisted ledger, or nil when none exists yet.
	Load() (*Ledger, error)
	// Save persists the full ledger state.
	Save(*Ledger) error
}
