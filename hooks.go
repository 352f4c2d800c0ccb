package depcache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// An entry was deleted by the cache on read.
	// reason is one of "corrupt", "dep_decode", "value_decode".
	SelfHeal(storageKey, reason string)

	// A tagged entry's dependency reported a change; the read missed.
	DependencyChanged(storageKey string)

	// Store returned ok=false on Set/SetMulti (backpressure/eviction).
	StoreSetRejected(storageKey string, isMulti bool)

	// Add/AddMulti skipped a key because the store already held it.
	AddSkippedExisting(storageKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)       {}
func (NopHooks) DependencyChanged(string)      {}
func (NopHooks) StoreSetRejected(string, bool) {}
func (NopHooks) AddSkippedExisting(string)     {}
