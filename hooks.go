package memocache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// Get found and decoded a value.
	Hit(storageKey string)
	// Get found nothing (or an empty value).
	Miss(storageKey string)

	// A memoized result was not written.
	// reason ∈ {"empty"}
	SetSkipped(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// A stored value failed to decode. The entry is not removed.
	DecodeFailed(storageKey string, err error)

	// Provider returned an error.
	// op ∈ {"get", "set", "del", "exists", "expire", "scan"}
	StoreFailed(op, storageKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                        {}
func (NopHooks) Miss(string)                       {}
func (NopHooks) SetSkipped(string, string)         {}
func (NopHooks) ProviderSetRejected(string)        {}
func (NopHooks) DecodeFailed(string, error)        {}
func (NopHooks) StoreFailed(string, string, error) {}
