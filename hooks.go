package repcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// Lookup reports every Store.Get.
	Lookup(storageKey string, hit bool)

	// An entry was deleted by the store on read.
	// reason ∈ {"corrupt", "gen_mismatch", "token_mismatch"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// A Put was dropped because the resource generation moved after the snapshot.
	StalePutSkipped(storageKey string, observed, current uint64)

	// A record could not be encoded (defect).
	EncodeFailure(storageKey string, err error)

	// Invalidating a resource failed; the write is answered with an error.
	InvalidateFailure(resource string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Lookup(string, bool)                    {}
func (NopHooks) SelfHeal(string, string)                {}
func (NopHooks) ProviderSetRejected(string)             {}
func (NopHooks) StalePutSkipped(string, uint64, uint64) {}
func (NopHooks) EncodeFailure(string, error)            {}
func (NopHooks) InvalidateFailure(string, error)        {}

// MultiHooks fans every event out to each member in order.
type MultiHooks []Hooks

var _ Hooks = MultiHooks(nil)

func (m MultiHooks) Lookup(k string, hit bool) {
	for _, h := range m {
		h.Lookup(k, hit)
	}
}

func (m MultiHooks) SelfHeal(k, reason string) {
	for _, h := range m {
		h.SelfHeal(k, reason)
	}
}

func (m MultiHooks) ProviderSetRejected(k string) {
	for _, h := range m {
		h.ProviderSetRejected(k)
	}
}

func (m MultiHooks) StalePutSkipped(k string, obs, cur uint64) {
	for _, h := range m {
		h.StalePutSkipped(k, obs, cur)
	}
}

func (m MultiHooks) EncodeFailure(k string, err error) {
	for _, h := range m {
		h.EncodeFailure(k, err)
	}
}

func (m MultiHooks) InvalidateFailure(r string, err error) {
	for _, h := range m {
		h.InvalidateFailure(r, err)
	}
}
