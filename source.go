// FILE: stratacfg/strata/source.go
package strata

// Outcome reports the result of a refresh attempt on a single source.
type Outcome int

const (
	// Unchanged means the backing data was re-read and is identical.
	Unchanged Outcome = iota
	// Changed means new data was loaded and Keys/GetRaw now reflect it.
	Changed
)

// Source supplies raw configuration values. Implementations perform their
// I/O in the constructor and in TryRefresh; GetRaw and Keys are pure views
// over captured state and must be safe for concurrent readers.
type Source interface {
	// GetRaw returns the raw value for a normalized flattened key.
	GetRaw(key string) (any, bool)

	// Keys lists every flattened key the source currently holds.
	Keys() []string

	// Refreshable reports whether TryRefresh may ever return Changed.
	// Non-refreshable sources are skipped during refresh entirely.
	Refreshable() bool

	// TryRefresh re-reads the backing data. It must not partially apply:
	// on error the previously captured state stays intact.
	TryRefresh() (Outcome, error)
}

// kvSource is a fixed in-memory source. It backs explicit overrides,
// programmatic defaults and tests.
type kvSource struct {
	values map[string]any
}

// NewKVSource builds a non-refreshable source from a nested or flat map.
// Nested maps and slices are flattened; keys are normalized.
func NewKVSource(values map[string]any) Source {
	flat := make(map[string]any, len(values))
	flattenInto(flat, "", values)
	return &kvSource{values: flat}
}

// NewKVFlatSource builds a non-refreshable source from already-flattened
// pairs, normalizing keys but leaving values as given.
func NewKVFlatSource(pairs map[string]string) Source {
	flat := make(map[string]any, len(pairs))
	for k, v := range pairs {
		if nk := normalizeKey(k); nk != "" {
			flat[nk] = v
		}
	}
	return &kvSource{values: flat}
}

func (s *kvSource) GetRaw(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *kvSource) Keys() []string {
	return sortedKeys(s.values)
}

func (s *kvSource) Refreshable() bool { return false }

func (s *kvSource) TryRefresh() (Outcome, error) { return Unchanged, nil }
