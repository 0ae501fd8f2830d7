// FILE: stratacfg/strata/snapshot.go
package strata

import "sort"

// entry is one source's captured state inside a snapshot: the source's
// flattened key/value map dumped at registration or refresh time. Entries
// are never mutated after construction; refresh builds replacements.
type entry struct {
	name   string
	source Source
	values map[string]any
}

// capture dumps a source's current keys and values into a fresh entry.
func capture(name string, src Source) *entry {
	keys := src.Keys()
	values := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := src.GetRaw(k); ok {
			values[k] = v
		}
	}
	return &entry{name: name, source: src, values: values}
}

// Snapshot is an immutable view of all registered sources at one point in
// time. Reads against a snapshot are wait-free and internally consistent;
// refresh publishes a new snapshot with a higher generation rather than
// mutating this one.
type Snapshot struct {
	entries []*entry
	gen     uint64
}

// Generation returns the snapshot's monotonic publish counter. It starts
// at zero and advances by one for every published refresh.
func (s *Snapshot) Generation() uint64 { return s.gen }

// lookupRaw finds key in registration order: the earliest source holding
// the key wins. It returns the raw value and the owning source's name.
func (s *Snapshot) lookupRaw(key string) (any, string, bool) {
	for _, e := range s.entries {
		if v, ok := e.values[key]; ok {
			return v, e.name, true
		}
	}
	return nil, "", false
}

// Has reports whether key is present in any source, either directly or as
// the parent of captured descendants.
func (s *Snapshot) Has(key string) bool {
	key = normalizeKey(key)
	for _, e := range s.entries {
		if _, ok := e.values[key]; ok {
			return true
		}
		for k := range e.values {
			if _, ok := childSuffix(key, k); ok {
				return true
			}
		}
	}
	return false
}

// Keys returns the sorted union of all captured keys across sources.
func (s *Snapshot) Keys() []string {
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		for k := range e.values {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// keysUnder returns the sorted union of keys that are descendants of
// prefix, or prefix itself when captured as a scalar.
func (s *Snapshot) keysUnder(prefix string) []string {
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		for k := range e.values {
			if k == prefix {
				seen[k] = struct{}{}
				continue
			}
			if _, ok := childSuffix(prefix, k); ok {
				seen[k] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SourceNames lists registered sources in priority order.
func (s *Snapshot) SourceNames() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}
