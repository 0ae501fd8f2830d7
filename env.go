// FILE: stratacfg/strata/env.go
package strata

import (
	"os"
	"strings"
)

// envSource captures process environment variables under a prefix.
// STRATA_SERVER_HOST maps to server.host; digit segments become list
// indices, so STRATA_SERVERS_0_HOST maps to servers[0].host.
type envSource struct {
	prefix string
	values map[string]any
}

// NewEnvSource builds a source over environment variables beginning with
// prefix. The prefix match is case-sensitive, following convention of
// uppercase variable names. An empty prefix captures nothing.
func NewEnvSource(prefix string) Source {
	s := &envSource{prefix: prefix}
	s.values = s.scan()
	return s
}

func (s *envSource) scan() map[string]any {
	out := make(map[string]any)
	if s.prefix == "" {
		return out
	}
	lead := s.prefix
	if !strings.HasSuffix(lead, "_") {
		lead += "_"
	}
	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			continue
		}
		name, val := kv[:eq], kv[eq+1:]
		if !strings.HasPrefix(name, lead) {
			continue
		}
		key := envKey(name[len(lead):])
		if key == "" {
			continue
		}
		out[key] = val
	}
	return out
}

// envKey converts the post-prefix part of a variable name to a flattened
// key: underscores separate segments, segments lowercase, digit segments
// index into lists.
func envKey(name string) string {
	segs := strings.Split(name, "_")
	for i, seg := range segs {
		segs[i] = strings.ToLower(seg)
	}
	return normalizeKey(strings.Join(segs, "."))
}

func (s *envSource) GetRaw(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *envSource) Keys() []string {
	return sortedKeys(s.values)
}

func (s *envSource) Refreshable() bool { return true }

// TryRefresh rescans the environment. Processes rarely mutate their own
// environment, but tests and wrappers do.
func (s *envSource) TryRefresh() (Outcome, error) {
	next := s.scan()
	if mapsEqual(s.values, next) {
		return Unchanged, nil
	}
	s.values = next
	return Changed, nil
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}
