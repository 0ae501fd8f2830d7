// FILE: stratacfg/strata/key.go
package strata

import (
	"sort"
	"strconv"
	"strings"
)

// Keys are dot-separated case-sensitive paths. List elements use bracket
// indices: "servers[0].host". Sources capture nested structures flattened to
// this form, so lookup is a single map access regardless of depth.

// normalizeKey canonicalizes a key's addressing form: surrounding whitespace
// is trimmed and ".N." digit segments rewrite to "[N]" index form, so
// "servers.0.host" and "servers[0].host" address the same entry. Segment
// case is preserved; only the environment mapping lowercases, by its own
// rule.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(key))
	for i, seg := range splitSegments(key) {
		if isDigits(seg) {
			b.WriteByte('[')
			b.WriteString(seg)
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// splitSegments breaks a key into path segments, treating both "." and
// "[N]" as separators. "a.b[2].c" yields ["a" "b" "2" "c"].
func splitSegments(key string) []string {
	var segs []string
	var cur strings.Builder
	for i := 0; i < len(key); i++ {
		switch c := key[i]; c {
		case '.':
			if cur.Len() > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}
		case '[':
			if cur.Len() > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}
		case ']':
			if cur.Len() > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		segs = append(segs, cur.String())
	}
	return segs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// indexKey forms the flattened key for list element i of parent.
func indexKey(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// childKey forms the flattened key for a named child of parent.
func childKey(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// parseIndexSuffix reports whether key is exactly parent followed by one
// "[N]" index, returning N. Deeper descendants do not match.
func parseIndexSuffix(parent, key string) (int, bool) {
	if !strings.HasPrefix(key, parent) {
		return 0, false
	}
	rest := key[len(parent):]
	if len(rest) < 3 || rest[0] != '[' || rest[len(rest)-1] != ']' {
		return 0, false
	}
	n := rest[1 : len(rest)-1]
	if !isDigits(n) {
		return 0, false
	}
	i, err := strconv.Atoi(n)
	if err != nil {
		return 0, false
	}
	return i, true
}

// childSuffix reports whether key is a strict descendant of parent,
// returning the remainder after the separator. A "." separator yields the
// remainder as-is; a "[" separator keeps the bracket so index structure
// survives: childSuffix("a", "a[2].b") == "[2].b".
func childSuffix(parent, key string) (string, bool) {
	if parent == "" {
		return key, key != ""
	}
	if !strings.HasPrefix(key, parent) || len(key) <= len(parent) {
		return "", false
	}
	switch key[len(parent)] {
	case '.':
		return key[len(parent)+1:], true
	case '[':
		return key[len(parent):], true
	}
	return "", false
}

// firstSegment splits a flattened suffix into its leading segment and the
// remainder. "[2].b" yields ("[2]", "b"); "x.y" yields ("x", "y");
// "x[0]" yields ("x", "[0]").
func firstSegment(suffix string) (string, string) {
	if suffix == "" {
		return "", ""
	}
	if suffix[0] == '[' {
		if end := strings.IndexByte(suffix, ']'); end >= 0 {
			head := suffix[:end+1]
			rest := suffix[end+1:]
			rest = strings.TrimPrefix(rest, ".")
			return head, rest
		}
		return suffix, ""
	}
	for i := 0; i < len(suffix); i++ {
		switch suffix[i] {
		case '.':
			return suffix[:i], suffix[i+1:]
		case '[':
			return suffix[:i], suffix[i:]
		}
	}
	return suffix, ""
}

// sortedKeys returns map keys in lexical order for deterministic iteration.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
