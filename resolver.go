// FILE: stratacfg/strata/resolver.go
package strata

import "strings"

// Placeholder grammar: ${key[:default]}. The key part is a dot path and may
// itself contain placeholders, which expand before the lookup. The default
// is arbitrary text, expanded lazily and only when the key is absent from
// every source. Backslash escapes the next byte, so \$ \} and \\ produce
// literals. A bare $, an unmatched ${, a stray } and a trailing \ are
// syntax errors.

// resolution tracks one top-level expansion: the snapshot every lookup runs
// against and the chain of keys currently being expanded. Revisiting a key
// on the chain is a cycle; the same key twice in one string is not, because
// keys pop off the chain when their own expansion finishes.
type resolution struct {
	snap    *Snapshot
	chain   []string
	visited map[string]struct{}
}

// expand runs placeholder expansion over raw, the value resolved for key
// against snap. Strings are scanned for references, random markers draw a
// fresh value, and all other scalars pass through untouched.
func expand(snap *Snapshot, key string, raw any) (any, error) {
	r := &resolution{snap: snap, visited: make(map[string]struct{})}
	return r.expandValue(key, raw)
}

func (r *resolution) expandValue(key string, raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		if err := r.push(key); err != nil {
			return nil, err
		}
		defer r.pop(key)
		return r.expandString(v)
	case randValue:
		return v.draw(), nil
	default:
		return raw, nil
	}
}

func (r *resolution) push(key string) error {
	if _, seen := r.visited[key]; seen {
		chain := make([]string, 0, len(r.chain)+1)
		chain = append(chain, r.chain...)
		chain = append(chain, key)
		return &CycleError{Chain: chain}
	}
	r.visited[key] = struct{}{}
	r.chain = append(r.chain, key)
	return nil
}

func (r *resolution) pop(key string) {
	delete(r.visited, key)
	r.chain = r.chain[:len(r.chain)-1]
}

// expandString substitutes every ${...} reference in s. Substituted text is
// not re-scanned; placeholders inside a referenced value expand when that
// value is resolved, which keeps the whole process one pass per level.
func (r *resolution) expandString(s string) (string, error) {
	// Common case: plain text with none of the three special bytes.
	if !strings.ContainsAny(s, `$\}`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", &SyntaxError{Raw: s, Pos: i}
			}
			b.WriteByte(s[i+1])
			i += 2
		case '}':
			return "", &SyntaxError{Raw: s, Pos: i}
		case '$':
			if i+1 >= len(s) || s[i+1] != '{' {
				return "", &SyntaxError{Raw: s, Pos: i}
			}
			end, err := matchBrace(s, i)
			if err != nil {
				return "", err
			}
			sub, err := r.expandRef(s, s[i+2:end])
			if err != nil {
				return "", err
			}
			b.WriteString(sub)
			i = end + 1
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String(), nil
}

// expandRef resolves one reference body. The key position expands eagerly so
// keys can be assembled from other values (${${selector}}); the default
// stays untouched unless the key turns out to be absent.
func (r *resolution) expandRef(raw, body string) (string, error) {
	keyExpr, def, hasDef := splitRef(body)
	keyText, err := r.expandString(keyExpr)
	if err != nil {
		return "", err
	}
	key := normalizeKey(keyText)
	rawVal, _, ok := r.snap.lookupRaw(key)
	if !ok {
		if hasDef {
			return r.expandString(def)
		}
		return "", &UnresolvedError{Key: key, Raw: raw}
	}
	v, err := r.expandValue(key, rawVal)
	if err != nil {
		return "", err
	}
	return stringify(v), nil
}

// matchBrace returns the index of the "}" closing the "${" that starts at
// open, honoring escapes and nested "${" pairs.
func matchBrace(s string, open int) (int, error) {
	depth := 1
	for i := open + 2; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				depth++
				i++
			}
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &SyntaxError{Raw: s, Pos: open}
}

// splitRef splits a reference body at the first top-level colon into key
// and default. Colons inside nested ${...} or behind an escape stay put.
func splitRef(body string) (key, def string, hasDef bool) {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '$':
			if i+1 < len(body) && body[i+1] == '{' {
				depth++
				i++
			}
		case '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return body[:i], body[i+1:], true
			}
		}
	}
	return body, "", false
}
