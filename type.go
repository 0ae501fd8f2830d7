// FILE: stratacfg/strata/type.go
package strata

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Typed getters resolve a key (priority lookup plus placeholder expansion)
// and coerce the result. Scalar getters address leaves; slice and map
// getters reassemble composites from the flattened key space, so a YAML
// list, indexed environment variables and "a,b,c" strings all come back as
// the same Go value.

// GetString returns key as a string.
func (c *Config) GetString(key string) (string, error) {
	return c.stringIn(c.snap.Load(), normalizeKey(key))
}

// GetBool returns key as a bool. Accepted string forms are true/false,
// yes/no and 1/0, case-insensitive.
func (c *Config) GetBool(key string) (bool, error) {
	return c.boolIn(c.snap.Load(), normalizeKey(key))
}

// GetInt returns key as an int.
func (c *Config) GetInt(key string) (int, error) {
	n, err := c.intIn(c.snap.Load(), normalizeKey(key), "int", strconv.IntSize)
	return int(n), err
}

// GetInt64 returns key as an int64.
func (c *Config) GetInt64(key string) (int64, error) {
	return c.intIn(c.snap.Load(), normalizeKey(key), "int64", 64)
}

// GetUint64 returns key as a uint64.
func (c *Config) GetUint64(key string) (uint64, error) {
	return c.uintIn(c.snap.Load(), normalizeKey(key), "uint64", 64)
}

// GetFloat64 returns key as a float64.
func (c *Config) GetFloat64(key string) (float64, error) {
	return c.floatIn(c.snap.Load(), normalizeKey(key), "float64", 64)
}

// GetDuration returns key as a time.Duration. Values parse with Go duration
// syntax; bare numbers count as seconds.
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return c.durationIn(c.snap.Load(), normalizeKey(key))
}

// GetStringSlice returns key as a string slice. A scalar value splits on
// commas; indexed keys (key[0], key[1], ...) reassemble in order. A missing
// index is an error naming it. No keys under key yields an empty slice.
func (c *Config) GetStringSlice(key string) ([]string, error) {
	return c.stringSliceIn(c.snap.Load(), normalizeKey(key))
}

// GetIntSlice is GetStringSlice with int elements.
func (c *Config) GetIntSlice(key string) ([]int, error) {
	return c.intSliceIn(c.snap.Load(), normalizeKey(key))
}

// GetStringMap returns the resolved subtree below key as nested maps and
// slices. No keys below key yields an empty map.
func (c *Config) GetStringMap(key string) (map[string]any, error) {
	return c.stringMapIn(c.snap.Load(), normalizeKey(key))
}

// GetStringMapString returns the direct children of key, each coerced to a
// string. Child names are taken verbatim.
func (c *Config) GetStringMapString(key string) (map[string]string, error) {
	return c.stringMapStringIn(c.snap.Load(), normalizeKey(key))
}

// getAs resolves key as T against a specific snapshot. Scalar and composite
// shapes dispatch to the coercion helpers; any other T binds the key's
// subtree as a struct.
func getAs[T any](c *Config, snap *Snapshot, key string) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *string:
		*p, err = c.stringIn(snap, key)
	case *bool:
		*p, err = c.boolIn(snap, key)
	case *int:
		var n int64
		n, err = c.intIn(snap, key, "int", strconv.IntSize)
		*p = int(n)
	case *int8:
		var n int64
		n, err = c.intIn(snap, key, "int8", 8)
		*p = int8(n)
	case *int16:
		var n int64
		n, err = c.intIn(snap, key, "int16", 16)
		*p = int16(n)
	case *int32:
		var n int64
		n, err = c.intIn(snap, key, "int32", 32)
		*p = int32(n)
	case *int64:
		*p, err = c.intIn(snap, key, "int64", 64)
	case *uint:
		var n uint64
		n, err = c.uintIn(snap, key, "uint", strconv.IntSize)
		*p = uint(n)
	case *uint8:
		var n uint64
		n, err = c.uintIn(snap, key, "uint8", 8)
		*p = uint8(n)
	case *uint16:
		var n uint64
		n, err = c.uintIn(snap, key, "uint16", 16)
		*p = uint16(n)
	case *uint32:
		var n uint64
		n, err = c.uintIn(snap, key, "uint32", 32)
		*p = uint32(n)
	case *uint64:
		*p, err = c.uintIn(snap, key, "uint64", 64)
	case *float32:
		var f float64
		f, err = c.floatIn(snap, key, "float32", 32)
		*p = float32(f)
	case *float64:
		*p, err = c.floatIn(snap, key, "float64", 64)
	case *time.Duration:
		*p, err = c.durationIn(snap, key)
	case *[]string:
		*p, err = c.stringSliceIn(snap, key)
	case *[]int:
		*p, err = c.intSliceIn(snap, key)
	case *map[string]any:
		*p, err = c.stringMapIn(snap, key)
	case *map[string]string:
		*p, err = c.stringMapStringIn(snap, key)
	default:
		err = c.bindIn(snap, key, &out)
	}
	return out, err
}

func (c *Config) stringIn(snap *Snapshot, key string) (string, error) {
	v, err := c.resolveIn(snap, key)
	if err != nil {
		return "", err
	}
	return coerceString(key, v)
}

func (c *Config) boolIn(snap *Snapshot, key string) (bool, error) {
	v, err := c.resolveIn(snap, key)
	if err != nil {
		return false, err
	}
	return coerceBool(key, v)
}

func (c *Config) intIn(snap *Snapshot, key, target string, bits int) (int64, error) {
	v, err := c.resolveIn(snap, key)
	if err != nil {
		return 0, err
	}
	return coerceInt(key, v, target, bits)
}

func (c *Config) uintIn(snap *Snapshot, key, target string, bits int) (uint64, error) {
	v, err := c.resolveIn(snap, key)
	if err != nil {
		return 0, err
	}
	return coerceUint(key, v, target, bits)
}

func (c *Config) floatIn(snap *Snapshot, key, target string, bits int) (float64, error) {
	v, err := c.resolveIn(snap, key)
	if err != nil {
		return 0, err
	}
	return coerceFloat(key, v, target, bits)
}

func (c *Config) durationIn(snap *Snapshot, key string) (time.Duration, error) {
	v, err := c.resolveIn(snap, key)
	if err != nil {
		return 0, err
	}
	return coerceDuration(key, v)
}

func (c *Config) stringSliceIn(snap *Snapshot, key string) ([]string, error) {
	if raw, _, ok := snap.lookupRaw(key); ok {
		v, err := expand(snap, key, raw)
		if err != nil {
			return nil, err
		}
		s, err := coerceString(key, v)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return []string{}, nil
		}
		parts := strings.Split(s, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts, nil
	}
	n, err := sliceLen(snap, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := c.stringIn(snap, indexKey(key, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Config) intSliceIn(snap *Snapshot, key string) ([]int, error) {
	if raw, _, ok := snap.lookupRaw(key); ok {
		v, err := expand(snap, key, raw)
		if err != nil {
			return nil, err
		}
		s, err := coerceString(key, v)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return []int{}, nil
		}
		parts := strings.Split(s, ",")
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := coerceInt(key, strings.TrimSpace(p), "int", strconv.IntSize)
			if err != nil {
				return nil, err
			}
			out = append(out, int(n))
		}
		return out, nil
	}
	n, err := sliceLen(snap, key)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		e, err := c.intIn(snap, indexKey(key, i), "int", strconv.IntSize)
		if err != nil {
			return nil, err
		}
		out = append(out, int(e))
	}
	return out, nil
}

func (c *Config) stringMapIn(snap *Snapshot, key string) (map[string]any, error) {
	tree, err := c.resolvedTree(snap, key)
	if err != nil {
		return nil, err
	}
	if m, ok := tree.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{}, nil
}

func (c *Config) stringMapStringIn(snap *Snapshot, key string) (map[string]string, error) {
	out := make(map[string]string)
	for _, name := range childNames(snap, key) {
		s, err := c.stringIn(snap, childKey(key, name))
		if err != nil {
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

// sliceLen counts the contiguous [0..n) index range directly under key.
// The first missing index in the range is reported as not found.
func sliceLen(snap *Snapshot, key string) (int, error) {
	seen := make(map[int]struct{})
	max := -1
	for _, k := range snap.keysUnder(key) {
		suffix, ok := childSuffix(key, k)
		if !ok {
			continue
		}
		head, _ := firstSegment(suffix)
		if len(head) < 3 || head[0] != '[' || head[len(head)-1] != ']' {
			continue
		}
		i, err := strconv.Atoi(head[1 : len(head)-1])
		if err != nil {
			continue
		}
		seen[i] = struct{}{}
		if i > max {
			max = i
		}
	}
	for i := 0; i <= max; i++ {
		if _, ok := seen[i]; !ok {
			return 0, &NotFoundError{Key: indexKey(key, i)}
		}
	}
	return max + 1, nil
}

// childNames lists the distinct named (non-index) segments directly under
// key, sorted.
func childNames(snap *Snapshot, key string) []string {
	set := make(map[string]struct{})
	for _, k := range snap.keysUnder(key) {
		suffix, ok := childSuffix(key, k)
		if !ok {
			continue
		}
		head, _ := firstSegment(suffix)
		if head == "" || head[0] == '[' {
			continue
		}
		set[head] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
