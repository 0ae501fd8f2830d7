// FILE: stratacfg/strata/bind.go
package strata

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Bind decodes the resolved subtree below prefix into target, which must be
// a non-nil pointer. Every leaf under prefix resolves (priority lookup plus
// placeholder expansion) before decoding, index segments rebuild slices,
// and field names match via the configured struct tag. With WithValidation
// enabled, struct targets are validated after decoding and failures wrap
// ErrValidation.
func (c *Config) Bind(prefix string, target any) error {
	return c.bindIn(c.snap.Load(), normalizeKey(prefix), target)
}

// FromPrefix builds a T from the subtree below prefix.
func FromPrefix[T any](c *Config, prefix string) (T, error) {
	return getAs[T](c, c.snap.Load(), normalizeKey(prefix))
}

// FromConfig builds a T from the whole key space.
func FromConfig[T any](c *Config) (T, error) {
	return FromPrefix[T](c, "")
}

func (c *Config) bindIn(snap *Snapshot, prefix string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("bind target must be a non-nil pointer, got %T", target)
	}

	tree, err := c.resolvedTree(snap, prefix)
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          c.tagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	if err := decoder.Decode(tree); err != nil {
		return fmt.Errorf("decode failed for prefix %q: %w", prefix, err)
	}

	if c.validate != nil && rv.Elem().Kind() == reflect.Struct {
		if err := c.validate.Struct(target); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

// resolvedTree rebuilds the nested structure below prefix from the
// flattened key space, resolving every leaf. The result is a
// map[string]any tree, or a []any when prefix itself is a list.
func (c *Config) resolvedTree(snap *Snapshot, prefix string) (any, error) {
	var root any
	for _, k := range snap.keysUnder(prefix) {
		suffix, ok := childSuffix(prefix, k)
		if !ok {
			// prefix itself is a leaf; children, if any, shadow it.
			continue
		}
		v, err := c.resolveIn(snap, k)
		if err != nil {
			return nil, err
		}
		root = graft(root, splitSegments(suffix), v)
	}
	if root == nil {
		root = map[string]any{}
	}
	return root, nil
}

// graft places v at the segment path below cur, creating maps for name
// segments and slices for index segments. Digit segments are always indices
// here: normalization rewrites digit names to index form on capture.
func graft(cur any, segs []string, v any) any {
	if len(segs) == 0 {
		return v
	}
	seg := segs[0]
	if isDigits(seg) {
		idx, _ := strconv.Atoi(seg)
		arr, _ := cur.([]any)
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		arr[idx] = graft(arr[idx], segs[1:], v)
		return arr
	}
	m, _ := cur.(map[string]any)
	if m == nil {
		m = make(map[string]any)
	}
	m[seg] = graft(m[seg], segs[1:], v)
	return m
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
