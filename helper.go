// FILE: stratacfg/strata/helper.go
package strata

import (
	"encoding/json"
	"fmt"
	"time"
)

// flattenInto walks a nested structure and records every leaf scalar in out
// under its flattened key. Maps descend by name, slices by index. Keys are
// normalized on the way in, so all sources agree on addressing.
func flattenInto(out map[string]any, prefix string, v any) {
	switch val := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(val) {
			flattenInto(out, childKey(prefix, normalizeKey(k)), val[k])
		}
	case map[any]any:
		// yaml.v2 legacy shape, kept for robustness with odd decoders
		for k, item := range val {
			flattenInto(out, childKey(prefix, normalizeKey(fmt.Sprint(k))), item)
		}
	case []any:
		for i, item := range val {
			flattenInto(out, indexKey(prefix, i), item)
		}
	case nil:
		// null leaves count as absent
	default:
		if prefix == "" {
			return
		}
		out[prefix] = normalizeScalar(v)
	}
}

// normalizeScalar reduces a decoded leaf to one of the carrier types:
// string, bool, int64, uint64, float64 or nil. Decoders disagree on number
// width; funneling through here keeps coercion rules uniform.
func normalizeScalar(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, int64, uint64, float64:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return uint64(val)
	case uint8:
		return uint64(val)
	case uint16:
		return uint64(val)
	case uint32:
		return uint64(val)
	case float32:
		return float64(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// stringify renders a resolved scalar for substitution into surrounding
// text. Bool and numeric forms use their canonical Go rendering.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
