// FILE: stratacfg/strata/coerce.go
package strata

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Coercion converts a fully expanded value into the requested shape.
// Resolved values are strings most of the time (anything that went through
// placeholder expansion is one) but native scalars captured from typed
// formats arrive as bool, int64, uint64 or float64 and convert directly.
// Numeric conversion never truncates or wraps: out-of-range and fractional
// inputs fail with CoerceError.
//
// An empty string resolves as absent for every target except string itself,
// so an empty placeholder default (${key:}) behaves like a missing key for
// numeric targets.

func coerceString(key string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	}
	return "", &CoerceError{Key: key, Target: "string", Raw: stringify(v)}
}

func coerceBool(key string, v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		if val == "" {
			return false, &NotFoundError{Key: key}
		}
		switch strings.ToLower(val) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
	}
	return false, &CoerceError{Key: key, Target: "bool", Raw: stringify(v)}
}

func coerceInt(key string, v any, target string, bits int) (int64, error) {
	fail := func() (int64, error) {
		return 0, &CoerceError{Key: key, Target: target, Raw: stringify(v)}
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return 0, &NotFoundError{Key: key}
		}
		n, err := strconv.ParseInt(val, 0, bits)
		if err != nil {
			return fail()
		}
		return n, nil
	case int64:
		if bits < 64 && (val < minInt(bits) || val > maxInt(bits)) {
			return fail()
		}
		return val, nil
	case uint64:
		if val > uint64(maxInt(bits)) {
			return fail()
		}
		return int64(val), nil
	case float64:
		if val != math.Trunc(val) || val < -(1<<63) || val >= 1<<63 {
			return fail()
		}
		n := int64(val)
		if bits < 64 && (n < minInt(bits) || n > maxInt(bits)) {
			return fail()
		}
		return n, nil
	case bool:
		return fail()
	}
	return fail()
}

func coerceUint(key string, v any, target string, bits int) (uint64, error) {
	fail := func() (uint64, error) {
		return 0, &CoerceError{Key: key, Target: target, Raw: stringify(v)}
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return 0, &NotFoundError{Key: key}
		}
		n, err := strconv.ParseUint(val, 0, bits)
		if err != nil {
			return fail()
		}
		return n, nil
	case int64:
		if val < 0 {
			return fail()
		}
		n := uint64(val)
		if bits < 64 && n > maxUint(bits) {
			return fail()
		}
		return n, nil
	case uint64:
		if bits < 64 && val > maxUint(bits) {
			return fail()
		}
		return val, nil
	case float64:
		if val != math.Trunc(val) || val < 0 || val >= 1<<64 {
			return fail()
		}
		n := uint64(val)
		if bits < 64 && n > maxUint(bits) {
			return fail()
		}
		return n, nil
	}
	return fail()
}

func coerceFloat(key string, v any, target string, bits int) (float64, error) {
	fail := func() (float64, error) {
		return 0, &CoerceError{Key: key, Target: target, Raw: stringify(v)}
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return 0, &NotFoundError{Key: key}
		}
		f, err := strconv.ParseFloat(val, bits)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fail()
		}
		return f, nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fail()
		}
		if bits == 32 && math.Abs(val) > math.MaxFloat32 {
			return fail()
		}
		return val, nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	}
	return fail()
}

// coerceDuration accepts Go duration syntax ("500ms", "1h30m") plus bare
// numbers, which count as seconds.
func coerceDuration(key string, v any) (time.Duration, error) {
	fail := func() (time.Duration, error) {
		return 0, &CoerceError{Key: key, Target: "duration", Raw: stringify(v)}
	}
	const maxSeconds = int64(math.MaxInt64) / int64(time.Second)
	switch val := v.(type) {
	case string:
		if val == "" {
			return 0, &NotFoundError{Key: key}
		}
		if isDigits(val) {
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil || n > maxSeconds {
				return fail()
			}
			return time.Duration(n) * time.Second, nil
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return fail()
		}
		return d, nil
	case int64:
		if val > maxSeconds || val < -maxSeconds {
			return fail()
		}
		return time.Duration(val) * time.Second, nil
	case uint64:
		if val > uint64(maxSeconds) {
			return fail()
		}
		return time.Duration(val) * time.Second, nil
	case float64:
		secs := val * float64(time.Second)
		if math.IsNaN(secs) || secs < -(1<<63) || secs >= 1<<63 {
			return fail()
		}
		return time.Duration(secs), nil
	}
	return fail()
}

func minInt(bits int) int64 { return -1 << (bits - 1) }
func maxInt(bits int) int64 { return 1<<(bits-1) - 1 }

func maxUint(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<bits - 1
}
