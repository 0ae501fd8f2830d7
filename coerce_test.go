// FILE: stratacfg/strata/coerce_test.go
package strata

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCoerceBool tests the accepted boolean literal set
func TestCoerceBool(t *testing.T) {
	truthy := []string{"true", "TRUE", "True", "yes", "YES", "1"}
	falsy := []string{"false", "FALSE", "False", "no", "No", "0"}

	for _, s := range truthy {
		v, err := coerceBool("k", s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range falsy {
		v, err := coerceBool("k", s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}

	t.Run("NativeBool", func(t *testing.T) {
		v, err := coerceBool("k", true)
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("Rejected", func(t *testing.T) {
		for _, s := range []string{"on", "off", "2", "y", "t", "enabled"} {
			_, err := coerceBool("k", s)
			assert.ErrorIs(t, err, ErrCoerce, s)
		}
	})
}

// TestCoerceInt tests signed integer conversion and range enforcement
func TestCoerceInt(t *testing.T) {
	t.Run("Strings", func(t *testing.T) {
		tests := []struct {
			in   string
			want int64
		}{
			{"0", 0},
			{"42", 42},
			{"-7", -7},
			{"0x10", 16}, // base 0 accepts hex
			{"0o17", 15}, // and octal
			{"0b101", 5}, // and binary
			{"1_000", 1000},
		}
		for _, tt := range tests {
			v, err := coerceInt("k", tt.in, "int64", 64)
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, v, tt.in)
		}
	})

	t.Run("NarrowRange", func(t *testing.T) {
		_, err := coerceInt("k", "128", "int8", 8)
		assert.ErrorIs(t, err, ErrCoerce)

		v, err := coerceInt("k", "-128", "int8", 8)
		require.NoError(t, err)
		assert.Equal(t, int64(-128), v)

		_, err = coerceInt("k", int64(300), "int8", 8)
		assert.ErrorIs(t, err, ErrCoerce)
	})

	t.Run("FloatMustBeIntegral", func(t *testing.T) {
		v, err := coerceInt("k", float64(32), "int64", 64)
		require.NoError(t, err)
		assert.Equal(t, int64(32), v)

		_, err = coerceInt("k", float64(32.5), "int64", 64)
		assert.ErrorIs(t, err, ErrCoerce)
	})

	t.Run("UintOverflow", func(t *testing.T) {
		_, err := coerceInt("k", uint64(math.MaxUint64), "int64", 64)
		assert.ErrorIs(t, err, ErrCoerce)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := coerceInt("k", "not a number", "int64", 64)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCoerce)

		var ce *CoerceError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "k", ce.Key)
		assert.Equal(t, "int64", ce.Target)
		assert.Equal(t, "not a number", ce.Raw)
	})
}

// TestCoerceUint tests unsigned conversion, especially negative rejection
func TestCoerceUint(t *testing.T) {
	v, err := coerceUint("k", "42", "uint64", 64)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = coerceUint("k", "-1", "uint64", 64)
	assert.ErrorIs(t, err, ErrCoerce)

	_, err = coerceUint("k", int64(-1), "uint64", 64)
	assert.ErrorIs(t, err, ErrCoerce)

	_, err = coerceUint("k", "256", "uint8", 8)
	assert.ErrorIs(t, err, ErrCoerce)

	v, err = coerceUint("k", float64(255), "uint8", 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(255), v)
}

// TestCoerceFloat tests float conversion and finiteness
func TestCoerceFloat(t *testing.T) {
	v, err := coerceFloat("k", "3.25", "float64", 64)
	require.NoError(t, err)
	assert.Equal(t, 3.25, v)

	v, err = coerceFloat("k", int64(-2), "float64", 64)
	require.NoError(t, err)
	assert.Equal(t, float64(-2), v)

	for _, s := range []string{"NaN", "Inf", "-Inf", "1e999"} {
		_, err := coerceFloat("k", s, "float64", 64)
		assert.ErrorIs(t, err, ErrCoerce, s)
	}

	_, err = coerceFloat("k", math.MaxFloat64, "float32", 32)
	assert.ErrorIs(t, err, ErrCoerce)
}

// TestCoerceDuration tests the duration grammar
func TestCoerceDuration(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Duration
	}{
		{"GoSyntax", "1h30m", 90 * time.Minute},
		{"Millis", "250ms", 250 * time.Millisecond},
		{"BareDigitsAreSeconds", "90", 90 * time.Second},
		{"IntIsSeconds", int64(30), 30 * time.Second},
		{"UintIsSeconds", uint64(5), 5 * time.Second},
		{"FloatIsSeconds", 1.5, 1500 * time.Millisecond},
		{"NegativeGoSyntax", "-5s", -5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := coerceDuration("k", tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("Rejected", func(t *testing.T) {
		for _, in := range []string{"fast", "10 minutes", "-5"} {
			_, err := coerceDuration("k", in)
			assert.ErrorIs(t, err, ErrCoerce, in)
		}
	})
}

// TestCoerceString tests canonical rendering of native scalars
func TestCoerceString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{true, "true"},
		{int64(-5), "-5"},
		{uint64(7), "7"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		v, err := coerceString("k", tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v)
	}
}

// TestEmptyStringResolvesAsAbsent tests the empty-string rule: absent for
// every target except string
func TestEmptyStringResolvesAsAbsent(t *testing.T) {
	s, err := coerceString("k", "")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = coerceBool("k", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = coerceInt("k", "", "int64", 64)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = coerceUint("k", "", "uint64", 64)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = coerceFloat("k", "", "float64", 64)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = coerceDuration("k", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCoerceRoundTrip checks that formatting a number and coercing the text
// back recovers the original exactly
func TestCoerceRoundTrip(t *testing.T) {
	t.Run("Int64", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.Int64().Draw(t, "n")
			v, err := coerceInt("k", strconv.FormatInt(n, 10), "int64", 64)
			if err != nil {
				t.Fatalf("coerce %d: %v", n, err)
			}
			if v != n {
				t.Fatalf("round trip %d != %d", v, n)
			}
		})
	})

	t.Run("Uint64", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.Uint64().Draw(t, "n")
			v, err := coerceUint("k", strconv.FormatUint(n, 10), "uint64", 64)
			if err != nil {
				t.Fatalf("coerce %d: %v", n, err)
			}
			if v != n {
				t.Fatalf("round trip %d != %d", v, n)
			}
		})
	})

	t.Run("Float64", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			f := rapid.Float64().Draw(t, "f")
			v, err := coerceFloat("k", strconv.FormatFloat(f, 'g', -1, 64), "float64", 64)
			if err != nil {
				t.Fatalf("coerce %v: %v", f, err)
			}
			if v != f {
				t.Fatalf("round trip %v != %v", v, f)
			}
		})
	})

	t.Run("NarrowWidthsAgree", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.Int64Range(math.MinInt16, math.MaxInt16).Draw(t, "n")
			v, err := coerceInt("k", strconv.FormatInt(n, 10), "int16", 16)
			if err != nil {
				t.Fatalf("coerce %d: %v", n, err)
			}
			if v != n {
				t.Fatalf("round trip %d != %d", v, n)
			}
		})
	})
}
