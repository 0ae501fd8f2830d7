// FILE: stratacfg/strata/random.go
package strata

import (
	"encoding/binary"
	"encoding/hex"
	"math/rand/v2"
	"sort"
)

// randKind identifies one generated-value shape under the random.* namespace.
type randKind int

const (
	randU8 randKind = iota
	randU16
	randU32
	randU64
	randUint
	randI8
	randI16
	randI32
	randI64
	randInt
	randString
)

var randKinds = map[string]randKind{
	"random.u8":     randU8,
	"random.u16":    randU16,
	"random.u32":    randU32,
	"random.u64":    randU64,
	"random.uint":   randUint,
	"random.i8":     randI8,
	"random.i16":    randI16,
	"random.i32":    randI32,
	"random.i64":    randI64,
	"random.int":    randInt,
	"random.string": randString,
}

// randValue is the marker a randomSource stores. Snapshots hold the marker,
// not a number; the resolver draws on every resolution, so two reads of the
// same key yield independent values within the kind's range.
type randValue struct {
	kind randKind
}

func (r randValue) draw() any {
	switch r.kind {
	case randU8:
		return rand.Uint64N(1 << 8)
	case randU16:
		return rand.Uint64N(1 << 16)
	case randU32:
		return rand.Uint64N(1 << 32)
	case randU64, randUint:
		return rand.Uint64()
	case randI8:
		return rand.Int64N(1<<8) - 1<<7
	case randI16:
		return rand.Int64N(1<<16) - 1<<15
	case randI32:
		return rand.Int64N(1<<32) - 1<<31
	case randString:
		var b [16]byte
		binary.LittleEndian.PutUint64(b[:8], rand.Uint64())
		binary.LittleEndian.PutUint64(b[8:], rand.Uint64())
		return hex.EncodeToString(b[:])
	default:
		return int64(rand.Uint64())
	}
}

// randomSource exposes the random.* keys. Useful for ephemeral ports and
// jitter without plumbing a generator through application code.
type randomSource struct{}

// NewRandomSource builds the source backing the random.* namespace.
func NewRandomSource() Source {
	return randomSource{}
}

func (randomSource) GetRaw(key string) (any, bool) {
	kind, ok := randKinds[key]
	if !ok {
		return nil, false
	}
	return randValue{kind: kind}, true
}

func (randomSource) Keys() []string {
	keys := make([]string, 0, len(randKinds))
	for k := range randKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (randomSource) Refreshable() bool { return false }

func (randomSource) TryRefresh() (Outcome, error) { return Unchanged, nil }
