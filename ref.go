// FILE: stratacfg/strata/ref.go
package strata

import "sync"

// Ref is a live typed handle on one key. It holds the last successfully
// resolved value and re-resolves on every published refresh, so hot paths
// read a cached value instead of walking sources. If resolution fails after
// a refresh the previous value stays in place and the error goes to the
// Refresh caller.
//
// T may be any shape the typed getters support, or a struct, in which case
// the handle re-binds the key's subtree.
type Ref[T any] struct {
	cfg *Config
	key string
	id  uint64

	mu  sync.RWMutex
	val T
}

// NewRef resolves key once and subscribes the handle to future refreshes.
// The caller owns the handle; Close detaches it from the Config.
func NewRef[T any](c *Config, key string) (*Ref[T], error) {
	key = normalizeKey(key)
	v, err := getAs[T](c, c.snap.Load(), key)
	if err != nil {
		return nil, err
	}
	r := &Ref[T]{cfg: c, key: key, val: v}
	r.id = c.subscribe(r)
	return r, nil
}

// Get returns the current value.
func (r *Ref[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.val
}

// Key returns the key the handle tracks.
func (r *Ref[T]) Key() string {
	return r.key
}

// Close detaches the handle; later refreshes no longer update it.
func (r *Ref[T]) Close() {
	r.cfg.unsubscribe(r.id)
}

func (r *Ref[T]) refresh(snap *Snapshot) error {
	v, err := getAs[T](r.cfg, snap, r.key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.val = v
	r.mu.Unlock()
	return nil
}
