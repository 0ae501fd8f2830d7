// FILE: stratacfg/strata/refresh.go
package strata

import "errors"

// Refresh re-queries every refreshable source and, if any of them changed,
// publishes a new snapshot at the next generation. Failing sources keep
// their previously captured data and their errors aggregate into the return
// value, so one unreadable file does not block fresher environment data.
// If every refreshable source fails, or nothing changed, the published
// snapshot and generation stay untouched.
//
// The returned bool reports whether a new snapshot was published. A true
// with a non-nil error means a partial refresh: some sources advanced,
// the ones named in the error did not.
func (c *Config) Refresh() (bool, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cur := c.snap.Load()
	entries := make([]*entry, len(cur.entries))
	var errs []error
	var refreshable, failed int
	changed := false

	for i, e := range cur.entries {
		entries[i] = e
		if !e.source.Refreshable() {
			continue
		}
		refreshable++
		outcome, err := e.source.TryRefresh()
		if err != nil {
			failed++
			errs = append(errs, &RefreshError{Source: e.name, Err: err})
			continue
		}
		if outcome == Changed {
			changed = true
			entries[i] = capture(e.name, e.source)
		}
	}

	if refreshable > 0 && failed == refreshable {
		// Nothing usable came back; keep serving the current snapshot.
		return false, errors.Join(errs...)
	}
	if !changed {
		return false, errors.Join(errs...)
	}

	next := &Snapshot{entries: entries, gen: cur.gen + 1}
	c.snap.Store(next)
	errs = append(errs, c.notify(next)...)
	return true, errors.Join(errs...)
}

// notify re-resolves every live handle against the freshly published
// snapshot, then runs refresh callbacks. A handle that fails to resolve
// keeps its previous value; the error surfaces to the Refresh caller only.
func (c *Config) notify(snap *Snapshot) []error {
	c.subMu.Lock()
	subs := make([]subscriber, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	hooks := make([]func(*Snapshot), 0, len(c.hooks))
	for _, h := range c.hooks {
		hooks = append(hooks, h)
	}
	c.subMu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := s.refresh(snap); err != nil {
			errs = append(errs, err)
		}
	}
	for _, h := range hooks {
		h(snap)
	}
	return errs
}

// OnRefresh subscribes fn to snapshot publications. fn runs on the
// refreshing goroutine after live handles have updated; keep it short or
// hand off. The returned cancel removes the subscription.
func (c *Config) OnRefresh(fn func(*Snapshot)) (cancel func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subID++
	id := c.subID
	c.hooks[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.hooks, id)
	}
}

func (c *Config) subscribe(s subscriber) uint64 {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subID++
	c.subs[c.subID] = s
	return c.subID
}

func (c *Config) unsubscribe(id uint64) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	delete(c.subs, id)
}
