// FILE: stratacfg/strata/config.go
package strata

import (
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

// Config aggregates named sources into one hierarchical key space with
// deterministic precedence: sources registered earlier win. Reads run
// against an immutable published snapshot, so a batch of gets stays
// internally consistent while Refresh prepares the next generation.
type Config struct {
	mu    sync.Mutex // serializes registration
	names map[string]struct{}

	snap      atomic.Pointer[Snapshot]
	refreshMu sync.Mutex // one refresh cycle at a time

	subMu sync.Mutex
	subID uint64
	subs  map[uint64]subscriber
	hooks map[uint64]func(*Snapshot)

	watchMu sync.Mutex
	watcher *watcher

	tagName  string
	validate *validator.Validate
}

// subscriber is the controller-side view of a live value handle. The Config
// holds only this map entry, never the handle itself; Ref.Close removes the
// entry and the handle's lifetime stays with its owner.
type subscriber interface {
	refresh(snap *Snapshot) error
}

// Option adjusts Config construction.
type Option func(*Config)

// WithTagName sets the struct tag consulted by Bind. Default is "config".
func WithTagName(tag string) Option {
	return func(c *Config) { c.tagName = tag }
}

// WithValidation runs go-playground/validator struct checks after Bind.
func WithValidation() Option {
	return func(c *Config) { c.validate = validator.New() }
}

// New returns an empty Config at generation zero.
func New(opts ...Option) *Config {
	c := &Config{
		names:   make(map[string]struct{}),
		subs:    make(map[uint64]subscriber),
		hooks:   make(map[uint64]func(*Snapshot)),
		tagName: "config",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snap.Store(&Snapshot{})
	return c
}

// Register adds src under a unique name at the next (lower) priority slot
// and captures its data into the published snapshot. Registration does not
// bump the generation; only Refresh does.
func (c *Config) Register(name string, src Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.names[name]; dup {
		return &DuplicateSourceError{Name: name}
	}
	c.names[name] = struct{}{}

	cur := c.snap.Load()
	entries := make([]*entry, len(cur.entries)+1)
	copy(entries, cur.entries)
	entries[len(cur.entries)] = capture(name, src)
	c.snap.Store(&Snapshot{entries: entries, gen: cur.gen})
	return nil
}

// RegisterKV adds an in-memory source; nested maps and slices flatten into
// dot and index form.
func (c *Config) RegisterKV(name string, values map[string]any) error {
	return c.Register(name, NewKVSource(values))
}

// RegisterEnv adds a source backed by environment variables carrying prefix.
func (c *Config) RegisterEnv(name, prefix string) error {
	return c.Register(name, NewEnvSource(prefix))
}

// RegisterFile adds a configuration file. The format comes from the
// extension, falling back to content sniffing.
func (c *Config) RegisterFile(name, path string) error {
	src, err := NewFileSource(path)
	if err != nil {
		return err
	}
	return c.Register(name, src)
}

// RegisterOptionalFile is RegisterFile for a path that may not exist yet.
// A missing file contributes nothing until a refresh finds it.
func (c *Config) RegisterOptionalFile(name, path string) error {
	src, err := NewOptionalFileSource(path)
	if err != nil {
		return err
	}
	return c.Register(name, src)
}

// RegisterBytes adds an in-memory document, typically embedded defaults.
func (c *Config) RegisterBytes(name, format string, data []byte) error {
	src, err := NewBytesSource(format, data)
	if err != nil {
		return err
	}
	return c.Register(name, src)
}

// RegisterRandom adds the random.* value namespace.
func (c *Config) RegisterRandom(name string) error {
	return c.Register(name, NewRandomSource())
}

// Snapshot returns the currently published view. The result is immutable;
// a concurrent Refresh publishes a replacement without disturbing it.
func (c *Config) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Get returns the fully expanded value for key: highest-priority raw value,
// placeholders substituted. The dynamic type is whatever the winning source
// captured (string, bool, int64, uint64, float64), with placeholder results
// always strings.
func (c *Config) Get(key string) (any, error) {
	return c.resolveIn(c.snap.Load(), normalizeKey(key))
}

// Exists reports whether key is present in any source, as a leaf or as a
// prefix of deeper keys. Placeholders are not expanded.
func (c *Config) Exists(key string) bool {
	return c.snap.Load().Has(key)
}

// Keys returns the sorted union of flattened keys across all sources.
func (c *Config) Keys() []string {
	return c.snap.Load().Keys()
}

// SourceNames lists registered sources in priority order, strongest first.
func (c *Config) SourceNames() []string {
	return c.snap.Load().SourceNames()
}

// Origin reports which source supplies the winning raw value for key.
func (c *Config) Origin(key string) (string, bool) {
	_, name, ok := c.snap.Load().lookupRaw(normalizeKey(key))
	return name, ok
}

// resolveIn resolves one leaf against a specific snapshot: priority lookup,
// then placeholder expansion.
func (c *Config) resolveIn(snap *Snapshot, key string) (any, error) {
	raw, _, ok := snap.lookupRaw(key)
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return expand(snap, key, raw)
}
