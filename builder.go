// File: stratacfg/strata/builder.go
package strata

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatorFunc defines the signature for a function that can validate a
// built Config. It receives the fully assembled *Config and should return
// an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for assembling a Config with the
// conventional layering, strongest first:
//
//	explicit overrides > random > environment > custom sources >
//	profile files > files > embedded defaults
//
// Within one layer, earlier additions win.
type Builder struct {
	opts       []Option
	overrides  []override
	random     bool
	envPrefix  string
	sources    []namedSource
	files      []builderFile
	profile    string
	defaults   []embeddedDoc
	validators []ValidatorFunc
	err        error
}

type override struct {
	key   string
	value string
}

type namedSource struct {
	name string
	src  Source
}

type builderFile struct {
	path     string
	optional bool
}

type embeddedDoc struct {
	format string
	data   []byte
}

// NewBuilder creates a new configuration builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Set records an explicit override for key. Overrides sit above every other
// layer and suit CLI flags and test fixtures.
func (b *Builder) Set(key, value string) *Builder {
	b.overrides = append(b.overrides, override{key: key, value: value})
	return b
}

// WithRandom layers the random.* value namespace.
func (b *Builder) WithRandom() *Builder {
	b.random = true
	return b
}

// WithEnvPrefix layers environment variables carrying prefix.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	return b
}

// WithFile layers a configuration file. The file must exist at Build time.
func (b *Builder) WithFile(path string) *Builder {
	b.files = append(b.files, builderFile{path: path})
	return b
}

// WithOptionalFile layers a configuration file that may not exist yet.
func (b *Builder) WithOptionalFile(path string) *Builder {
	b.files = append(b.files, builderFile{path: path, optional: true})
	return b
}

// WithProfile layers the profile variant of every file above its base:
// config.toml gains config-prod.toml for profile "prod". Profile files are
// always optional.
func (b *Builder) WithProfile(profile string) *Builder {
	b.profile = profile
	return b
}

// WithSource layers a custom source between the environment and file layers.
func (b *Builder) WithSource(name string, src Source) *Builder {
	b.sources = append(b.sources, namedSource{name: name, src: src})
	return b
}

// WithDefaults layers an embedded document (go:embed friendly) below every
// other source.
func (b *Builder) WithDefaults(format string, data []byte) *Builder {
	b.defaults = append(b.defaults, embeddedDoc{format: format, data: data})
	return b
}

// WithKV layers an in-memory map as a custom source.
func (b *Builder) WithKV(name string, values map[string]any) *Builder {
	return b.WithSource(name, NewKVSource(values))
}

// WithTagName sets the struct tag consulted by Bind.
func (b *Builder) WithTagName(tag string) *Builder {
	b.opts = append(b.opts, WithTagName(tag))
	return b
}

// WithValidation enables struct validation on Bind targets.
func (b *Builder) WithValidation() *Builder {
	b.opts = append(b.opts, WithValidation())
	return b
}

// WithValidator adds a validation function that runs at the end of the
// build. Multiple validators execute in the order they were added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build registers all layers in precedence order and returns the Config.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := New(b.opts...)

	if len(b.overrides) > 0 {
		flat := make(map[string]string, len(b.overrides))
		for _, o := range b.overrides {
			flat[o.key] = o.value
		}
		if err := c.Register("override", NewKVFlatSource(flat)); err != nil {
			return nil, err
		}
	}
	if b.random {
		if err := c.RegisterRandom("random"); err != nil {
			return nil, err
		}
	}
	if b.envPrefix != "" {
		if err := c.RegisterEnv("env", b.envPrefix); err != nil {
			return nil, err
		}
	}
	for _, s := range b.sources {
		if err := c.Register(s.name, s.src); err != nil {
			return nil, err
		}
	}
	for _, f := range b.files {
		if b.profile != "" {
			pp := profilePath(f.path, b.profile)
			if err := c.RegisterOptionalFile("file:"+pp, pp); err != nil {
				return nil, err
			}
		}
		name := "file:" + f.path
		var err error
		if f.optional {
			err = c.RegisterOptionalFile(name, f.path)
		} else {
			err = c.RegisterFile(name, f.path)
		}
		if err != nil {
			return nil, err
		}
	}
	for i, d := range b.defaults {
		name := "defaults"
		if i > 0 {
			name = fmt.Sprintf("defaults:%d", i)
		}
		if err := c.RegisterBytes(name, d.format, d.data); err != nil {
			return nil, err
		}
	}

	for _, validator := range b.validators {
		if err := validator(c); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return c, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndBind builds, then decodes the whole key space into target.
func (b *Builder) BuildAndBind(target any) (*Config, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := cfg.Bind("", target); err != nil {
		return nil, fmt.Errorf("failed to bind final config into target: %w", err)
	}
	return cfg, nil
}

// profilePath derives the profile variant: config.toml becomes
// config-prod.toml for profile "prod".
func profilePath(path, profile string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + profile + ext
}
