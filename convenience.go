// File: stratacfg/strata/convenience.go
package strata

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// Quick creates a fully configured Config instance with a single call:
// environment variables over an optional config file over in-memory
// defaults. This is the recommended way to initialize configuration for
// most applications.
func Quick(defaults map[string]any, envPrefix, configFile string) (*Config, error) {
	cfg := New()

	if envPrefix != "" {
		if err := cfg.RegisterEnv("env", envPrefix); err != nil {
			return nil, err
		}
	}
	if configFile != "" {
		if err := cfg.RegisterOptionalFile("file:"+configFile, configFile); err != nil {
			return nil, err
		}
	}
	if len(defaults) > 0 {
		if err := cfg.RegisterKV("defaults", defaults); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// MustQuick is like Quick but panics on error
func MustQuick(defaults map[string]any, envPrefix, configFile string) *Config {
	cfg, err := Quick(defaults, envPrefix, configFile)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Validate checks that all required keys are present in some source.
// Missing keys aggregate into the returned error.
func (c *Config) Validate(required ...string) error {
	snap := c.snap.Load()
	var errs []error
	for _, key := range required {
		if !snap.Has(normalizeKey(key)) {
			errs = append(errs, &NotFoundError{Key: normalizeKey(key)})
		}
	}
	return errors.Join(errs...)
}

// Debug returns a formatted string showing all keys with their winning raw
// values and the sources that supply them.
func (c *Config) Debug() string {
	snap := c.snap.Load()

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(fmt.Sprintf("Precedence: %s\n", strings.Join(snap.SourceNames(), " > ")))
	b.WriteString(fmt.Sprintf("Generation: %d\n", snap.Generation()))
	b.WriteString("Raw values:\n")

	for _, key := range snap.Keys() {
		raw, origin, _ := snap.lookupRaw(key)
		b.WriteString(fmt.Sprintf("  %s = %v  (%s)\n", key, raw, origin))
	}

	return b.String()
}

// Dump writes the fully resolved configuration to w in TOML format. Every
// placeholder expands, so a dump doubles as a resolution check.
func (c *Config) Dump(w io.Writer) error {
	snap := c.snap.Load()
	tree, err := c.resolvedTree(snap, "")
	if err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(tree)
}
