// File: stratacfg/strata/doc.go

// Package strata provides layered configuration resolution for Go
// applications: named sources with deterministic precedence, placeholder
// expansion, typed coercion, and atomic refresh with live value handles.
//
// Features:
//   - Multiple named sources (files, environment, in-memory, random) with
//     registration-order precedence
//   - ${key:default} placeholder expansion with cycle detection
//   - Lazy defaults: a default only evaluates when its key is absent
//   - TOML, YAML, JSON and INI files with format detection
//   - Typed getters with strict coercion that never truncates or wraps
//   - Struct binding via mapstructure tags, optional validator checks
//   - Immutable snapshots: reads stay consistent while Refresh publishes
//     the next generation
//   - Live Ref[T] handles that re-resolve on every refresh
//   - fsnotify-backed auto-refresh for file sources
//
// Quick Start:
//
//	cfg, err := strata.NewBuilder().
//	    WithEnvPrefix("MYAPP").
//	    WithFile("config.toml").
//	    WithDefaults(strata.FormatTOML, defaultsTOML).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.GetString("server.host")
//	port, _ := cfg.GetInt("server.port")
//
// Precedence (highest to lowest):
//  1. Explicit overrides (Set)
//  2. Random namespace (WithRandom)
//  3. Environment variables (MYAPP_SERVER_PORT=9090)
//  4. Custom sources (WithSource)
//  5. Configuration files, profile variant above its base
//  6. Embedded defaults
//
// Placeholders:
// String values may reference other keys: "${db.host}:${db.port:5432}".
// References resolve against the whole layered key space, so an
// environment variable can redirect a file value and vice versa. A key
// that participates in its own expansion is a cycle error, reported with
// the full chain.
//
// Thread Safety:
// All operations are safe for concurrent use. Reads resolve against an
// immutable snapshot and never block; Refresh prepares the next snapshot
// aside and publishes it atomically.
package strata
