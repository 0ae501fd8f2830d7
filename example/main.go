// FILE: stratacfg/strata/example/main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/stratacfg/strata"
)

// AppConfig defines a richer configuration structure to showcase more features.
type AppConfig struct {
	Server struct {
		Host string `config:"host"`
		Port int    `config:"port"`
		Addr string `config:"addr"`
	} `config:"server"`
	Database struct {
		URL         string        `config:"url" validate:"required"`
		MaxConns    int           `config:"max_conns"`
		IdleTimeout time.Duration `config:"idle_timeout"`
	} `config:"database"`
	Tags []string `config:"tags"`
}

const configFilePath = "config.toml"

const initialConfig = `
tags = "demo,layered"

[server]
host = "localhost"
port = 8080
addr = "${server.host}:${server.port}"

[database]
url = "postgres://${server.host}:5432/app"
max_conns = 10
idle_timeout = "30s"
`

const updatedConfig = `
tags = "demo,layered,reloaded"

[server]
host = "0.0.0.0"
port = 9090
addr = "${server.host}:${server.port}"

[database]
url = "postgres://${server.host}:5432/app"
max_conns = 50
idle_timeout = "1m"
`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Create a clean config.toml file on disk for our program to read.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating initial configuration file...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(configFilePath)
		os.Unsetenv("APP_SERVER_PORT")
		log.Printf("Removed %s and unset APP_SERVER_PORT.", configFilePath)
	}()

	if err := os.WriteFile(configFilePath, []byte(initialConfig), 0o644); err != nil {
		log.Fatalf("❌ Failed during initial file creation: %v", err)
	}
	log.Printf("✅ Initial configuration saved to %s.", configFilePath)

	// =========================================================================
	// PART 2: LAYERED SOURCES WITH THE BUILDER
	// Environment variables override the file; the file overrides defaults.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Building the layered configuration...")

	os.Setenv("APP_SERVER_PORT", "8888")
	log.Println("   (Set environment variable APP_SERVER_PORT=8888)")

	cfg, err := strata.NewBuilder().
		WithRandom().
		WithEnvPrefix("APP").
		WithFile(configFilePath).
		WithValidation().
		Build()
	if err != nil {
		log.Fatalf("❌ Failed to build config: %v", err)
	}

	port, _ := cfg.GetInt("server.port")
	origin, _ := cfg.Origin("server.port")
	log.Printf("✅ server.port = %d (supplied by %q, env beats file)", port, origin)

	// =========================================================================
	// PART 3: PLACEHOLDERS AND TYPED ACCESS
	// server.addr stitches itself together from other keys, across sources.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Resolving placeholders and typed values...")

	addr, err := cfg.GetString("server.addr")
	if err != nil {
		log.Fatalf("❌ Failed to resolve server.addr: %v", err)
	}
	log.Printf("✅ server.addr = %q (expanded from ${server.host}:${server.port})", addr)

	idle, _ := cfg.GetDuration("database.idle_timeout")
	tags, _ := cfg.GetStringSlice("tags")
	token, _ := cfg.GetString("random.string")
	log.Printf("✅ idle_timeout = %v, tags = %v, random token = %s", idle, tags, token)

	// =========================================================================
	// PART 4: STRUCT BINDING
	// Decode the whole key space into a typed struct, validated.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Binding into a struct...")

	app, err := strata.FromConfig[AppConfig](cfg)
	if err != nil {
		log.Fatalf("❌ Failed to bind config: %v", err)
	}
	log.Printf("✅ Bound: server=%s db_conns=%d idle=%v", app.Server.Addr, app.Database.MaxConns, app.Database.IdleTimeout)

	// =========================================================================
	// PART 5: LIVE UPDATES
	// A Ref handle follows the file through refreshes; the watcher drives it.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 5: Watching for changes...")

	maxConns, err := strata.NewRef[int](cfg, "database.max_conns")
	if err != nil {
		log.Fatalf("❌ Failed to create ref: %v", err)
	}
	defer maxConns.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updated := make(chan struct{}, 1)
	unsubscribe := cfg.OnRefresh(func(snap *strata.Snapshot) {
		select {
		case updated <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	opts := strata.DefaultWatchOptions()
	opts.Debounce = 50 * time.Millisecond
	if err := cfg.WatchWithOptions(ctx, opts); err != nil {
		log.Fatalf("❌ Failed to start watcher: %v", err)
	}
	defer cfg.StopWatch()

	log.Printf("   max_conns before update: %d", maxConns.Get())
	log.Println("   (Rewriting config.toml on disk...)")
	if err := os.WriteFile(configFilePath, []byte(updatedConfig), 0o644); err != nil {
		log.Fatalf("❌ Failed to update config file: %v", err)
	}

	select {
	case <-updated:
		log.Printf("✅ Refreshed to generation %d; max_conns now: %d", cfg.Snapshot().Generation(), maxConns.Get())
		addr, _ = cfg.GetString("server.addr")
		log.Printf("✅ server.addr now: %q (port still pinned by the environment)", addr)
	case <-time.After(5 * time.Second):
		log.Println("❌ Timed out waiting for the refresh.")
	}
}
