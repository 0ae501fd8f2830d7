// FILE: stratacfg/strata/convenience_test.go
package strata_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stratacfg/strata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQuick tests the one-call setup path
func TestQuick(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "quick.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
host = "filehost"
port = 7777
`), 0644))

	os.Setenv("QUICK_HOST", "envhost")
	defer os.Unsetenv("QUICK_HOST")

	defaults := map[string]any{
		"host": "defaulthost",
		"port": 8080,
		"ssl":  false,
	}

	cfg, err := strata.Quick(defaults, "QUICK", configFile)
	require.NoError(t, err)

	t.Run("EnvWins", func(t *testing.T) {
		v, err := cfg.GetString("host")
		require.NoError(t, err)
		assert.Equal(t, "envhost", v)
	})

	t.Run("FileBeatsDefaults", func(t *testing.T) {
		v, err := cfg.GetInt("port")
		require.NoError(t, err)
		assert.Equal(t, 7777, v)
	})

	t.Run("DefaultsFillGaps", func(t *testing.T) {
		v, err := cfg.GetBool("ssl")
		require.NoError(t, err)
		assert.False(t, v)
	})

	t.Run("MissingFileIsFine", func(t *testing.T) {
		cfg, err := strata.Quick(defaults, "", filepath.Join(dir, "absent.toml"))
		require.NoError(t, err)
		v, err := cfg.GetString("host")
		require.NoError(t, err)
		assert.Equal(t, "defaulthost", v)
	})

	t.Run("MustQuick", func(t *testing.T) {
		assert.NotPanics(t, func() {
			strata.MustQuick(defaults, "QUICK", "")
		})
	})
}

// TestValidateRequiredKeys tests presence checking
func TestValidateRequiredKeys(t *testing.T) {
	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"db.dsn":  "postgres://localhost/app",
		"db.pool": 10,
	}))

	assert.NoError(t, cfg.Validate("db.dsn", "db.pool"))
	assert.NoError(t, cfg.Validate())

	err := cfg.Validate("db.dsn", "db.user", "db.password")
	require.Error(t, err)
	assert.ErrorIs(t, err, strata.ErrNotFound)
	assert.Contains(t, err.Error(), "db.user")
	assert.Contains(t, err.Error(), "db.password")
	assert.NotContains(t, err.Error(), "db.dsn")
}

// TestDebug tests the diagnostic rendering
func TestDebug(t *testing.T) {
	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("app", map[string]any{"listen": ":8080"}))
	require.NoError(t, cfg.RegisterKV("defaults", map[string]any{"listen": ":80", "mode": "dev"}))

	out := cfg.Debug()
	assert.Contains(t, out, "Precedence: app > defaults")
	assert.Contains(t, out, "Generation: 0")
	assert.Contains(t, out, "listen = :8080  (app)")
	assert.Contains(t, out, "mode = dev  (defaults)")
}

// TestDump tests resolved TOML output
func TestDump(t *testing.T) {
	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"service.name": "worker",
		"service.addr": "${service.name}.internal:9000",
		"replicas":     3,
	}))

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))

	// The dump must round-trip as TOML with placeholders expanded.
	var decoded map[string]any
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	service, ok := decoded["service"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "worker.internal:9000", service["addr"])
	assert.Equal(t, int64(3), decoded["replicas"])

	t.Run("BrokenReferenceFailsDump", func(t *testing.T) {
		cfg := strata.New()
		require.NoError(t, cfg.RegisterKV("kv", map[string]any{
			"bad": "${missing}",
		}))
		var buf bytes.Buffer
		assert.ErrorIs(t, cfg.Dump(&buf), strata.ErrUnresolved)
	})
}
