// FILE: stratacfg/strata/bind_test.go
package strata_test

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stratacfg/strata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBindStruct tests decoding a resolved subtree into tagged structs
func TestBindStruct(t *testing.T) {
	type tlsConfig struct {
		Enabled bool   `config:"enabled"`
		Cert    string `config:"cert"`
	}
	type serverConfig struct {
		Host    string        `config:"host"`
		Port    int           `config:"port"`
		Timeout time.Duration `config:"timeout"`
		TLS     tlsConfig     `config:"tls"`
	}

	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"server": map[string]any{
			"host":    "localhost",
			"port":    "8080",
			"timeout": "45s",
			"tls": map[string]any{
				"enabled": true,
				"cert":    "/etc/ssl/cert.pem",
			},
		},
	}))

	var sc serverConfig
	require.NoError(t, cfg.Bind("server", &sc))
	assert.Equal(t, serverConfig{
		Host:    "localhost",
		Port:    8080,
		Timeout: 45 * time.Second,
		TLS:     tlsConfig{Enabled: true, Cert: "/etc/ssl/cert.pem"},
	}, sc)
}

// TestBindResolvesPlaceholders tests that references expand before decoding
func TestBindResolvesPlaceholders(t *testing.T) {
	type appConfig struct {
		Addr string `config:"addr"`
	}

	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"app.addr": "${net.host}:${net.port:9000}",
		"net.host": "svc.internal",
	}))

	var ac appConfig
	require.NoError(t, cfg.Bind("app", &ac))
	assert.Equal(t, "svc.internal:9000", ac.Addr)
}

// TestBindSlices tests indexed subtrees and comma-separated strings
func TestBindSlices(t *testing.T) {
	type peer struct {
		Name string `config:"name"`
		Port int    `config:"port"`
	}
	type cluster struct {
		Peers []peer   `config:"peers"`
		Tags  []string `config:"tags"`
		Sizes []int    `config:"sizes"`
	}

	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"cluster": map[string]any{
			"peers": []any{
				map[string]any{"name": "a", "port": 1},
				map[string]any{"name": "b", "port": 2},
			},
			"tags":  "red,green,blue",
			"sizes": []any{10, 20},
		},
	}))

	var cl cluster
	require.NoError(t, cfg.Bind("cluster", &cl))
	assert.Equal(t, []peer{{Name: "a", Port: 1}, {Name: "b", Port: 2}}, cl.Peers)
	assert.Equal(t, []string{"red", "green", "blue"}, cl.Tags)
	assert.Equal(t, []int{10, 20}, cl.Sizes)
}

// TestBindNetworkTypes tests the IP, CIDR, URL and timestamp decode hooks
func TestBindNetworkTypes(t *testing.T) {
	type netConfig struct {
		Bind     net.IP     `config:"bind"`
		Allow    *net.IPNet `config:"allow"`
		Upstream url.URL    `config:"upstream"`
		Since    time.Time  `config:"since"`
	}

	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"net": map[string]any{
			"bind":     "10.0.0.1",
			"allow":    "10.0.0.0/8",
			"upstream": "https://api.example.com/v1",
			"since":    "2024-06-01T10:00:00Z",
		},
	}))

	var nc netConfig
	require.NoError(t, cfg.Bind("net", &nc))
	assert.True(t, nc.Bind.Equal(net.ParseIP("10.0.0.1")))
	require.NotNil(t, nc.Allow)
	assert.Equal(t, "10.0.0.0/8", nc.Allow.String())
	assert.Equal(t, "api.example.com", nc.Upstream.Host)
	assert.Equal(t, 2024, nc.Since.Year())

	t.Run("InvalidIP", func(t *testing.T) {
		cfg := strata.New()
		require.NoError(t, cfg.RegisterKV("kv", map[string]any{"bind": "not-an-ip"}))
		var out struct {
			Bind net.IP `config:"bind"`
		}
		assert.Error(t, cfg.Bind("", &out))
	})
}

// TestBindValidation tests validator integration on struct targets
func TestBindValidation(t *testing.T) {
	type dbConfig struct {
		DSN      string `config:"dsn" validate:"required"`
		PoolSize int    `config:"pool_size" validate:"min=1,max=100"`
	}

	t.Run("Passes", func(t *testing.T) {
		cfg := strata.New(strata.WithValidation())
		require.NoError(t, cfg.RegisterKV("kv", map[string]any{
			"db.dsn":       "postgres://localhost/app",
			"db.pool_size": 10,
		}))
		var dc dbConfig
		assert.NoError(t, cfg.Bind("db", &dc))
	})

	t.Run("FailsRequired", func(t *testing.T) {
		cfg := strata.New(strata.WithValidation())
		require.NoError(t, cfg.RegisterKV("kv", map[string]any{
			"db.pool_size": 10,
		}))
		var dc dbConfig
		err := cfg.Bind("db", &dc)
		assert.ErrorIs(t, err, strata.ErrValidation)
	})

	t.Run("FailsRange", func(t *testing.T) {
		cfg := strata.New(strata.WithValidation())
		require.NoError(t, cfg.RegisterKV("kv", map[string]any{
			"db.dsn":       "postgres://localhost/app",
			"db.pool_size": 500,
		}))
		var dc dbConfig
		assert.ErrorIs(t, cfg.Bind("db", &dc), strata.ErrValidation)
	})

	t.Run("SkippedWithoutOption", func(t *testing.T) {
		cfg := strata.New()
		require.NoError(t, cfg.RegisterKV("kv", map[string]any{
			"db.pool_size": 500,
		}))
		var dc dbConfig
		assert.NoError(t, cfg.Bind("db", &dc))
	})
}

// TestBindCustomTag tests renaming the struct tag
func TestBindCustomTag(t *testing.T) {
	type out struct {
		Value string `conf:"value"`
	}

	cfg := strata.New(strata.WithTagName("conf"))
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{"box.value": "x"}))

	var o out
	require.NoError(t, cfg.Bind("box", &o))
	assert.Equal(t, "x", o.Value)
}

// TestBindTargetErrors tests rejection of non-pointer targets
func TestBindTargetErrors(t *testing.T) {
	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{"a": 1}))

	var out struct{}
	assert.Error(t, cfg.Bind("", out))

	var nilPtr *struct{}
	assert.Error(t, cfg.Bind("", nilPtr))
}

// TestBindEmptyPrefix tests decoding a missing subtree into the zero value
func TestBindEmptyPrefix(t *testing.T) {
	type out struct {
		Value string `config:"value"`
	}

	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{"other": 1}))

	var o out
	require.NoError(t, cfg.Bind("nothing.here", &o))
	assert.Equal(t, out{}, o)
}

// TestFromPrefix tests the generic constructors
func TestFromPrefix(t *testing.T) {
	type logConfig struct {
		Level  string `config:"level"`
		Pretty bool   `config:"pretty"`
	}
	type rootConfig struct {
		Name string    `config:"name"`
		Log  logConfig `config:"log"`
	}

	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"name":       "demo",
		"log.level":  "debug",
		"log.pretty": true,
	}))

	lc, err := strata.FromPrefix[logConfig](cfg, "log")
	require.NoError(t, err)
	assert.Equal(t, logConfig{Level: "debug", Pretty: true}, lc)

	rc, err := strata.FromConfig[rootConfig](cfg)
	require.NoError(t, err)
	assert.Equal(t, rootConfig{Name: "demo", Log: logConfig{Level: "debug", Pretty: true}}, rc)
}

// TestBindSurfacesResolutionErrors tests that a broken leaf under the prefix
// fails the whole bind
func TestBindSurfacesResolutionErrors(t *testing.T) {
	cfg := strata.New()
	require.NoError(t, cfg.RegisterKV("kv", map[string]any{
		"app.good": "fine",
		"app.bad":  "${missing.key}",
	}))

	var out struct {
		Good string `config:"good"`
	}
	err := cfg.Bind("app", &out)
	assert.ErrorIs(t, err, strata.ErrUnresolved)
}
