package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-renderer/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 256, cfg.Render.QRImageSize)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("INVOICE_SERVER_ADDRESS", ":9090")
	t.Setenv("INVOICE_STORE_DRIVER", "postgres")
	t.Setenv("INVOICE_STORE_DSN", "postgres://localhost/invoices")
	t.Setenv("INVOICE_SERVER_READ_TIMEOUT", "3s")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/invoices", cfg.Store.DSN)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":7070"
  debug: true
log:
  format: json
fixtures:
  sales: testdata/sales.json
`), 0o600))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "testdata/sales.json", cfg.Fixtures.Sales)
}

func TestLoad_Flags(t *testing.T) {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("addr", ":8080", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--addr", ":6060", "--log-level", "debug"}))

	v := config.New()
	require.NoError(t, config.BindFlags(v, flags, map[string]string{
		"server.address": "addr",
		"log.level":      "log-level",
		"store.dsn":      "missing-flag",
	}))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"INVOICE_STORE_DRIVER": "sqlite"}},
		{"postgres without dsn", map[string]string{"INVOICE_STORE_DRIVER": "postgres"}},
		{"zero qr size", map[string]string{"INVOICE_RENDER_QR_IMAGE_SIZE": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(config.New(), "")
			assert.Error(t, err)
		})
	}

	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
