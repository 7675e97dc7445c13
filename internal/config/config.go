// Package config loads runtime settings from defaults, an optional config
// file, INVOICE_ environment variables and command flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rezonia/invoice-renderer/internal/logger"
)

// EnvPrefix namespaces environment overrides, e.g. INVOICE_SERVER_ADDRESS
const EnvPrefix = "INVOICE"

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Log      logger.LogConfig
	Render   RenderConfig
	Fixtures FixturesConfig
}

type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

type StoreConfig struct {
	Driver string
	DSN    string
}

type RenderConfig struct {
	Language    string
	QRImageSize int
}

// FixturesConfig points the memory providers at sale and branch files
type FixturesConfig struct {
	Sales    string
	Branches string
}

// New returns a viper instance with every default registered
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.debug", false)
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("log.output", "stderr")
	v.SetDefault("render.language", "")
	v.SetDefault("render.qr_image_size", 256)
	v.SetDefault("fixtures.sales", "")
	v.SetDefault("fixtures.branches", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps command flags onto config keys. Flags without a matching
// name are ignored.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file and decodes the settings
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			Debug:        v.GetBool("server.debug"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			DSN:    v.GetString("store.dsn"),
		},
		Log: logger.LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			TimeFormat: v.GetString("log.time_format"),
			Output:     v.GetString("log.output"),
		},
		Render: RenderConfig{
			Language:    v.GetString("render.language"),
			QRImageSize: v.GetInt("render.qr_image_size"),
		},
		Fixtures: FixturesConfig{
			Sales:    v.GetString("fixtures.sales"),
			Branches: v.GetString("fixtures.branches"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Render.QRImageSize <= 0 {
		return fmt.Errorf("render.qr_image_size must be positive")
	}
	return nil
}
