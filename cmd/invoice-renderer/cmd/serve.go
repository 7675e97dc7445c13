package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-renderer/internal/config"
	"github.com/rezonia/invoice-renderer/internal/logger"
	"github.com/rezonia/invoice-renderer/internal/metrics"
	"github.com/rezonia/invoice-renderer/internal/provider"
	"github.com/rezonia/invoice-renderer/internal/server"
	"github.com/rezonia/invoice-renderer/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for template management and rendering.

The API provides endpoints for:
  - GET|POST /api/v1/branches/:branch/templates         - List or create templates
  - GET  /api/v1/branches/:branch/templates/active      - Active template of a branch
  - GET|PUT|DELETE /api/v1/templates/:id                - Read, update or delete a template
  - POST /api/v1/templates/:id/duplicate                - Copy a template
  - POST /api/v1/templates/:id/activate                 - Make a template the active one
  - GET  /api/v1/templates/:id/preview                  - Preview a stored template
  - POST /api/v1/preview                                - Preview an unsaved schema
  - GET  /api/v1/branches/:branch/sales/:sale/invoice   - Render a sale with the active template
  - GET  /api/v1/branches/:branch/sales/:sale/qr        - Compliance QR payload (?format=png)
  - GET  /health                                        - Health check
  - GET  /metrics                                       - Prometheus metrics

Examples:
  # Start server with in-memory templates and fixture data
  invoice-renderer serve --sales sales.yaml --branches branches.yaml

  # Persist templates in PostgreSQL
  invoice-renderer serve --store postgres --dsn "host=localhost user=invoice dbname=invoice"

  # Start in debug mode
  invoice-renderer serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", ":8080", "Server listen address")
	serveCmd.Flags().Bool("debug", false, "Enable debug mode")
	serveCmd.Flags().Duration("read-timeout", 15*time.Second, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	serveCmd.Flags().String("store", config.DriverMemory, "Template store (memory, postgres)")
	serveCmd.Flags().String("dsn", "", "PostgreSQL connection string")
	serveCmd.Flags().String("sales", "", "Sale fixtures file (JSON or YAML)")
	serveCmd.Flags().String("branches", "", "Branch fixtures file (JSON or YAML)")

	cobra.CheckErr(config.BindFlags(settings, serveCmd.Flags(), map[string]string{
		"server.address":       "address",
		"server.debug":         "debug",
		"server.read_timeout":  "read-timeout",
		"server.write_timeout": "write-timeout",
		"store.driver":         "store",
		"store.dsn":            "dsn",
		"fixtures.sales":       "sales",
		"fixtures.branches":    "branches",
	}))
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	templates, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sales, branches, err := loadProviders(cfg.Fixtures)
	if err != nil {
		return err
	}

	srv := server.NewServer(&server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Server.Debug,
		QRImageSize:  cfg.Render.QRImageSize,
	}, templates, sales, branches,
		server.WithEngine(newEngine()),
		server.WithMetrics(metrics.New()),
		server.WithLogger(logger.WithComponent("http")),
	)

	log.Info().
		Str("address", cfg.Server.Address).
		Str("store", cfg.Store.Driver).
		Int("sales", len(sales.IDs())).
		Msg("starting server")

	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// openStore returns the configured template store and its cleanup function
func openStore(ctx context.Context, c *config.Config) (store.TemplateStore, func(), error) {
	switch c.Store.Driver {
	case config.DriverPostgres:
		db, err := store.Open(c.Store.DSN, c.Server.Debug)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewGormStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return s, closeDB, nil
	case config.DriverMemory:
		return store.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
}

// loadProviders fills the in-memory sale and branch providers from fixture files
func loadProviders(f config.FixturesConfig) (*provider.MemorySales, *provider.MemoryBranches, error) {
	sales := provider.NewMemorySales()
	branches := provider.NewMemoryBranches()

	if f.Sales != "" {
		list, err := provider.LoadSalesFile(f.Sales)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range list {
			sales.Put(s)
		}
	}
	if f.Branches != "" {
		list, err := provider.LoadBranchesFile(f.Branches)
		if err != nil {
			return nil, nil, err
		}
		for _, b := range list {
			branches.Put(b)
		}
	}
	return sales, branches, nil
}
