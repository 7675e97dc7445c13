package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-renderer/internal/config"
	"github.com/rezonia/invoice-renderer/internal/logger"
	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/render"
)

var (
	version = "1.0.0"

	// Global flags
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	settings = config.New()
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "invoice-renderer",
	Short: "Render point-of-sale invoices from template schemas",
	Long: `Invoice Renderer turns a template schema and a sale into print-ready HTML.

Supports:
  - Paper sizes: 58mm and 80mm thermal rolls, A4 and custom widths
  - Configurable sections: header, title, customer, metadata, items, summary, footer
  - Compliance QR codes (TLV, SHA-256 digest, Base64)

Examples:
  # Start the HTTP API
  invoice-renderer serve --sales sales.yaml --branches branches.yaml

  # Render every sale in a file with one schema
  invoice-renderer render --schema receipt.yaml --branch branch.yaml sales.json -d out/

  # Preview a schema with placeholder data
  invoice-renderer preview --schema receipt.yaml -o preview.html

  # Validate schema files
  invoice-renderer validate templates/*.yaml`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (env: INVOICE_*)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	cobra.CheckErr(config.BindFlags(settings, rootCmd.PersistentFlags(), map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	}))
}

func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(settings, cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	if err := logger.Setup(loaded.Log); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newEngine builds a render engine from the loaded settings
func newEngine() *render.Engine {
	opts := []render.Option{render.WithLogger(logger.WithComponent("render"))}
	if cfg != nil {
		opts = append(opts,
			render.WithQRImageSize(cfg.Render.QRImageSize),
			render.WithDefaultLanguage(cfg.Render.Language),
		)
	}
	return render.NewEngine(opts...)
}

// checkOwner rejects sales that belong to a branch other than the seller
func checkOwner(sale *model.Sale, branch *model.Branch) error {
	if sale.BranchID != "" && sale.BranchID != branch.ID {
		return fmt.Errorf("sale %s belongs to branch %s, not %s", sale.ID, sale.BranchID, branch.ID)
	}
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// writeOutput writes data to path, or to stdout when path is empty
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
