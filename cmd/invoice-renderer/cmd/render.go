package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-renderer/internal/logger"
	"github.com/rezonia/invoice-renderer/internal/provider"
	"github.com/rezonia/invoice-renderer/internal/schema"
	"github.com/rezonia/invoice-renderer/pkg/invoicerender"
)

var (
	schemaFile  string
	branchFile  string
	outputDir   string
	concurrency int
)

var renderCmd = &cobra.Command{
	Use:   "render [sale files...]",
	Short: "Render sales into invoice HTML",
	Long: `Render every sale found in the given fixture files with one template schema.

Each sale is written to <dir>/<sale id>.html. Sales are rendered concurrently
and independently; the first failure stops the batch.

Examples:
  invoice-renderer render --schema receipt.yaml --branch branch.yaml sales.json
  invoice-renderer render --schema a4.json --branch branch.json day1.yaml day2.yaml -d out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&schemaFile, "schema", "", "Template schema file (JSON or YAML)")
	renderCmd.Flags().StringVar(&branchFile, "branch", "", "Branch fixture file (JSON or YAML)")
	renderCmd.Flags().StringVarP(&outputDir, "dir", "d", ".", "Output directory")
	renderCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel renders (default: number of CPUs)")
	_ = renderCmd.MarkFlagRequired("schema")
	_ = renderCmd.MarkFlagRequired("branch")
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}
	branch, err := provider.LoadBranch(branchFile)
	if err != nil {
		return err
	}

	var sales []*invoicerender.Sale
	for _, file := range args {
		list, err := provider.LoadSalesFile(file)
		if err != nil {
			return err
		}
		for i := range list {
			if err := checkOwner(&list[i], branch); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			sales = append(sales, &list[i])
		}
	}
	if len(sales) == 0 {
		return fmt.Errorf("no sales found to render")
	}
	printVerbose("Rendering %d sales\n", len(sales))

	results, err := invoicerender.RenderBatchWithOptions(cmd.Context(), newEngine(), s, branch, sales,
		invoicerender.BatchOptions{Concurrency: concurrency})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	log := logger.WithComponent("render")
	for i, res := range results {
		for _, w := range res.Warnings {
			log.Warn().Str("sale_id", sales[i].ID).Msg(w)
		}
		path := filepath.Join(outputDir, fileName(sales[i].ID)+".html")
		if err := writeOutput(path, []byte(res.Markup)); err != nil {
			return err
		}
		printVerbose("  %s -> %s\n", sales[i].ID, path)
	}

	fmt.Printf("Rendered %d invoices to %s\n", len(results), outputDir)
	return nil
}

func loadSchema(path string) (*invoicerender.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	s, err := schema.Parse(data, schema.FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName keeps sale ids from escaping the output directory
func fileName(id string) string {
	name := unsafeName.ReplaceAllString(id, "_")
	if name == "" || name == "." || name == ".." {
		return "sale"
	}
	return name
}
