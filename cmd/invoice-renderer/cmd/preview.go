package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-renderer/internal/provider"
	"github.com/rezonia/invoice-renderer/pkg/invoicerender"
)

var (
	previewSchema string
	previewBranch string
	previewOutput string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a schema with placeholder data",
	Long: `Render a template schema against the sample sale and print the HTML.

The sample seller is used unless --branch names a branch fixture.

Examples:
  invoice-renderer preview --schema receipt.yaml
  invoice-renderer preview --schema a4.json --branch branch.yaml -o preview.html`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewSchema, "schema", "", "Template schema file (JSON or YAML)")
	previewCmd.Flags().StringVar(&previewBranch, "branch", "", "Branch fixture file (default: sample seller)")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Output file (default: stdout)")
	_ = previewCmd.MarkFlagRequired("schema")
}

func runPreview(cmd *cobra.Command, args []string) error {
	s, err := loadSchema(previewSchema)
	if err != nil {
		return err
	}

	var branch *invoicerender.Branch
	if previewBranch != "" {
		if branch, err = provider.LoadBranch(previewBranch); err != nil {
			return err
		}
	}

	res, err := newEngine().RenderPreviewWithBranch(s, branch)
	if err != nil {
		return err
	}
	return writeOutput(previewOutput, []byte(res.Markup))
}
