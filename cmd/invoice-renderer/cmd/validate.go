package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

var validateJSON bool

// ValidationResult is the outcome for one schema file
type ValidationResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Field string `json:"field,omitempty"`
	Error string `json:"error,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [schema files...]",
	Short: "Validate template schema files",
	Long: `Validate one or more template schema files.

Checks performed:
  - Known paper size, custom width within bounds
  - Known section kinds with unique ids
  - Summary fields with known keys and visibility rules

Examples:
  invoice-renderer validate receipt.yaml
  invoice-renderer validate templates/*.json --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print results as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	results := make([]ValidationResult, 0, len(args))
	invalid := 0
	for _, file := range args {
		r := validateFile(file)
		if !r.Valid {
			invalid++
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if validateJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID\n", r.File)
				continue
			}
			fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
			fmt.Fprintf(out, "  - %s\n", r.Error)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d schema files are invalid", invalid, len(results))
	}
	return nil
}

func validateFile(path string) ValidationResult {
	r := ValidationResult{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		r.Error = fmt.Sprintf("failed to read file: %v", err)
		return r
	}
	if _, err := schema.Parse(data, schema.FormatForPath(path)); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			r.Field = ve.Field
		}
		r.Error = err.Error()
		return r
	}
	r.Valid = true
	return r
}
