package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-renderer/internal/compliance"
	"github.com/rezonia/invoice-renderer/internal/provider"
)

var (
	qrSale   string
	qrBranch string
	qrPNG    bool
	qrSize   int
	qrOutput string
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Generate the compliance QR payload of a sale",
	Long: `Generate the Base64 compliance payload for a sale and its seller.

The payload is printed by default. With --png a QR image is written instead.

Examples:
  invoice-renderer qr --sale sale.json --branch branch.yaml
  invoice-renderer qr --sale sale.json --branch branch.yaml --png -o qr.png`,
	Args: cobra.NoArgs,
	RunE: runQR,
}

func init() {
	rootCmd.AddCommand(qrCmd)

	qrCmd.Flags().StringVar(&qrSale, "sale", "", "Sale fixture file holding one sale")
	qrCmd.Flags().StringVar(&qrBranch, "branch", "", "Branch fixture file")
	qrCmd.Flags().BoolVar(&qrPNG, "png", false, "Write a PNG image instead of the payload")
	qrCmd.Flags().IntVar(&qrSize, "size", compliance.DefaultImageSize, "PNG edge in pixels")
	qrCmd.Flags().StringVarP(&qrOutput, "output", "o", "", "Output file (default: stdout)")
	_ = qrCmd.MarkFlagRequired("sale")
	_ = qrCmd.MarkFlagRequired("branch")
}

func runQR(cmd *cobra.Command, args []string) error {
	sale, err := provider.LoadSale(qrSale)
	if err != nil {
		return err
	}
	branch, err := provider.LoadBranch(qrBranch)
	if err != nil {
		return err
	}

	if err := checkOwner(sale, branch); err != nil {
		return err
	}

	payload, err := newEngine().GenerateComplianceQR(sale, branch)
	if err != nil {
		return err
	}

	if !qrPNG {
		return writeOutput(qrOutput, []byte(payload+"\n"))
	}
	if qrOutput == "" {
		return fmt.Errorf("--png requires --output")
	}
	png, err := compliance.PNG(payload, qrSize)
	if err != nil {
		return err
	}
	return writeOutput(qrOutput, png)
}
