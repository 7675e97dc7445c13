package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-renderer/internal/compliance"
	"github.com/rezonia/invoice-renderer/internal/config"
)

const receiptYAML = `
paperSize: thermal_80mm
language: en
sections:
  - type: header
    order: 1
  - type: metadata
    order: 2
  - type: items
    order: 3
  - type: summary
    order: 4
  - type: footer
    order: 5
    config:
      showQr: true
`

const salesJSON = `[
  {
    "id": "s-1",
    "number": "INV-1",
    "issued_at": "2026-01-15T13:30:00+03:00",
    "currency": "SAR",
    "items": [
      {"product_name": "Tea", "quantity": "2", "unit_price": "5.00", "line_total": "10.00"}
    ],
    "subtotal": "10.00",
    "total_discount": "0",
    "tax_amount": "1.50",
    "grand_total": "11.50"
  },
  {"id": "../s-2", "number": "INV-2", "issued_at": "2026-01-15T14:00:00Z", "currency": "SAR", "items": []}
]`

const saleJSON = `{
  "id": "s-1",
  "number": "INV-1",
  "issued_at": "2026-01-15T13:30:00+03:00",
  "currency": "SAR",
  "items": [],
  "subtotal": "10.00",
  "tax_amount": "1.50",
  "grand_total": "11.50"
}`

const branchYAML = `
id: b-1
legal_name:
  en: Riyadh Coffee
default_language: en
vat_number: "300000000000003"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	schemaFile = writeFile(t, dir, "receipt.yaml", receiptYAML)
	branchFile = writeFile(t, dir, "branch.yaml", branchYAML)
	outputDir = filepath.Join(dir, "out")
	concurrency = 2
	sales := writeFile(t, dir, "sales.json", salesJSON)

	require.NoError(t, runRender(testCommand(), []string{sales}))

	html, err := os.ReadFile(filepath.Join(outputDir, "s-1.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "INV-1")
	assert.Contains(t, string(html), "Riyadh Coffee")

	// Path separators in sale ids stay inside the output directory.
	_, err = os.Stat(filepath.Join(outputDir, ".._s-2.html"))
	assert.NoError(t, err)
}

func TestRunRender_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	schemaFile = writeFile(t, dir, "bad.json", `{"paperSize":"letter","sections":[{"type":"header","order":1}]}`)
	branchFile = writeFile(t, dir, "branch.yaml", branchYAML)
	outputDir = filepath.Join(dir, "out")
	sales := writeFile(t, dir, "sales.json", salesJSON)

	err := runRender(testCommand(), []string{sales})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestRunRender_SaleOfAnotherBranch(t *testing.T) {
	dir := t.TempDir()
	schemaFile = writeFile(t, dir, "receipt.yaml", receiptYAML)
	branchFile = writeFile(t, dir, "branch.yaml", branchYAML)
	outputDir = filepath.Join(dir, "out")
	sales := writeFile(t, dir, "sales.json", `[{"id": "s-9", "branch_id": "b-2", "number": "INV-9", "items": []}]`)

	err := runRender(testCommand(), []string{sales})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to branch b-2")
}

func TestRunPreview(t *testing.T) {
	dir := t.TempDir()
	previewSchema = writeFile(t, dir, "receipt.yaml", receiptYAML)
	previewBranch = ""
	previewOutput = filepath.Join(dir, "preview.html")

	require.NoError(t, runPreview(testCommand(), nil))

	html, err := os.ReadFile(previewOutput)
	require.NoError(t, err)
	assert.Contains(t, string(html), "PREVIEW")
}

func TestRunQR(t *testing.T) {
	dir := t.TempDir()
	all := writeFile(t, dir, "sales.json", salesJSON)
	qrSale = writeFile(t, dir, "sale.json", saleJSON)
	qrBranch = writeFile(t, dir, "branch.yaml", branchYAML)

	t.Run("payload", func(t *testing.T) {
		qrPNG = false
		qrOutput = filepath.Join(dir, "payload.txt")
		require.NoError(t, runQR(testCommand(), nil))

		data, err := os.ReadFile(qrOutput)
		require.NoError(t, err)
		fields, err := compliance.DecodeFields(strings.TrimSpace(string(data)))
		require.NoError(t, err)
		assert.NotEmpty(t, fields)
	})

	t.Run("png", func(t *testing.T) {
		qrPNG = true
		qrSize = 128
		qrOutput = filepath.Join(dir, "qr.png")
		require.NoError(t, runQR(testCommand(), nil))

		data, err := os.ReadFile(qrOutput)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	})

	t.Run("png needs output", func(t *testing.T) {
		qrPNG = true
		qrOutput = ""
		assert.Error(t, runQR(testCommand(), nil))
	})

	t.Run("several sales", func(t *testing.T) {
		qrPNG = false
		qrSale = all
		assert.Error(t, runQR(testCommand(), nil))
	})
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "receipt.yaml", receiptYAML)
	bad := writeFile(t, dir, "bad.json", `{"paperSize":"a4","sections":[]}`)

	var out bytes.Buffer
	c := testCommand()
	c.SetOut(&out)

	validateJSON = false
	require.NoError(t, runValidate(c, []string{good}))
	assert.Contains(t, out.String(), "VALID")

	out.Reset()
	err := runValidate(c, []string{good, bad, filepath.Join(dir, "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")

	out.Reset()
	validateJSON = true
	defer func() { validateJSON = false }()
	require.Error(t, runValidate(c, []string{bad}))
	assert.Contains(t, out.String(), `"field": "sections"`)
}

func TestLoadProviders(t *testing.T) {
	dir := t.TempDir()
	sales, branches, err := loadProviders(config.FixturesConfig{
		Sales:    writeFile(t, dir, "sales.json", salesJSON),
		Branches: writeFile(t, dir, "branch.yaml", branchYAML),
	})
	require.NoError(t, err)
	assert.Len(t, sales.IDs(), 2)

	b, err := branches.GetBranchInfo(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "300000000000003", b.VATNumber)
}

func TestOpenStore_Memory(t *testing.T) {
	c := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	s, closeStore, err := openStore(context.Background(), c)
	require.NoError(t, err)
	defer closeStore()

	active, err := s.GetActive(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "INV-1", fileName("INV-1"))
	assert.Equal(t, "a_b", fileName("a/b"))
	assert.Equal(t, "sale", fileName(".."))
	assert.Equal(t, "sale", fileName(""))
}
