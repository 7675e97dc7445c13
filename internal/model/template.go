package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaperSize identifies the physical paper format a template prints on
type PaperSize string

const (
	PaperThermal58 PaperSize = "thermal_58mm"
	PaperThermal80 PaperSize = "thermal_80mm"
	PaperA4        PaperSize = "a4"
	PaperCustom    PaperSize = "custom"
)

// Fixed physical dimensions in millimetres. Thermal rolls have no fixed height.
var paperWidths = map[PaperSize]decimal.Decimal{
	PaperThermal58: decimal.NewFromInt(58),
	PaperThermal80: decimal.NewFromInt(80),
	PaperA4:        decimal.NewFromInt(210),
}

// A4Height is the height of an A4 sheet in millimetres
var A4Height = decimal.NewFromInt(297)

// Valid reports whether p is one of the known paper sizes
func (p PaperSize) Valid() bool {
	switch p {
	case PaperThermal58, PaperThermal80, PaperA4, PaperCustom:
		return true
	}
	return false
}

// SectionKind enumerates the blocks an invoice document is composed of
type SectionKind string

const (
	SectionHeader   SectionKind = "header"
	SectionTitle    SectionKind = "title"
	SectionCustomer SectionKind = "customer"
	SectionMetadata SectionKind = "metadata"
	SectionItems    SectionKind = "items"
	SectionSummary  SectionKind = "summary"
	SectionFooter   SectionKind = "footer"
)

// SectionKinds lists every supported kind in default document order
var SectionKinds = []SectionKind{
	SectionHeader,
	SectionTitle,
	SectionCustomer,
	SectionMetadata,
	SectionItems,
	SectionSummary,
	SectionFooter,
}

// Valid reports whether k is a supported section kind
func (k SectionKind) Valid() bool {
	for _, known := range SectionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Summary field keys understood by the summary renderer
const (
	SummarySubtotal     = "subtotal"
	SummaryDiscount     = "discount"
	SummaryTotalExclVAT = "total_excl_vat"
	SummaryVAT          = "vat"
	SummaryGrandTotal   = "grand_total"
)

// Predicates a summary field may declare through ShowWhen
const (
	ShowAlways           = "always"
	ShowDiscountPositive = "discount_positive"
)

// SummaryField describes one row of the summary section
type SummaryField struct {
	Key       string `json:"key" yaml:"key"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Visible   bool   `json:"visible" yaml:"visible"`
	Highlight bool   `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	ShowWhen  string `json:"showWhen,omitempty" yaml:"showWhen,omitempty"`
}

// SectionConfig carries the kind-specific options of a section.
// Each renderer reads only the fields that apply to its kind.
type SectionConfig struct {
	// header
	LogoURL       string `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	ShowVATNumber *bool  `json:"showVatNumber,omitempty" yaml:"showVatNumber,omitempty"`
	ShowAddress   *bool  `json:"showAddress,omitempty" yaml:"showAddress,omitempty"`
	ShowContacts  *bool  `json:"showContacts,omitempty" yaml:"showContacts,omitempty"`

	// title, footer
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	// customer
	ShowCustomerVAT   *bool `json:"showCustomerVat,omitempty" yaml:"showCustomerVat,omitempty"`
	ShowCustomerPhone *bool `json:"showCustomerPhone,omitempty" yaml:"showCustomerPhone,omitempty"`

	// metadata
	ShowInvoiceNumber *bool `json:"showInvoiceNumber,omitempty" yaml:"showInvoiceNumber,omitempty"`
	ShowDate          *bool `json:"showDate,omitempty" yaml:"showDate,omitempty"`
	ShowCashier       *bool `json:"showCashier,omitempty" yaml:"showCashier,omitempty"`
	ShowPayment       *bool `json:"showPayment,omitempty" yaml:"showPayment,omitempty"`

	// items
	Labels     map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	NotesLabel string            `json:"notesLabel,omitempty" yaml:"notesLabel,omitempty"`

	// summary
	Fields []SummaryField `json:"fields,omitempty" yaml:"fields,omitempty"`

	// footer
	ShowQR *bool `json:"showQr,omitempty" yaml:"showQr,omitempty"`
}

// Flag returns the value of an optional toggle, or def when unset
func Flag(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Section is an independently toggleable block of the document
type Section struct {
	ID      string        `json:"id"`
	Kind    SectionKind   `json:"type"`
	Order   int           `json:"order"`
	Visible bool          `json:"visible"`
	Config  SectionConfig `json:"config"`
}

// Schema is the typed template description the engine renders from
type Schema struct {
	Version      int             `json:"version"`
	PaperSize    PaperSize       `json:"paperSize"`
	CustomWidth  decimal.Decimal `json:"customWidth,omitempty"`
	CustomHeight decimal.Decimal `json:"customHeight,omitempty"`
	RTL          bool            `json:"rtl"`
	VATInclusive bool            `json:"vatInclusive"`
	Language     string          `json:"language,omitempty"`
	Sections     []Section       `json:"sections"`
}

// Width returns the physical document width in millimetres
func (s *Schema) Width() decimal.Decimal {
	if s.PaperSize == PaperCustom {
		return s.CustomWidth
	}
	return paperWidths[s.PaperSize]
}

// Height returns the physical page height in millimetres, or zero for
// continuous rolls
func (s *Schema) Height() decimal.Decimal {
	switch s.PaperSize {
	case PaperA4:
		return A4Height
	case PaperCustom:
		return s.CustomHeight
	}
	return decimal.Zero
}

// Template is a named, persisted schema owned by a branch
type Template struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	PaperSize PaperSize `json:"paper_size"`
	Schema    Schema    `json:"schema"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// Validate checks the template fields the store is responsible for.
// Schema validation itself happens in the schema package.
func (t *Template) Validate() error {
	if t.BranchID == "" {
		return NewValidationError("branch_id", nil, "required", "template must belong to a branch")
	}
	if t.Name == "" {
		return NewValidationError("name", nil, "required", "template name is required")
	}
	if t.PaperSize != t.Schema.PaperSize {
		return NewValidationError("paper_size", t.PaperSize, "match",
			fmt.Sprintf("template paper size must match schema paper size %q", t.Schema.PaperSize))
	}
	return nil
}
