// Package invoicerender provides a public API for rendering invoices from
// template schemas.
//
// This package exposes the core types, the render engine and a concurrent
// batch renderer for print-ready invoice markup and compliance QR payloads.
//
// Example usage:
//
//	s, err := invoicerender.ParseSchema(data, invoicerender.FormatJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := invoicerender.NewEngine().RenderInvoice(s, sale, branch)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Markup)
package invoicerender

import (
	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/render"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

// Re-export core types for public API
type (
	Schema        = model.Schema
	Section       = model.Section
	SectionKind   = model.SectionKind
	SectionConfig = model.SectionConfig
	SummaryField  = model.SummaryField
	PaperSize     = model.PaperSize
	Template      = model.Template
	Sale          = model.Sale
	LineItem      = model.LineItem
	Customer      = model.Customer
	Branch        = model.Branch
	LocalizedText = model.LocalizedText
	Result        = render.Result
	Format        = schema.Format
)

// Re-export paper sizes
const (
	PaperThermal58 = model.PaperThermal58
	PaperThermal80 = model.PaperThermal80
	PaperA4        = model.PaperA4
	PaperCustom    = model.PaperCustom
)

// Re-export section kinds
const (
	SectionHeader   = model.SectionHeader
	SectionTitle    = model.SectionTitle
	SectionCustomer = model.SectionCustomer
	SectionMetadata = model.SectionMetadata
	SectionItems    = model.SectionItems
	SectionSummary  = model.SectionSummary
	SectionFooter   = model.SectionFooter
)

// Re-export schema formats
const (
	FormatJSON = schema.FormatJSON
	FormatYAML = schema.FormatYAML
)

// Re-export error types
type (
	ValidationError              = model.ValidationError
	EncodingError                = model.EncodingError
	NotFoundError                = model.NotFoundError
	ActiveTemplateProtectedError = model.ActiveTemplateProtectedError
	UnsupportedSectionError      = model.UnsupportedSectionError
)
