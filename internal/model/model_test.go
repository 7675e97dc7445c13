package model_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-renderer/internal/model"
)

func TestSchema_Width(t *testing.T) {
	tests := []struct {
		name   string
		schema model.Schema
		width  int64
		height int64
	}{
		{"thermal 58", model.Schema{PaperSize: model.PaperThermal58}, 58, 0},
		{"thermal 80", model.Schema{PaperSize: model.PaperThermal80}, 80, 0},
		{"a4", model.Schema{PaperSize: model.PaperA4}, 210, 297},
		{"custom", model.Schema{
			PaperSize:    model.PaperCustom,
			CustomWidth:  decimal.NewFromInt(100),
			CustomHeight: decimal.NewFromInt(150),
		}, 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.schema.Width().Equal(decimal.NewFromInt(tt.width)),
				"width: got %s, want %d", tt.schema.Width(), tt.width)
			assert.True(t, tt.schema.Height().Equal(decimal.NewFromInt(tt.height)),
				"height: got %s, want %d", tt.schema.Height(), tt.height)
		})
	}
}

func TestSectionKind_Valid(t *testing.T) {
	for _, k := range model.SectionKinds {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, model.SectionKind("barcode").Valid())
	assert.False(t, model.PaperSize("letter").Valid())
}

func TestLineItem_HasNotes(t *testing.T) {
	assert.True(t, (&model.LineItem{Notes: "no onions"}).HasNotes())
	assert.False(t, (&model.LineItem{Notes: ""}).HasNotes())
	assert.False(t, (&model.LineItem{Notes: " \t\n "}).HasNotes())
}

func TestSale_TotalExclVAT(t *testing.T) {
	sale := model.Sale{
		Subtotal:      decimal.RequireFromString("100.00"),
		TotalDiscount: decimal.RequireFromString("12.50"),
	}
	assert.True(t, sale.TotalExclVAT().Equal(decimal.RequireFromString("87.50")))
}

func TestSale_Validate(t *testing.T) {
	sale := &model.Sale{TotalDiscount: decimal.Zero}
	assert.NoError(t, sale.Validate())

	sale.TotalDiscount = decimal.RequireFromString("2.50")
	assert.NoError(t, sale.Validate())

	sale.TotalDiscount = decimal.RequireFromString("-0.01")
	var verr *model.ValidationError
	require.ErrorAs(t, sale.Validate(), &verr)
	assert.Equal(t, "total_discount", verr.Field)
}

func TestLocalizedText_Resolve(t *testing.T) {
	name := model.LocalizedText{
		"ar": "شركة المثال",
		"en": "Example Trading Co.",
	}

	assert.Equal(t, "Example Trading Co.", name.Resolve("en", "ar"))
	assert.Equal(t, "شركة المثال", name.Resolve("ar-SA", "en"))
	assert.Equal(t, "Example Trading Co.", name.Resolve("en-GB", "ar"))
	assert.Equal(t, "شركة المثال", name.Resolve("", "ar"))
	assert.Equal(t, "", model.LocalizedText{}.Resolve("en", "en"))
}

func TestBranch_SellerName(t *testing.T) {
	branch := model.Branch{
		LegalName:       model.LocalizedText{"ar": "فرع الرياض", "en": "Riyadh Branch"},
		DefaultLanguage: "ar",
	}
	assert.Equal(t, "فرع الرياض", branch.SellerName())
	assert.Equal(t, "Riyadh Branch", branch.Name("en"))
}

func TestTemplate_Validate(t *testing.T) {
	tpl := model.Template{
		BranchID:  "b1",
		Name:      "Receipt",
		PaperSize: model.PaperThermal80,
		Schema:    model.Schema{PaperSize: model.PaperThermal80},
	}
	require.NoError(t, tpl.Validate())

	tpl.PaperSize = model.PaperA4
	err := tpl.Validate()
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "paper_size", verr.Field)
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("paperSize", "letter", "enum", "unknown paper size")

	require.Contains(t, err.Error(), "paperSize")
	require.Contains(t, err.Error(), "letter")
	require.Contains(t, err.Error(), "unknown paper size")
}

func TestValidationError_WithCause(t *testing.T) {
	cause := &model.UnsupportedSectionError{Kind: "barcode", SectionID: "s1"}
	err := model.NewValidationError("sections[0].type", "barcode", "enum", "unknown section type")
	err.Cause = cause

	var unsupported *model.UnsupportedSectionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, model.SectionKind("barcode"), unsupported.Kind)
}

func TestEncodingError(t *testing.T) {
	err := model.NewEncodingError(1, 300, 255, "value too long")

	require.Contains(t, err.Error(), "tag 1")
	require.Contains(t, err.Error(), "300")
	require.Contains(t, err.Error(), "255")
}

func TestNotFoundAndProtectedErrors(t *testing.T) {
	nf := model.NewNotFoundError("template", "abc")
	assert.Equal(t, "template not found: abc", nf.Error())

	prot := &model.ActiveTemplateProtectedError{TemplateID: "abc"}
	assert.Contains(t, prot.Error(), "abc")
}
