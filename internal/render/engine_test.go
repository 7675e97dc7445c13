package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/render"
)

func fullSchema(paper model.PaperSize) *model.Schema {
	s := &model.Schema{
		Version:      1,
		PaperSize:    paper,
		VATInclusive: true,
		Language:     "en",
	}
	for i, kind := range model.SectionKinds {
		s.Sections = append(s.Sections, model.Section{
			ID:      string(kind),
			Kind:    kind,
			Order:   i + 1,
			Visible: true,
		})
	}
	return s
}

func saleAndBranch() (*model.Sale, *model.Branch) {
	sale := render.SampleSale()
	sale.ID = "sale-1"
	sale.Number = "INV-1001"
	return sale, render.SampleBranch()
}

func TestRenderInvoice_OneFragmentPerVisibleSection(t *testing.T) {
	s := fullSchema(model.PaperThermal80)
	s.Sections[1].Visible = false // title
	s.Sections[6].Visible = false // footer

	sale, branch := saleAndBranch()
	res, err := render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)

	assert.Equal(t, 5, strings.Count(res.Markup, "data-section-type="))
	assert.NotContains(t, res.Markup, `data-section-type="title"`)
	assert.NotContains(t, res.Markup, `data-section-type="footer"`)
	assert.Equal(t, 1, strings.Count(res.Markup, `class="invoice-document `), "fragments share one container")
}

func TestRenderInvoice_SectionOrder(t *testing.T) {
	s := fullSchema(model.PaperA4)
	s.Sections = []model.Section{
		{ID: "sum", Kind: model.SectionSummary, Order: 3, Visible: true},
		{ID: "head", Kind: model.SectionHeader, Order: 1, Visible: true},
		{ID: "items-a", Kind: model.SectionItems, Order: 2, Visible: true},
		{ID: "items-b", Kind: model.SectionItems, Order: 2, Visible: true},
	}

	sale, branch := saleAndBranch()
	res, err := render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)

	order := []string{"head", "items-a", "items-b", "sum"}
	last := -1
	for _, id := range order {
		idx := strings.Index(res.Markup, `data-section-id="`+id+`"`)
		require.NotEqual(t, -1, idx, id)
		assert.Greater(t, idx, last, "%s out of order", id)
		last = idx
	}
}

func TestRenderInvoice_NotesDetailRow(t *testing.T) {
	sale, branch := saleAndBranch()
	res, err := render.NewEngine().RenderInvoice(fullSchema(model.PaperThermal80), sale, branch)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(res.Markup, `<tr class="item-row">`))
	assert.Equal(t, 1, strings.Count(res.Markup, `<tr class="item-detail-row">`), "blank notes must not produce a detail row")
	assert.Contains(t, res.Markup, "Extra shot, no sugar")

	// The detail row directly follows its item row.
	espresso := strings.Index(res.Markup, "Espresso")
	detail := strings.Index(res.Markup, `<tr class="item-detail-row">`)
	croissant := strings.Index(res.Markup, "Croissant")
	assert.True(t, espresso < detail && detail < croissant)
}

func TestRenderInvoice_NotesLabelOverride(t *testing.T) {
	s := fullSchema(model.PaperThermal80)
	s.Sections[4].Config.NotesLabel = "Remark:"

	sale, branch := saleAndBranch()
	res, err := render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, `<span class="detail-label">Remark:</span>`)
}

func TestRenderInvoice_Deterministic(t *testing.T) {
	e := render.NewEngine()
	s := fullSchema(model.PaperThermal58)
	sale, branch := saleAndBranch()

	first, err := e.RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.RenderInvoice(s, sale, branch)
		require.NoError(t, err)
		assert.Equal(t, first.Markup, again.Markup)
		assert.Equal(t, first.QRPayload, again.QRPayload)
	}
}

func TestRenderInvoice_RTLFromFlagOnly(t *testing.T) {
	s := fullSchema(model.PaperThermal80)
	s.RTL = true
	sale, branch := saleAndBranch()

	res, err := render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, `<html lang="en" dir="rtl">`)
	assert.Contains(t, res.Markup, "Tax Invoice")

	// Arabic captions without the flag stay left to right.
	s = fullSchema(model.PaperThermal80)
	s.Language = "ar"
	res, err = render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, `dir="ltr"`)
	assert.NotContains(t, res.Markup, `dir="rtl"`)
	assert.Contains(t, res.Markup, "فاتورة ضريبية")
}

func TestRenderInvoice_DefaultLanguage(t *testing.T) {
	s := fullSchema(model.PaperThermal80)
	s.Language = ""
	sale, branch := saleAndBranch()

	res, err := render.NewEngine(render.WithDefaultLanguage("ar")).RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, `<html lang="ar" dir="ltr">`)
	assert.Contains(t, res.Markup, "فاتورة ضريبية")

	// The schema language wins over the engine default.
	s.Language = "en"
	res, err = render.NewEngine(render.WithDefaultLanguage("ar")).RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, "Tax Invoice")
}

func TestRenderInvoice_PaperWidths(t *testing.T) {
	tests := []struct {
		name   string
		schema func() *model.Schema
		width  string
		size   string
	}{
		{"thermal 58", func() *model.Schema { return fullSchema(model.PaperThermal58) }, "58", "58mm auto"},
		{"thermal 80", func() *model.Schema { return fullSchema(model.PaperThermal80) }, "80", "80mm auto"},
		{"a4", func() *model.Schema { return fullSchema(model.PaperA4) }, "210", "210mm 297mm"},
		{"custom", func() *model.Schema {
			s := fullSchema(model.PaperCustom)
			s.CustomWidth = decimal.NewFromFloat(100.5)
			return s
		}, "100.5", "100.5mm auto"},
		{"custom with height", func() *model.Schema {
			s := fullSchema(model.PaperCustom)
			s.CustomWidth = decimal.NewFromInt(100)
			s.CustomHeight = decimal.NewFromInt(150)
			return s
		}, "100", "100mm 150mm"},
	}

	sale, branch := saleAndBranch()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := render.NewEngine().RenderInvoice(tt.schema(), sale, branch)
			require.NoError(t, err)

			mm := tt.width + "mm"
			assert.Contains(t, res.Markup, `data-width-mm="`+tt.width+`"`)
			assert.Contains(t, res.Markup, `style="width: `+mm+`"`)
			assert.Contains(t, res.Markup, "@page { size: "+tt.size+";")
			assert.Contains(t, res.Markup, ".invoice-document { width: "+mm+" !important; max-width: "+mm+" !important;",
				"print width must equal preview width")
			assert.Contains(t, res.Markup, "page-break-inside: avoid")
		})
	}
}

func TestRenderInvoice_UnsupportedSection(t *testing.T) {
	e := render.NewEngine(render.WithRegistry(render.NewRegistry(render.HeaderRenderer{})))
	sale, branch := saleAndBranch()

	_, err := e.RenderInvoice(fullSchema(model.PaperA4), sale, branch)
	require.Error(t, err)

	var unsupported *model.UnsupportedSectionError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, model.SectionTitle, unsupported.Kind)
}

func TestRenderInvoice_InvalidInput(t *testing.T) {
	e := render.NewEngine()
	sale, branch := saleAndBranch()

	var verr *model.ValidationError

	_, err := e.RenderInvoice(fullSchema(model.PaperA4), nil, branch)
	assert.True(t, errors.As(err, &verr))

	_, err = e.RenderInvoice(fullSchema(model.PaperA4), sale, nil)
	assert.True(t, errors.As(err, &verr))

	_, err = e.RenderInvoice(nil, sale, branch)
	assert.True(t, errors.As(err, &verr))

	bad := fullSchema("letter")
	_, err = e.RenderInvoice(bad, sale, branch)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "paperSize", verr.Field)
}

func TestRenderInvoice_CashCustomer(t *testing.T) {
	sale, branch := saleAndBranch()
	sale.Customer = nil

	res, err := render.NewEngine().RenderInvoice(fullSchema(model.PaperThermal80), sale, branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, `data-section-type="customer"`)
	assert.Contains(t, res.Markup, "Cash customer")
	assert.NotContains(t, res.Markup, "customer-vat")
}

func TestRenderInvoice_HeaderToggles(t *testing.T) {
	off := false
	s := fullSchema(model.PaperThermal80)
	s.Sections[0].Config.ShowVATNumber = &off
	s.Sections[0].Config.ShowContacts = &off

	sale, branch := saleAndBranch()
	res, err := render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.NotContains(t, res.Markup, `class="vat-number"`)
	assert.NotContains(t, res.Markup, branch.Email)
	assert.Contains(t, res.Markup, "Sample Trading Co.")
	assert.Contains(t, res.Markup, "شركة نموذجية", "secondary legal name")
}

func TestRenderInvoice_ComplianceQR(t *testing.T) {
	sale, branch := saleAndBranch()
	e := render.NewEngine()

	res, err := e.RenderInvoice(fullSchema(model.PaperThermal80), sale, branch)
	require.NoError(t, err)
	require.NotEmpty(t, res.QRPayload)
	assert.Empty(t, res.Warnings)
	assert.Contains(t, res.Markup, `class="compliance-qr"`)
	assert.Contains(t, res.Markup, `src="data:image/png;base64,`)

	payload, err := e.GenerateComplianceQR(sale, branch)
	require.NoError(t, err)
	assert.Equal(t, res.QRPayload, payload)

	off := false
	s := fullSchema(model.PaperThermal80)
	s.Sections[6].Config.ShowQR = &off
	res, err = e.RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.NotContains(t, res.Markup, `class="compliance-qr"`)
	assert.Empty(t, res.QRPayload, "no payload without a QR to print")
}

func TestRenderInvoice_QROnlyForVisibleFooter(t *testing.T) {
	sale, branch := saleAndBranch()
	branch.LegalName = model.LocalizedText{"en": strings.Repeat("A", 300)}

	s := fullSchema(model.PaperThermal80)
	s.Sections[6].Visible = false // footer
	res, err := render.NewEngine().RenderInvoice(s, sale, branch)
	require.NoError(t, err)
	assert.Empty(t, res.QRPayload)
	assert.Empty(t, res.Warnings, "an unprinted QR cannot fail")
}

func TestRenderInvoice_NegativeDiscountRejected(t *testing.T) {
	sale, branch := saleAndBranch()
	sale.TotalDiscount = decimal.NewFromInt(-5)

	_, err := render.NewEngine().RenderInvoice(fullSchema(model.PaperA4), sale, branch)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "total_discount", verr.Field)
}

func TestRenderInvoice_OversizedSellerNameOnlyWarns(t *testing.T) {
	sale, branch := saleAndBranch()
	branch.LegalName = model.LocalizedText{"en": strings.Repeat("A", 300)}

	res, err := render.NewEngine().RenderInvoice(fullSchema(model.PaperThermal80), sale, branch)
	require.NoError(t, err)
	assert.Empty(t, res.QRPayload)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "compliance QR omitted")
	assert.NotContains(t, res.Markup, `class="compliance-qr"`)
	assert.Contains(t, res.Markup, `data-section-type="footer"`)

	_, err = render.NewEngine().GenerateComplianceQR(sale, branch)
	var encErr *model.EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, byte(1), encErr.Tag)
}

func TestRenderPreview(t *testing.T) {
	e := render.NewEngine()
	res, err := e.RenderPreview(fullSchema(model.PaperThermal80))
	require.NoError(t, err)

	assert.Contains(t, res.Markup, `data-preview="true"`)
	assert.Contains(t, res.Markup, `class="preview-banner"`)
	assert.Contains(t, res.Markup, render.SampleSaleNumber)
	assert.Equal(t, 1, strings.Count(res.Markup, `<tr class="item-detail-row">`))

	sale, branch := saleAndBranch()
	invoice, err := e.RenderInvoice(fullSchema(model.PaperThermal80), sale, branch)
	require.NoError(t, err)
	assert.NotContains(t, invoice.Markup, "data-preview")
	assert.NotContains(t, invoice.Markup, render.SampleSaleNumber)
}

func TestRenderPreviewWithBranch(t *testing.T) {
	branch := &model.Branch{
		ID:              "b-1",
		LegalName:       model.LocalizedText{"en": "Real Branch LLC"},
		DefaultLanguage: "en",
		VATNumber:       "399999999900003",
	}
	res, err := render.NewEngine().RenderPreviewWithBranch(fullSchema(model.PaperA4), branch)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, "Real Branch LLC")
	assert.Contains(t, res.Markup, `data-preview="true"`)

	res, err = render.NewEngine().RenderPreviewWithBranch(fullSchema(model.PaperA4), nil)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, "Sample Trading Co.")
}

func TestSampleSale_TotalsAddUp(t *testing.T) {
	sale := render.SampleSale()
	require.NoError(t, sale.Validate())

	sum := decimal.Zero
	for _, item := range sale.Items {
		assert.True(t, item.LineTotal.Equal(item.Quantity.Mul(item.UnitPrice)), item.ProductName)
		sum = sum.Add(item.LineTotal)
	}
	assert.Equal(t, "75.50", sale.Subtotal.StringFixed(2))
	assert.True(t, sum.Equal(sale.Subtotal))
	assert.Equal(t, "10.50", sale.TaxAmount.StringFixed(2))
	assert.Equal(t, "80.50", sale.GrandTotal.StringFixed(2))
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, "Tax Invoice", render.LabelsFor("").Title)
	assert.Equal(t, "Tax Invoice", render.LabelsFor("en-GB").Title)
	assert.Equal(t, "فاتورة ضريبية", render.LabelsFor("ar").Title)
	assert.Equal(t, "فاتورة ضريبية", render.LabelsFor("ar-SA").Title)
	assert.Equal(t, "Tax Invoice", render.LabelsFor("not a tag").Title)
}

func TestRegistryKinds(t *testing.T) {
	assert.Equal(t, model.SectionKinds, render.DefaultRegistry().Kinds())

	r := render.NewRegistry(render.FooterRenderer{}, render.HeaderRenderer{})
	assert.Equal(t, []model.SectionKind{model.SectionHeader, model.SectionFooter}, r.Kinds())
}

func TestPlanDoesNotMutate(t *testing.T) {
	s := fullSchema(model.PaperA4)
	s.Sections[0].Order = 10
	s.Sections[3].Visible = false

	planned := render.Plan(s)
	require.Len(t, planned, 6)
	assert.Equal(t, model.SectionHeader, planned[5].Kind)
	assert.Equal(t, model.SectionHeader, s.Sections[0].Kind)
	assert.Len(t, s.Sections, 7)
}
