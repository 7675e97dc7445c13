package render

import (
	"io"

	money "github.com/rezonia/invoice-renderer/internal/decimal"
	"github.com/rezonia/invoice-renderer/internal/model"
)

// DefaultSummaryFields is used when a summary section configures no fields
var DefaultSummaryFields = []model.SummaryField{
	{Key: model.SummarySubtotal, Visible: true},
	{Key: model.SummaryDiscount, Visible: true, ShowWhen: model.ShowDiscountPositive},
	{Key: model.SummaryTotalExclVAT, Visible: true},
	{Key: model.SummaryVAT, Visible: true},
	{Key: model.SummaryGrandTotal, Visible: true, Highlight: true},
}

// SummaryRow is one computed line of the summary section
type SummaryRow struct {
	Key       string
	Label     string
	Value     string
	Highlight bool
}

// SummaryRenderer prints the configured totals in order
type SummaryRenderer struct{}

func (SummaryRenderer) Kind() model.SectionKind { return model.SectionSummary }

func (SummaryRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	rows, err := SummaryRows(sec.Config.Fields, doc)
	if err != nil {
		return err
	}
	return fragments.ExecuteTemplate(w, "summary", struct {
		Currency string
		Rows     []SummaryRow
	}{doc.Sale.Currency, rows})
}

// SummaryRows evaluates summary field descriptors against the sale. The
// derived total excluding VAT is computed here and only when both its
// visibility flag is set and the discount is strictly positive.
func SummaryRows(fields []model.SummaryField, doc *Document) ([]SummaryRow, error) {
	if len(fields) == 0 {
		fields = DefaultSummaryFields
	}
	sale, l := doc.Sale, doc.Labels

	rows := make([]SummaryRow, 0, len(fields))
	for _, f := range fields {
		if !f.Visible || !shown(f, sale) {
			continue
		}

		var label, value string
		highlight := f.Highlight
		switch f.Key {
		case model.SummarySubtotal:
			label, value = l.Subtotal, money.Format(sale.Subtotal)
		case model.SummaryDiscount:
			label, value = l.Discount, money.FormatNegated(sale.TotalDiscount)
		case model.SummaryTotalExclVAT:
			label, value = l.TotalExclVAT, money.Format(sale.TotalExclVAT())
		case model.SummaryVAT:
			label, value = l.VAT, money.Format(sale.TaxAmount)
		case model.SummaryGrandTotal:
			label, value = l.GrandTotal, money.Format(sale.GrandTotal)
			if doc.Schema.VATInclusive {
				label = l.GrandTotalInclVAT
			}
			highlight = true
		default:
			return nil, model.NewValidationError("summary.fields.key", f.Key, "enum", "unknown summary field")
		}
		if f.Label != "" {
			label = f.Label
		}
		rows = append(rows, SummaryRow{Key: f.Key, Label: label, Value: value, Highlight: highlight})
	}
	return rows, nil
}

// shown applies the field's predicate. The derived total excluding VAT is
// always gated on a positive discount; ShowWhen can only narrow further.
func shown(f model.SummaryField, sale *model.Sale) bool {
	if f.Key == model.SummaryTotalExclVAT && !discountPositive(sale) {
		return false
	}
	if f.ShowWhen == model.ShowDiscountPositive {
		return discountPositive(sale)
	}
	return true
}

func discountPositive(sale *model.Sale) bool {
	return money.IsPositive(sale.TotalDiscount)
}
