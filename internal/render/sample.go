package render

import (
	"time"

	dec "github.com/shopspring/decimal"

	"github.com/rezonia/invoice-renderer/internal/decimal"
	"github.com/rezonia/invoice-renderer/internal/model"
)

// SampleSaleNumber marks placeholder sales so they are never mistaken for
// real ones
const SampleSaleNumber = "PREVIEW-0001"

// sampleVATRate is the VAT applied to the sample sale
var sampleVATRate = decimal.MustFromString("0.15")

// SampleSale returns the fixed placeholder sale used for previews. It
// includes items with and without notes, a discount and a customer. Totals
// are derived from the lines so the preview always adds up.
func SampleSale() *model.Sale {
	items := []model.LineItem{
		sampleItem("Espresso", 2, "12.00", "Extra shot, no sugar"),
		sampleItem("Croissant", 1, "9.50", ""),
		sampleItem("Orange Juice", 3, "14.00", "   "),
	}
	lineTotals := make([]dec.Decimal, 0, len(items))
	for _, item := range items {
		lineTotals = append(lineTotals, item.LineTotal)
	}

	sale := &model.Sale{
		ID:            "preview",
		Number:        SampleSaleNumber,
		IssuedAt:      time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Currency:      "SAR",
		Cashier:       "Sample Cashier",
		PaymentMethod: "Cash",
		Customer: &model.Customer{
			Name:      "Sample Customer",
			VATNumber: "310000000000003",
			Phone:     "+966 50 000 0000",
		},
		Items:         items,
		Subtotal:      decimal.Sum(lineTotals),
		TotalDiscount: decimal.MustFromString("5.50"),
	}
	sale.TaxAmount = decimal.Mul(sale.TotalExclVAT(), sampleVATRate)
	sale.GrandTotal = sale.TotalExclVAT().Add(sale.TaxAmount)
	return sale
}

func sampleItem(name string, qty int64, price, notes string) model.LineItem {
	quantity := decimal.FromInt(qty)
	unitPrice := decimal.MustFromString(price)
	return model.LineItem{
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   decimal.Mul(quantity, unitPrice),
		Notes:       notes,
	}
}

// SampleBranch returns a placeholder seller for previews without a branch
func SampleBranch() *model.Branch {
	return &model.Branch{
		ID: "preview",
		LegalName: model.LocalizedText{
			"ar": "شركة نموذجية",
			"en": "Sample Trading Co.",
		},
		DefaultLanguage: "en",
		VATNumber:       "300000000000003",
		CommercialReg:   "1010000000",
		Address:         "King Fahd Road, Riyadh",
		Phone:           "+966 11 000 0000",
		Email:           "info@example.com",
	}
}
