package compliance

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"time"

	"github.com/rezonia/invoice-renderer/internal/decimal"
	"github.com/rezonia/invoice-renderer/internal/model"
)

// DigestSize is the length in bytes of an invoice digest
const DigestSize = sha256.Size

type canonicalInvoice struct {
	Number     string          `json:"number"`
	IssuedAt   string          `json:"issued_at"`
	SellerVAT  string          `json:"seller_vat"`
	Currency   string          `json:"currency"`
	Buyer      *canonicalBuyer `json:"buyer"`
	Items      []canonicalItem `json:"items"`
	Subtotal   string          `json:"subtotal"`
	Discount   string          `json:"discount"`
	VAT        string          `json:"vat"`
	GrandTotal string          `json:"grand_total"`
}

type canonicalBuyer struct {
	Name string `json:"name"`
	VAT  string `json:"vat"`
}

type canonicalItem struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Notes     string `json:"notes"`
}

// Canonical returns the canonical representation of an invoice used as
// digest input: a JSON document with a fixed field order. Every monetary
// value is fixed to two fraction digits and timestamps are normalized to UTC
// so equal invoices hash equally. String escaping keeps field content from
// forging structure.
func Canonical(sale *model.Sale, branch *model.Branch) []byte {
	doc := canonicalInvoice{
		Number:     sale.Number,
		IssuedAt:   sale.IssuedAt.UTC().Format(time.RFC3339),
		SellerVAT:  branch.VATNumber,
		Currency:   sale.Currency,
		Items:      make([]canonicalItem, 0, len(sale.Items)),
		Subtotal:   decimal.Format(sale.Subtotal),
		Discount:   decimal.Format(sale.TotalDiscount),
		VAT:        decimal.Format(sale.TaxAmount),
		GrandTotal: decimal.Format(sale.GrandTotal),
	}
	if sale.Customer != nil {
		doc.Buyer = &canonicalBuyer{Name: sale.Customer.Name, VAT: sale.Customer.VATNumber}
	}
	for _, item := range sale.Items {
		doc.Items = append(doc.Items, canonicalItem{
			Name:      item.ProductName,
			Quantity:  decimal.FormatQuantity(item.Quantity),
			UnitPrice: decimal.Format(item.UnitPrice),
			LineTotal: decimal.Format(item.LineTotal),
			Notes:     strings.TrimSpace(item.Notes),
		})
	}

	// Only strings, slices and pointers to plain structs: Marshal cannot fail.
	data, _ := json.Marshal(doc)
	return data
}

// Digest computes the SHA-256 of the canonical invoice representation
func Digest(sale *model.Sale, branch *model.Branch) []byte {
	sum := sha256.Sum256(Canonical(sale, branch))
	return sum[:]
}
