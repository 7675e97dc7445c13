package model

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	money "github.com/rezonia/invoice-renderer/internal/decimal"
)

// Sale is the read-only sale record an invoice is rendered from
type Sale struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branch_id,omitempty"` // owning branch, empty when the provider is branch-scoped
	Number        string          `json:"number"`
	IssuedAt      time.Time       `json:"issued_at"`
	Currency      string          `json:"currency"`
	Cashier       string          `json:"cashier,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Customer      *Customer       `json:"customer,omitempty"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// TotalExclVAT is the derived subtotal after discount, before VAT.
// It is computed on demand and never stored.
func (s *Sale) TotalExclVAT() decimal.Decimal {
	return s.Subtotal.Sub(s.TotalDiscount)
}

// Validate rejects sales whose printed totals would be ambiguous. A
// negative discount is a surcharge and has no place in the discount row.
func (s *Sale) Validate() error {
	if !money.IsNonNegative(s.TotalDiscount) {
		return NewValidationError("total_discount", money.Format(s.TotalDiscount), "min",
			"discount must not be negative")
	}
	return nil
}

// LineItem is one product line of a sale
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Notes       string          `json:"notes,omitempty"`
}

// HasNotes reports whether the item carries a non-blank note
func (li *LineItem) HasNotes() bool {
	return strings.TrimSpace(li.Notes) != ""
}

// Customer identifies the buyer when the sale has one
type Customer struct {
	Name      string `json:"name"`
	VATNumber string `json:"vat_number,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// LocalizedText maps BCP 47 language tags to text
type LocalizedText map[string]string

// Resolve returns the text best matching lang. It falls back to fallback and
// then to the lexicographically first entry, so the result is deterministic.
func (lt LocalizedText) Resolve(lang, fallback string) string {
	if len(lt) == 0 {
		return ""
	}
	if v, ok := lt[lang]; ok && lang != "" {
		return v
	}

	keys := make([]string, 0, len(lt))
	for k := range lt {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if lang != "" {
		if want, err := language.Parse(lang); err == nil {
			tags := make([]language.Tag, 0, len(keys))
			usable := make([]string, 0, len(keys))
			for _, k := range keys {
				if t, err := language.Parse(k); err == nil {
					tags = append(tags, t)
					usable = append(usable, k)
				}
			}
			if len(tags) > 0 {
				_, idx, conf := language.NewMatcher(tags).Match(want)
				if conf != language.No {
					return lt[usable[idx]]
				}
			}
		}
	}

	if v, ok := lt[fallback]; ok {
		return v
	}
	return lt[keys[0]]
}

// Branch is the canonical seller identity. Templates never copy it.
type Branch struct {
	ID              string        `json:"id"`
	LegalName       LocalizedText `json:"legal_name"`
	DefaultLanguage string        `json:"default_language"`
	VATNumber       string        `json:"vat_number"`
	CommercialReg   string        `json:"commercial_registration,omitempty"`
	Address         string        `json:"address,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	Email           string        `json:"email,omitempty"`
}

// Name resolves the legal name for lang
func (b *Branch) Name(lang string) string {
	return b.LegalName.Resolve(lang, b.DefaultLanguage)
}

// SellerName is the legal name used for regulatory payloads
func (b *Branch) SellerName() string {
	return b.LegalName.Resolve(b.DefaultLanguage, b.DefaultLanguage)
}
