// Package compliance builds the regulatory QR payload printed on invoices:
// seller identity, tax number, timestamp, totals and the invoice digest,
// TLV encoded and Base64 wrapped.
package compliance

import (
	"encoding/base64"
	"time"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/invoice-renderer/internal/decimal"
	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/tlv"
)

// Fixed tags of the simplified payload
const (
	TagSellerName   byte = 1
	TagVATNumber    byte = 2
	TagTimestamp    byte = 3
	TagTotalWithVAT byte = 4
	TagVATAmount    byte = 5
	TagInvoiceHash  byte = 6
)

// TimestampLayout is the ISO 8601 UTC form carried in tag 3
const TimestampLayout = "2006-01-02T15:04:05Z"

// Payload holds the values encoded into a compliance QR
type Payload struct {
	SellerName   string
	VATNumber    string
	Timestamp    time.Time
	TotalWithVAT decimal.Decimal
	VATAmount    decimal.Decimal
	InvoiceHash  []byte

	// Extra fields are appended after the fixed tags in order. Richer
	// signed formats add their tags here.
	Extra []tlv.Field
}

// NewPayload derives a payload from a sale and its canonical branch
func NewPayload(sale *model.Sale, branch *model.Branch) Payload {
	return Payload{
		SellerName:   branch.SellerName(),
		VATNumber:    branch.VATNumber,
		Timestamp:    sale.IssuedAt,
		TotalWithVAT: sale.GrandTotal,
		VATAmount:    sale.TaxAmount,
		InvoiceHash:  Digest(sale, branch),
	}
}

// Fields returns the ordered TLV fields of the payload
func (p Payload) Fields() []tlv.Field {
	fields := []tlv.Field{
		tlv.String(TagSellerName, p.SellerName),
		tlv.String(TagVATNumber, p.VATNumber),
		tlv.String(TagTimestamp, p.Timestamp.UTC().Format(TimestampLayout)),
		tlv.String(TagTotalWithVAT, money.Format(p.TotalWithVAT)),
		tlv.String(TagVATAmount, money.Format(p.VATAmount)),
		{Tag: TagInvoiceHash, Value: p.InvoiceHash},
	}
	return append(fields, p.Extra...)
}

// Encode TLV encodes the payload and wraps it in standard Base64
func (p Payload) Encode() (string, error) {
	return EncodeFields(p.Fields())
}

// EncodeFields TLV encodes an arbitrary ordered field list and wraps it in
// standard Base64
func EncodeFields(fields []tlv.Field) (string, error) {
	raw, err := tlv.Encode(fields)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeFields reverses EncodeFields
func DecodeFields(payload string) ([]tlv.Field, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &model.EncodingError{Message: "payload is not valid base64: " + err.Error()}
	}
	return tlv.Decode(raw)
}

// Generate returns the Base64 compliance payload for a sale
func Generate(sale *model.Sale, branch *model.Branch) (string, error) {
	return NewPayload(sale, branch).Encode()
}
