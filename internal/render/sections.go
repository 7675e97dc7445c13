package render

import (
	"html/template"
	"io"
	"sort"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// Document is the data shared by every section of one render
type Document struct {
	Schema    *model.Schema
	Sale      *model.Sale
	Branch    *model.Branch
	Labels    Labels
	Language  string
	QRPayload string
	QRImage   template.URL
	Preview   bool
}

// HeaderRenderer prints the seller block from the canonical branch
type HeaderRenderer struct{}

func (HeaderRenderer) Kind() model.SectionKind { return model.SectionHeader }

func (HeaderRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	cfg := sec.Config
	b := doc.Branch

	view := struct {
		Labels        Labels
		LogoURL       string
		Name          string
		SecondaryName string
		VATNumber     string
		CommercialReg string
		Address       string
		Phone         string
		Email         string
	}{
		Labels:        doc.Labels,
		LogoURL:       cfg.LogoURL,
		Name:          b.Name(doc.Language),
		SecondaryName: secondaryName(b, doc.Language),
		CommercialReg: b.CommercialReg,
	}
	if model.Flag(cfg.ShowVATNumber, true) {
		view.VATNumber = b.VATNumber
	}
	if model.Flag(cfg.ShowAddress, true) {
		view.Address = b.Address
	}
	if model.Flag(cfg.ShowContacts, true) {
		view.Phone = b.Phone
		view.Email = b.Email
	}
	return fragments.ExecuteTemplate(w, "header", view)
}

// secondaryName returns the legal name in another language when the branch
// has one, for bilingual headers
func secondaryName(b *model.Branch, lang string) string {
	primary := b.Name(lang)
	keys := make([]string, 0, len(b.LegalName))
	for k := range b.LegalName {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := b.LegalName[k]; v != "" && v != primary {
			return v
		}
	}
	return ""
}

// TitleRenderer prints the document title
type TitleRenderer struct{}

func (TitleRenderer) Kind() model.SectionKind { return model.SectionTitle }

func (TitleRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	text := sec.Config.Text
	if text == "" {
		text = doc.Labels.Title
	}
	return fragments.ExecuteTemplate(w, "title", struct {
		Text     string
		Subtitle string
	}{text, sec.Config.Subtitle})
}

// CustomerRenderer prints the buyer, or the walk-in caption for sales
// without a customer
type CustomerRenderer struct{}

func (CustomerRenderer) Kind() model.SectionKind { return model.SectionCustomer }

func (CustomerRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	view := struct {
		Labels    Labels
		Name      string
		VATNumber string
		Phone     string
		Address   string
	}{Labels: doc.Labels, Name: doc.Labels.CashCustomer}

	if c := doc.Sale.Customer; c != nil && c.Name != "" {
		view.Name = c.Name
		view.Address = c.Address
		if model.Flag(sec.Config.ShowCustomerVAT, true) {
			view.VATNumber = c.VATNumber
		}
		if model.Flag(sec.Config.ShowCustomerPhone, true) {
			view.Phone = c.Phone
		}
	}
	return fragments.ExecuteTemplate(w, "customer", view)
}

// DateLayout is how the issue time is printed
const DateLayout = "2006-01-02 15:04"

type metaRow struct {
	Key   string
	Label string
	Value string
}

// MetadataRenderer prints invoice number, date, cashier and payment method
type MetadataRenderer struct{}

func (MetadataRenderer) Kind() model.SectionKind { return model.SectionMetadata }

func (MetadataRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	cfg, sale, l := sec.Config, doc.Sale, doc.Labels

	rows := make([]metaRow, 0, 4)
	if model.Flag(cfg.ShowInvoiceNumber, true) {
		rows = append(rows, metaRow{"number", l.InvoiceNumber, sale.Number})
	}
	if model.Flag(cfg.ShowDate, true) {
		rows = append(rows, metaRow{"date", l.Date, sale.IssuedAt.Format(DateLayout)})
	}
	if model.Flag(cfg.ShowCashier, true) && sale.Cashier != "" {
		rows = append(rows, metaRow{"cashier", l.Cashier, sale.Cashier})
	}
	if model.Flag(cfg.ShowPayment, true) && sale.PaymentMethod != "" {
		rows = append(rows, metaRow{"payment", l.Payment, sale.PaymentMethod})
	}
	return fragments.ExecuteTemplate(w, "metadata", struct{ Rows []metaRow }{rows})
}

// FooterRenderer prints the closing text and the compliance QR
type FooterRenderer struct{}

func (FooterRenderer) Kind() model.SectionKind { return model.SectionFooter }

func (FooterRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	view := struct {
		Text      string
		QRPayload string
		QRImage   template.URL
	}{Text: sec.Config.Text}
	if view.Text == "" {
		view.Text = doc.Labels.Footer
	}
	if model.Flag(sec.Config.ShowQR, true) && doc.QRImage != "" {
		view.QRPayload = doc.QRPayload
		view.QRImage = doc.QRImage
	}
	return fragments.ExecuteTemplate(w, "footer", view)
}
