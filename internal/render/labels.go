package render

import (
	"golang.org/x/text/language"
)

// Labels are the fixed captions printed next to invoice values
type Labels struct {
	Title             string
	VATNumber         string
	CommercialReg     string
	Phone             string
	Email             string
	Customer          string
	CashCustomer      string
	CustomerVAT       string
	InvoiceNumber     string
	Date              string
	Cashier           string
	Payment           string
	Item              string
	Quantity          string
	UnitPrice         string
	LineTotal         string
	Notes             string
	Subtotal          string
	Discount          string
	TotalExclVAT      string
	VAT               string
	GrandTotal        string
	GrandTotalInclVAT string
	Footer            string
	Preview           string
}

var english = Labels{
	Title:             "Tax Invoice",
	VATNumber:         "VAT No.",
	CommercialReg:     "CR No.",
	Phone:             "Tel",
	Email:             "Email",
	Customer:          "Customer",
	CashCustomer:      "Cash customer",
	CustomerVAT:       "Customer VAT No.",
	InvoiceNumber:     "Invoice No.",
	Date:              "Date",
	Cashier:           "Cashier",
	Payment:           "Payment",
	Item:              "Item",
	Quantity:          "Qty",
	UnitPrice:         "Price",
	LineTotal:         "Total",
	Notes:             "Notes:",
	Subtotal:          "Subtotal",
	Discount:          "Discount",
	TotalExclVAT:      "Total excl. VAT",
	VAT:               "VAT",
	GrandTotal:        "Total",
	GrandTotalInclVAT: "Total incl. VAT",
	Footer:            "Thank you for your visit",
	Preview:           "PREVIEW - NOT A VALID INVOICE",
}

var arabic = Labels{
	Title:             "فاتورة ضريبية",
	VATNumber:         "الرقم الضريبي",
	CommercialReg:     "السجل التجاري",
	Phone:             "هاتف",
	Email:             "البريد الإلكتروني",
	Customer:          "العميل",
	CashCustomer:      "عميل نقدي",
	CustomerVAT:       "الرقم الضريبي للعميل",
	InvoiceNumber:     "رقم الفاتورة",
	Date:              "التاريخ",
	Cashier:           "الكاشير",
	Payment:           "طريقة الدفع",
	Item:              "الصنف",
	Quantity:          "الكمية",
	UnitPrice:         "السعر",
	LineTotal:         "المجموع",
	Notes:             "ملاحظات:",
	Subtotal:          "المجموع الفرعي",
	Discount:          "الخصم",
	TotalExclVAT:      "الإجمالي قبل الضريبة",
	VAT:               "ضريبة القيمة المضافة",
	GrandTotal:        "الإجمالي",
	GrandTotalInclVAT: "الإجمالي شامل الضريبة",
	Footer:            "شكراً لزيارتكم",
	Preview:           "معاينة - ليست فاتورة صالحة",
}

var (
	supported = []language.Tag{language.English, language.Arabic}
	catalog   = []Labels{english, arabic}
	matcher   = language.NewMatcher(supported)
)

// DefaultLanguage is used when a schema names no language
const DefaultLanguage = "en"

// LabelsFor returns the caption set closest to lang, English by default.
// The language only selects captions; it never decides text direction.
func LabelsFor(lang string) Labels {
	if lang == "" {
		return english
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return english
	}
	return catalog[idx]
}
