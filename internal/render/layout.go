package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// Fragment is the rendered markup of one section
type Fragment struct {
	SectionID string
	Kind      model.SectionKind
	HTML      template.HTML
}

// Plan returns the sections to render: ascending order, stable on ties,
// invisible sections removed. The schema is not modified.
func Plan(s *model.Schema) []model.Section {
	planned := make([]model.Section, 0, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.Visible {
			planned = append(planned, sec)
		}
	}
	sort.SliceStable(planned, func(i, j int) bool {
		return planned[i].Order < planned[j].Order
	})
	return planned
}

// Direction returns the dir attribute value. It comes from the schema flag
// alone and is never derived from content.
func Direction(s *model.Schema) string {
	if s.RTL {
		return "rtl"
	}
	return "ltr"
}

// PageCSS returns the sizing rules that keep preview and print widths equal
func PageCSS(s *model.Schema) string {
	width := s.Width().String() + "mm"
	size := width + " auto"
	if h := s.Height(); h.IsPositive() {
		size = width + " " + h.String() + "mm"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: %s; margin: 0; }\n", size)
	b.WriteString("html, body { margin: 0; padding: 0; }\n")
	fmt.Fprintf(&b, ".invoice-document { width: %s; max-width: %s; box-sizing: border-box; padding: 2mm; font-family: sans-serif; font-size: %s; page-break-inside: avoid; break-inside: avoid; }\n",
		width, width, fontSize(s.PaperSize))
	b.WriteString(".invoice-document .section { page-break-inside: avoid; break-inside: avoid; }\n")
	b.WriteString(".invoice-document table { width: 100%; border-collapse: collapse; }\n")
	b.WriteString(".invoice-document .amount { text-align: end; white-space: nowrap; }\n")
	b.WriteString(".invoice-document .highlight { font-weight: bold; }\n")
	b.WriteString(".invoice-document .item-detail-row td { font-size: 0.9em; font-style: italic; }\n")
	b.WriteString(".invoice-document .compliance-qr img { width: 30mm; height: 30mm; }\n")
	b.WriteString(".preview-banner { text-align: center; font-weight: bold; border: 1px dashed; }\n")
	fmt.Fprintf(&b, "@media print { html, body { width: %s; } .invoice-document { width: %s !important; max-width: %s !important; margin: 0 !important; box-shadow: none !important; } }\n",
		width, width, width)
	return b.String()
}

func fontSize(p model.PaperSize) string {
	switch p {
	case model.PaperThermal58:
		return "9pt"
	case model.PaperThermal80:
		return "10pt"
	}
	return "11pt"
}

type documentView struct {
	Lang         string
	Dir          string
	Title        string
	CSS          template.CSS
	Paper        string
	WidthMM      string
	Style        template.CSS
	Preview      bool
	PreviewLabel string
	Sections     []Fragment
}

// Compose concatenates fragments in order inside one sized, directed
// container and wraps it in a complete HTML document.
func Compose(s *model.Schema, parts []Fragment, doc *Document) (string, error) {
	width := s.Width().String()
	view := documentView{
		Lang:         doc.Language,
		Dir:          Direction(s),
		Title:        doc.Labels.Title + " " + doc.Sale.Number,
		CSS:          template.CSS(PageCSS(s)),
		Paper:        string(s.PaperSize),
		WidthMM:      width,
		Style:        template.CSS("width: " + width + "mm"),
		Preview:      doc.Preview,
		PreviewLabel: doc.Labels.Preview,
		Sections:     parts,
	}

	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, "document", view); err != nil {
		return "", fmt.Errorf("failed to compose document: %w", err)
	}
	return buf.String(), nil
}
