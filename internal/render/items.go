package render

import (
	"io"
	"strings"

	"github.com/rezonia/invoice-renderer/internal/decimal"
	"github.com/rezonia/invoice-renderer/internal/model"
)

// Column label keys accepted in the items section config
const (
	ColumnItem      = "item"
	ColumnQuantity  = "quantity"
	ColumnUnitPrice = "unitPrice"
	ColumnLineTotal = "lineTotal"
)

type itemRow struct {
	Name      string
	Quantity  string
	UnitPrice string
	LineTotal string
	Notes     string
}

// ItemsRenderer prints one row per line item. An item with a non-blank
// note is followed by exactly one column-spanning detail row.
type ItemsRenderer struct{}

func (ItemsRenderer) Kind() model.SectionKind { return model.SectionItems }

func (ItemsRenderer) Render(w io.Writer, sec model.Section, doc *Document) error {
	cfg, l := sec.Config, doc.Labels

	view := struct {
		Item       string
		Quantity   string
		UnitPrice  string
		LineTotal  string
		NotesLabel string
		Rows       []itemRow
	}{
		Item:       column(cfg.Labels, ColumnItem, l.Item),
		Quantity:   column(cfg.Labels, ColumnQuantity, l.Quantity),
		UnitPrice:  column(cfg.Labels, ColumnUnitPrice, l.UnitPrice),
		LineTotal:  column(cfg.Labels, ColumnLineTotal, l.LineTotal),
		NotesLabel: cfg.NotesLabel,
		Rows:       make([]itemRow, 0, len(doc.Sale.Items)),
	}
	if view.NotesLabel == "" {
		view.NotesLabel = l.Notes
	}

	for i := range doc.Sale.Items {
		item := &doc.Sale.Items[i]
		row := itemRow{
			Name:      item.ProductName,
			Quantity:  decimal.FormatQuantity(item.Quantity),
			UnitPrice: decimal.Format(item.UnitPrice),
			LineTotal: decimal.Format(item.LineTotal),
		}
		if item.HasNotes() {
			row.Notes = strings.TrimSpace(item.Notes)
		}
		view.Rows = append(view.Rows, row)
	}
	return fragments.ExecuteTemplate(w, "items", view)
}

func column(labels map[string]string, key, def string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return def
}
