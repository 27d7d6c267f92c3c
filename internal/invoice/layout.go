package invoice

import (
	"unicode/utf8"

	"github.com/Nickgiresse/patis-t/internal/order"
)

// A4 millimetre grid. Positions mirror the printed invoice layout:
// vendor header top-left, invoice metadata top-right, customer block,
// then the items table from tableHeaderY down.
const (
	leftX      = 20.0
	qtyX       = 120.0
	unitX      = 140.0
	lineTotalX = 170.0
	rightX     = 190.0

	tableHeaderY = 100.0
	itemsStartY  = 110.0

	// Names longer than nameWrapThreshold runes wrap into nameColumnWidth-wide
	// lines; each wrapped line pushes everything below down by wrapLineHeight.
	nameWrapThreshold = 40
	nameColumnWidth   = 90.0
	wrapLineHeight    = 5.0
	rowHeight         = 7.0

	notesColumnWidth = 170.0
	footerX          = 105.0
	footerY          = 280.0
)

// splitFunc breaks a string into lines that fit the given width. The renderer
// supplies the font-aware splitter from fpdf; tests supply their own.
type splitFunc func(s string, width float64) []string

type itemRow struct {
	NameLines []string
	Wrapped   bool    // NameLines came from the splitter
	NameY     float64 // baseline of the first name line
	ValueY    float64 // baseline of quantity / unit price / line total
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

type itemsLayout struct {
	Rows       []itemRow
	TotalRuleY float64
	TotalRowY  float64
	Total      float64
}

// layoutItems computes every row's vertical position. Each row starts at the
// previous position plus rowHeight, except after a wrapped name, where the
// numeric cells and all following rows shift down by one wrapLineHeight per
// wrapped line so nothing overlaps.
func layoutItems(items []order.Item, split splitFunc) itemsLayout {
	l := itemsLayout{}
	y := itemsStartY

	for _, it := range items {
		row := itemRow{
			NameY:     y,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			LineTotal: it.Price * float64(it.Quantity),
		}
		l.Total += row.LineTotal

		if utf8.RuneCountInString(it.ProductName) > nameWrapThreshold {
			row.NameLines = split(it.ProductName, nameColumnWidth)
			row.Wrapped = true
			y += float64(len(row.NameLines)) * wrapLineHeight
		} else {
			row.NameLines = []string{it.ProductName}
		}
		row.ValueY = y

		l.Rows = append(l.Rows, row)
		y += rowHeight
	}

	y += 5
	l.TotalRuleY = y
	l.TotalRowY = y + 10
	return l
}
