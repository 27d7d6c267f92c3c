package invoice

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Nickgiresse/patis-t/internal/order"
)

// Vendor is the fixed header block printed on every invoice.
type Vendor struct {
	Name     string
	Address1 string
	Address2 string
	Phone    string
	Footer   string
}

var DefaultVendor = Vendor{
	Name:     "Patis't Délice",
	Address1: "123 Rue de la Pâtisserie",
	Address2: "75001 Paris",
	Phone:    "Tél: 01 23 45 67 89",
	Footer:   "Merci pour votre commande ! À très bientôt chez Patis't Délice",
}

// Renderer produces the printable invoice for a completed checkout. Rendering
// is deterministic for a given clock: same inputs, same document.
type Renderer struct {
	vendor Vendor
	now    func() time.Time
}

func NewRenderer(vendor Vendor) *Renderer {
	return &Renderer{vendor: vendor, now: time.Now}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename derives the invoice filename from the order number and customer
// name, whitespace runs collapsed to underscores.
func Filename(orderNumber, customerName string) string {
	return fmt.Sprintf("facture_%s_%s.pdf", orderNumber, whitespaceRun.ReplaceAllString(customerName, "_"))
}

func euros(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " €"
}

func frDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// Render lays out and renders the invoice, returning the PDF bytes and the
// derived filename.
func (r *Renderer) Render(customer order.Customer, items []order.Item, orderNumber string) ([]byte, string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	text := func(x, y float64, s string) {
		pdf.Text(x, y, tr(s))
	}

	// Vendor header
	pdf.SetFont("Helvetica", "", 22)
	text(leftX, 20, r.vendor.Name)
	pdf.SetFont("Helvetica", "", 10)
	text(leftX, 27, r.vendor.Address1)
	text(leftX, 32, r.vendor.Address2)
	text(leftX, 37, r.vendor.Phone)

	// Invoice metadata
	pdf.SetFont("Helvetica", "", 18)
	text(150, 20, "FACTURE")
	pdf.SetFont("Helvetica", "", 10)
	text(150, 27, "N° "+orderNumber)
	text(150, 32, "Date: "+frDate(r.now()))

	// Customer block
	pdf.SetFont("Helvetica", "", 12)
	text(leftX, 50, "Client:")
	pdf.SetFont("Helvetica", "", 10)
	text(leftX, 57, customer.Name)
	text(leftX, 62, customer.Email)
	text(leftX, 67, customer.Phone)
	if customer.Address != "" {
		text(leftX, 72, customer.Address)
	}

	orderType := "Retrait en magasin"
	if customer.OrderType == order.TypeDelivery {
		orderType = "Livraison à domicile"
	}
	text(leftX, 82, "Type: "+orderType)
	if customer.PickupDate != nil {
		text(leftX, 87, "Date de retrait: "+frDate(*customer.PickupDate))
	}

	// Table header
	pdf.SetFont("Helvetica", "B", 10)
	text(leftX, tableHeaderY, "Article")
	text(qtyX, tableHeaderY, "Qté")
	text(unitX, tableHeaderY, "Prix Unit.")
	text(lineTotalX, tableHeaderY, "Total")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Line(leftX, tableHeaderY+2, rightX, tableHeaderY+2)

	split := func(s string, width float64) []string {
		return pdf.SplitText(tr(s), width)
	}
	layout := layoutItems(items, split)

	for _, row := range layout.Rows {
		for i, line := range row.NameLines {
			if !row.Wrapped {
				line = tr(line) // wrapped lines were translated before splitting
			}
			pdf.Text(leftX, row.NameY+float64(i)*wrapLineHeight, line)
		}
		text(qtyX, row.ValueY, strconv.Itoa(row.Quantity))
		text(unitX, row.ValueY, euros(row.UnitPrice))
		text(lineTotalX, row.ValueY, euros(row.LineTotal))
	}

	// Grand total
	pdf.Line(leftX, layout.TotalRuleY, rightX, layout.TotalRuleY)
	pdf.SetFont("Helvetica", "B", 12)
	text(qtyX, layout.TotalRowY, "TOTAL TTC")
	text(lineTotalX, layout.TotalRowY, euros(layout.Total))

	// Notes
	if customer.Notes != "" {
		y := layout.TotalRowY + 15
		pdf.SetFont("Helvetica", "", 10)
		text(leftX, y, "Notes:")
		for i, line := range pdf.SplitText(tr(customer.Notes), notesColumnWidth) {
			pdf.Text(leftX, y+5+float64(i)*wrapLineHeight, line)
		}
	}

	// Footer, centered
	pdf.SetFont("Helvetica", "", 8)
	footer := tr(r.vendor.Footer)
	pdf.Text(footerX-pdf.GetStringWidth(footer)/2, footerY, footer)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render invoice %s: %w", orderNumber, err)
	}
	return buf.Bytes(), Filename(orderNumber, customer.Name), nil
}
