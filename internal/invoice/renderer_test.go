package invoice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nickgiresse/patis-t/internal/order"
)

// fakeSplit breaks a string into fixed 40-rune chunks, ignoring width.
func fakeSplit(s string, _ float64) []string {
	runes := []rune(s)
	var lines []string
	for len(runes) > 40 {
		lines = append(lines, string(runes[:40]))
		runes = runes[40:]
	}
	return append(lines, string(runes))
}

func TestLayoutShortNamesAdvanceByRowHeight(t *testing.T) {
	items := []order.Item{
		{ProductName: "Tarte aux Fruits", Quantity: 1, Price: 28},
		{ProductName: "Macarons Assortis", Quantity: 2, Price: 24},
	}
	l := layoutItems(items, fakeSplit)

	require.Len(t, l.Rows, 2)
	assert.Equal(t, itemsStartY, l.Rows[0].NameY)
	assert.Equal(t, l.Rows[0].NameY, l.Rows[0].ValueY)
	assert.Equal(t, itemsStartY+rowHeight, l.Rows[1].NameY)
	assert.InDelta(t, 76.0, l.Total, 1e-9)
}

func TestLayoutWrappedNameShiftsFollowingRows(t *testing.T) {
	long := strings.Repeat("Gâteau d'anniversaire personnalisé ", 3) // > 40 runes
	items := []order.Item{
		{ProductName: long, Quantity: 1, Price: 35},
		{ProductName: "Croissant au Beurre", Quantity: 4, Price: 1.8},
	}
	l := layoutItems(items, fakeSplit)

	require.Len(t, l.Rows, 2)
	wrapped := len(l.Rows[0].NameLines)
	require.Greater(t, wrapped, 1)

	// numeric cells drop below the wrapped name block
	assert.Equal(t, l.Rows[0].NameY+float64(wrapped)*wrapLineHeight, l.Rows[0].ValueY)

	// the next row starts strictly below the prior row's start by at least one
	// extra line-height per wrapped line: no overlap
	assert.Equal(t, l.Rows[0].NameY+float64(wrapped)*wrapLineHeight+rowHeight, l.Rows[1].NameY)
	assert.Greater(t, l.Rows[1].NameY, l.Rows[0].NameY+float64(wrapped-1)*wrapLineHeight+rowHeight)
}

func TestLayoutTotalRowsSitBelowItems(t *testing.T) {
	items := []order.Item{
		{ProductName: "Éclair au Chocolat", Quantity: 2, Price: 4.5},
	}
	l := layoutItems(items, fakeSplit)

	lastRow := l.Rows[len(l.Rows)-1]
	assert.Greater(t, l.TotalRuleY, lastRow.ValueY)
	assert.Greater(t, l.TotalRowY, l.TotalRuleY)
	assert.InDelta(t, 9.0, l.Total, 1e-9)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "facture_CMD123_Marie_Dubois.pdf", Filename("CMD123", "Marie Dubois"))
	assert.Equal(t, "facture_CMD123_Jean_Pierre_Martin.pdf", Filename("CMD123", "Jean  Pierre\tMartin"))
}

func TestEuros(t *testing.T) {
	assert.Equal(t, "4.50 €", euros(4.5))
	assert.Equal(t, "37.00 €", euros(37))
	assert.Equal(t, "1.80 €", euros(1.8))
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(DefaultVendor)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	pickup := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	customer := order.Customer{
		Name:       "Marie Dubois",
		Email:      "marie@example.com",
		Phone:      "0601020304",
		OrderType:  order.TypePickup,
		PickupDate: &pickup,
		Notes:      "Sans gluten si possible",
	}
	items := []order.Item{
		{ProductID: "p1", ProductName: "Éclair au Chocolat", Quantity: 2, Price: 4.5},
		{ProductID: "p2", ProductName: strings.Repeat("Pièce montée choux caramel et nougatine ", 2), Quantity: 1, Price: 120},
	}

	data, filename, err := r.Render(customer, items, "CMD1772445600000")
	require.NoError(t, err)
	assert.Equal(t, "facture_CMD1772445600000_Marie_Dubois.pdf", filename)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
