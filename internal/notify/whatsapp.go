package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Nickgiresse/patis-t/internal/order"
)

// DefaultRecipient is the bakery's WhatsApp number.
const DefaultRecipient = "656966582"

// WhatsApp builds the order-summary deep-link. Firing the link is
// fire-and-forget: whether the message is ever delivered is outside this
// system's observability, so there is nothing here but string building.
type WhatsApp struct {
	Recipient string
}

func NewWhatsApp(recipient string) *WhatsApp {
	if recipient == "" {
		recipient = DefaultRecipient
	}
	return &WhatsApp{Recipient: recipient}
}

// Message formats the multi-line order summary sent to the bakery.
func Message(customer order.Customer, items []order.Item, orderNumber string) string {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	var b strings.Builder
	b.WriteString("🎂 *Nouvelle commande - Patis't Délice*\n\n")
	fmt.Fprintf(&b, "📋 *Commande N°:* %s\n", orderNumber)
	fmt.Fprintf(&b, "👤 *Client:* %s\n", customer.Name)
	fmt.Fprintf(&b, "📧 *Email:* %s\n", customer.Email)
	fmt.Fprintf(&b, "📱 *Téléphone:* %s\n\n", customer.Phone)

	orderType := "Retrait en magasin"
	if customer.OrderType == order.TypeDelivery {
		orderType = "Livraison"
	}
	fmt.Fprintf(&b, "🛵 *Type:* %s\n", orderType)

	if customer.OrderType == order.TypeDelivery && customer.Address != "" {
		fmt.Fprintf(&b, "📍 *Adresse:* %s\n", customer.Address)
	}
	if customer.PickupDate != nil {
		fmt.Fprintf(&b, "📅 *Date de retrait:* %s\n", customer.PickupDate.Format("02/01/2006"))
	}

	b.WriteString("\n🍰 *Articles commandés:*\n")
	for _, it := range items {
		fmt.Fprintf(&b, "• %s x%d - %.2f€\n", it.ProductName, it.Quantity, it.Price*float64(it.Quantity))
	}

	fmt.Fprintf(&b, "\n💰 *Total:* %.2f€\n", total)

	if customer.Notes != "" {
		fmt.Fprintf(&b, "\n📝 *Notes:* %s\n", customer.Notes)
	}
	return b.String()
}

// Link percent-encodes the summary and appends it to the wa.me deep-link.
func (w *WhatsApp) Link(customer order.Customer, items []order.Item, orderNumber string) string {
	msg := Message(customer, items, orderNumber)
	encoded := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", w.Recipient, encoded)
}
