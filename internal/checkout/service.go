package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Nickgiresse/patis-t/internal/cart"
	"github.com/Nickgiresse/patis-t/internal/catalog"
	"github.com/Nickgiresse/patis-t/internal/order"
)

// Step identifies where in the pipeline a submission failed, so "order not
// saved" is never conflated with "order saved but invoice failed".
type Step string

const (
	StepValidate Step = "validate"
	StepSnapshot Step = "snapshot"
	StepPersist  Step = "persist"
	StepInvoice  Step = "invoice"
)

type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

type Catalog interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

type Orders interface {
	Create(ctx context.Context, o *order.Order) error
}

type Renderer interface {
	Render(customer order.Customer, items []order.Item, orderNumber string) ([]byte, string, error)
}

type InvoiceStore interface {
	Save(filename string, data []byte) error
}

type LinkBuilder interface {
	Link(customer order.Customer, items []order.Item, orderNumber string) string
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

// Result is everything a successful submission produces. The client downloads
// the invoice and opens the notification URL; the server has already done the
// rest.
type Result struct {
	Order       *order.Order `json:"order"`
	InvoiceFile string       `json:"invoiceFile"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

// Service runs the order submission pipeline: snapshot the cart against
// current catalog prices, persist the order, render the invoice, build the
// notification link, then clear the cart. Persistence is all-or-nothing: if it
// fails nothing else happens and the cart is untouched. There are no retries
// and no idempotency key; a double submission creates two orders.
type Service struct {
	catalog  Catalog
	orders   Orders
	carts    *cart.Store
	renderer Renderer
	invoices InvoiceStore
	links    LinkBuilder
	events   Publisher
	logger   *log.Logger
	now      func() time.Time
}

func NewService(
	cat Catalog,
	orders Orders,
	carts *cart.Store,
	renderer Renderer,
	invoices InvoiceStore,
	links LinkBuilder,
	events Publisher,
	logger *log.Logger,
) *Service {
	return &Service{
		catalog:  cat,
		orders:   orders,
		carts:    carts,
		renderer: renderer,
		invoices: invoices,
		links:    links,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, cartID string, customer order.Customer) (*Result, error) {
	if err := customer.Validate(); err != nil {
		return nil, stepErr(StepValidate, err)
	}

	items, err := s.carts.Items(cartID)
	if err != nil {
		return nil, stepErr(StepSnapshot, err)
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, stepErr(StepSnapshot, err)
	}
	lines, total, err := cart.Snapshot(items, products)
	if err != nil {
		return nil, stepErr(StepSnapshot, err)
	}

	// Order number is derived from the submission instant. Millisecond
	// resolution is assumed sufficient; eliminating collisions is a non-goal.
	orderNumber := fmt.Sprintf("CMD%d", s.now().UnixMilli())

	o := &order.Order{
		OrderNumber: orderNumber,
		Customer:    customer,
		Items:       snapshotItems(lines),
		Total:       total,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, stepErr(StepPersist, err)
	}

	data, filename, err := s.renderer.Render(customer, o.Items, orderNumber)
	if err != nil {
		return nil, stepErr(StepInvoice, err)
	}
	if err := s.invoices.Save(filename, data); err != nil {
		return nil, stepErr(StepInvoice, err)
	}

	link := s.links.Link(customer, o.Items, orderNumber)

	// Best-effort: the notification side has no delivery guarantees, so a
	// broken broker must not fail an order that is already on disk and in the
	// store.
	if err := s.events.PublishOrderCreated(ctx, o); err != nil {
		s.logger.Printf("publish order.created for %s: %v", orderNumber, err)
	}

	if err := s.carts.Reset(cartID); err != nil {
		s.logger.Printf("reset cart %s after checkout: %v", cartID, err)
	}

	return &Result{Order: o, InvoiceFile: filename, WhatsAppURL: link}, nil
}

// snapshotItems freezes productId, name, quantity and price at submission
// time. Later catalog edits do not touch persisted orders.
func snapshotItems(lines []cart.Line) []order.Item {
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Item{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			Price:       l.Product.Price,
		})
	}
	return items
}
