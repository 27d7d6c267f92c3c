package httpapi

import (
	"context"
	"net/http"

	"github.com/Nickgiresse/patis-t/internal/auth"
	"github.com/Nickgiresse/patis-t/internal/cart"
	"github.com/Nickgiresse/patis-t/internal/catalog"
	"github.com/Nickgiresse/patis-t/internal/checkout"
	"github.com/Nickgiresse/patis-t/internal/order"
)

// CheckoutService runs the order submission pipeline.
type CheckoutService interface {
	Submit(ctx context.Context, cartID string, customer order.Customer) (*checkout.Result, error)
}

// AuthService manages admin accounts and bearer tokens.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (auth.PublicUser, error)
	Login(ctx context.Context, email, password string) (string, auth.PublicUser, error)
	Verify(token string) bool
}

// InvoiceFiles resolves stored invoice filenames to disk paths.
type InvoiceFiles interface {
	Path(filename string) string
}

type Handler struct {
	catalog  catalog.Repository
	orders   order.Repository
	carts    *cart.Store
	checkout CheckoutService
	auth     AuthService
	invoices InvoiceFiles
}

func NewHandler(
	cat catalog.Repository,
	orders order.Repository,
	carts *cart.Store,
	co CheckoutService,
	authSvc AuthService,
	invoices InvoiceFiles,
) *Handler {
	return &Handler{
		catalog:  cat,
		orders:   orders,
		carts:    carts,
		checkout: co,
		auth:     authSvc,
		invoices: invoices,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}
