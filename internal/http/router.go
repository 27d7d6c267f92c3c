package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, corsAllowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(CORS(corsAllowOrigins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/categories", h.ListCategories)
		r.Post("/orders", h.CreateOrder)

		r.Post("/admin/signup", h.AdminSignup)
		r.Post("/admin/login", h.AdminLogin)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.CreateCart)
			r.Get("/{cartId}", h.GetCart)
			r.Post("/{cartId}/items", h.AddCartItem)
			r.Delete("/{cartId}/items/{productId}", h.RemoveCartItem)
			r.Post("/{cartId}/checkout", h.Checkout)
		})

		// admin writes require a bearer token
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(h.auth))
			r.Post("/products", h.CreateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)
			r.Post("/categories", h.CreateCategory)
			r.Get("/orders", h.ListOrders)
		})
	})

	r.Get("/invoices/{filename}", h.GetInvoice)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
