package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nickgiresse/patis-t/internal/order"
)

// CreateOrder is the raw order-write endpoint. Clients driving their own
// checkout post a prepared payload; the checkout endpoint is the usual path.
// The body is stored as given: no server-side re-pricing happens here.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderNumber string         `json:"orderNumber"`
		Customer    order.Customer `json:"customer"`
		Items       []order.Item   `json:"items"`
		Total       float64        `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o := &order.Order{
		OrderNumber: body.OrderNumber,
		Customer:    body.Customer,
		Items:       body.Items,
		Total:       body.Total,
	}
	if err := h.orders.Create(ctx, o); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
