package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nickgiresse/patis-t/internal/cart"
)

func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	id := h.carts.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"cartId": id})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	items, err := h.carts.Items(cartID)
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	count, _ := h.carts.Count(cartID)

	writeJSON(w, http.StatusOK, map[string]any{
		"cartId": cartID,
		"items":  items,
		"count":  count,
	})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	qty, err := h.carts.Add(cartID, body.ProductID)
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"productId": body.ProductID,
		"quantity":  qty,
	})
}

// RemoveCartItem decrements the entry by one; with ?all=1 it clears the entry
// regardless of quantity.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	productID := chi.URLParam(r, "productId")

	var err error
	if r.URL.Query().Get("all") == "1" {
		err = h.carts.ClearItem(cartID, productID)
	} else {
		err = h.carts.Remove(cartID, productID)
	}
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			writeError(w, http.StatusNotFound, "cart not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
