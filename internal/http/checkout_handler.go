package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/Nickgiresse/patis-t/internal/cart"
	"github.com/Nickgiresse/patis-t/internal/checkout"
	"github.com/Nickgiresse/patis-t/internal/order"
)

// Checkout runs the submission pipeline for a cart. Failure responses name the
// failed step: an order that was never saved reads differently from one whose
// invoice could not be rendered.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var body struct {
		Customer order.Customer `json:"customer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.checkout.Submit(r.Context(), cartID, body.Customer)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"order":       res.Order,
		"invoiceFile": res.InvoiceFile,
		"whatsappUrl": res.WhatsAppURL,
	})
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrCartNotFound) {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}

	var stepError *checkout.StepError
	if !errors.As(err, &stepError) {
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	switch stepError.Step {
	case checkout.StepValidate:
		writeError(w, http.StatusBadRequest, stepError.Err.Error())
	case checkout.StepSnapshot:
		var unknown *cart.UnknownProductError
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		case errors.As(err, &unknown):
			writeError(w, http.StatusBadRequest, unknown.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to read cart")
		}
	case checkout.StepPersist:
		writeError(w, http.StatusInternalServerError, "failed to save order")
	case checkout.StepInvoice:
		writeError(w, http.StatusInternalServerError, "order saved but invoice generation failed")
	default:
		writeError(w, http.StatusInternalServerError, "checkout failed")
	}
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	path := h.invoices.Path(filename)

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
