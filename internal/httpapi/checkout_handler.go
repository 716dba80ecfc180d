package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sink"
)

const (
	warnSinkFailed  = "We could not save your order record. Please send the WhatsApp message so we can confirm it."
	warnSinkPending = "Your order record is still being saved. Please send the WhatsApp message to confirm."
)

type checkoutRequest struct {
	Details       order.Details `json:"details"`
	PaymentMethod string        `json:"paymentMethod"`
}

type checkoutResponse struct {
	*order.Assembly
	Submission sink.Submission `json:"submission"`
	Warning    string          `json:"warning,omitempty"`
}

// Checkout assembles the order and empties the cart in one step under the
// session lock, then hands the record to the sink without holding the lock.
// A sink failure is reported as a warning; the order itself stands.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	var (
		asm *order.Assembly
		err error
	)
	currentSession(r).With(func(st session.State) {
		asm, err = h.d.Assembler.Assemble(st.Cart.Lines(), req.Details, order.PaymentMethod(req.PaymentMethod))
		if err == nil {
			st.Cart.Clear()
		}
	})
	if err != nil {
		h.rejectCheckout(w, r, err)
		return
	}
	h.countCheckout("placed")

	handle := h.d.Submitter.Submit(r.Context(), asm.Payload)
	waitCtx, cancel := context.WithTimeout(r.Context(), h.d.SinkWait)
	sub, waitErr := handle.Wait(waitCtx)
	cancel()

	resp := checkoutResponse{Assembly: asm, Submission: sub}
	switch {
	case waitErr != nil:
		resp.Warning = warnSinkPending
	case sub.Status == sink.StatusFailed:
		resp.Warning = warnSinkFailed
	}

	h.d.Logger.Printf("checkout: placed total=%v payment=%s submission=%s status=%s",
		asm.Order.TotalAmount, asm.Order.PaymentMethod, sub.ID, sub.Status)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) rejectCheckout(w http.ResponseWriter, r *http.Request, err error) {
	var ve *order.ValidationError
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		h.countCheckout("empty_cart")
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &ve):
		h.countCheckout("invalid_details")
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:         "invalid order details",
			CorrelationID: middleware.GetCorrelationID(r.Context()),
			Fields:        ve.Fields,
		})
	case errors.Is(err, order.ErrInvalidPaymentMethod):
		h.countCheckout("invalid_payment")
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.d.Logger.Printf("checkout: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) countCheckout(result string) {
	if h.d.Metrics != nil {
		h.d.Metrics.Checkout(result)
	}
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.d.Submitter.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "submission not found")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
