package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// mutateCart applies fn under the session lock and replies with the result.
func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, fn func(c *cart.Store)) {
	var snap cart.Snapshot
	currentSession(r).With(func(st session.State) {
		if fn != nil {
			fn(st.Cart)
		}
		snap = st.Cart.Snapshot()
	})
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, nil)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	p, err := h.d.Catalog.Find(body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	h.mutateCart(w, r, func(c *cart.Store) { c.AddItem(p) })
}

// UpdateCartItem applies a signed delta. Unknown product ids leave the cart
// unchanged and still return 200 with the current cart.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta *int `json:"delta"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Delta == nil {
		writeError(w, r, http.StatusBadRequest, "delta is required")
		return
	}

	id := chi.URLParam(r, "productId")
	h.mutateCart(w, r, func(c *cart.Store) { c.UpdateQuantity(id, *body.Delta) })
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	h.mutateCart(w, r, func(c *cart.Store) { c.RemoveItem(id) })
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, func(c *cart.Store) { c.Clear() })
}
