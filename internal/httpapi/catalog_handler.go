package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/messaging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type productList struct {
	Products []catalog.Product      `json:"products"`
	Count    int                    `json:"count"`
	Criteria catalog.FilterCriteria `json:"criteria"`
}

type shopView struct {
	productList
	Categories []string `json:"categories"`
}

func rawCriteriaFromQuery(r *http.Request) catalog.RawCriteria {
	q := r.URL.Query()
	return catalog.RawCriteria{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
		InStock:  q.Get("inStock"),
		Sort:     q.Get("sort"),
	}
}

func (h *Handler) listFor(c catalog.FilterCriteria) productList {
	products := h.d.Catalog.Query(c)
	return productList{Products: products, Count: len(products), Criteria: c}
}

// ListProducts answers a one-off query from the URL; it does not touch the
// session's shop criteria.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.listFor(catalog.ParseCriteria(rawCriteriaFromQuery(r))))
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"products": h.d.Catalog.Featured(featuredCount)})
}

func (h *Handler) productFromPath(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	p, err := h.d.Catalog.Find(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return catalog.Product{}, false
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return catalog.Product{}, false
	}
	return p, true
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.productFromPath(w, r); ok {
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *Handler) ShareProduct(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.productFromPath(w, r); ok {
		writeJSON(w, http.StatusOK, messaging.ProductShare(h.d.PublicBaseURL, h.d.StoreName, p))
	}
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.d.Catalog.Facets()})
}

func (h *Handler) shopView(s *session.Session) shopView {
	var c catalog.FilterCriteria
	s.With(func(st session.State) { c = *st.Criteria })
	return shopView{productList: h.listFor(c), Categories: h.d.Catalog.Facets()}
}

func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.shopView(currentSession(r)))
}

// PutShopCriteria replaces the session criteria. Fields the user left blank
// or typed nonsense into fall back to their defaults.
func (h *Handler) PutShopCriteria(w http.ResponseWriter, r *http.Request) {
	var raw catalog.RawCriteria
	if err := decodeJSON(w, r, &raw); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	s := currentSession(r)
	c := catalog.ParseCriteria(raw)
	s.With(func(st session.State) { *st.Criteria = c })

	writeJSON(w, http.StatusOK, h.shopView(s))
}
