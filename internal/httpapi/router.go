package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(h.d.Logger))
	r.Use(chimw.Logger)
	r.Use(middleware.CORS(h.d.CORSAllowOrigins))
	if h.d.Metrics != nil {
		r.Use(h.d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.d.Metrics.Handler())
	}

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/featured", h.FeaturedProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/products/{id}/share", h.ShareProduct)
		r.Get("/categories", h.Categories)

		r.Get("/chat/greeting", h.ChatGreeting)
		r.Post("/chat", h.Chat)

		r.Get("/submissions/{id}", h.GetSubmission)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(h.d.Sessions, h.d.SecureCookies))

			r.Get("/shop", h.GetShop)
			r.Put("/shop/criteria", h.PutShopCriteria)

			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Patch("/cart/items/{productId}", h.UpdateCartItem)
			r.Delete("/cart/items/{productId}", h.RemoveCartItem)

			r.Post("/checkout", h.Checkout)
		})
	})

	return r
}
