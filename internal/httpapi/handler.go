package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/chat"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sink"
)

const featuredCount = 3

type Deps struct {
	Logger *log.Logger

	Catalog   *catalog.Catalog
	Sessions  *session.Manager
	Assembler *order.Assembler
	Submitter *sink.Submitter
	Chat      *chat.Service
	// Metrics is optional.
	Metrics *metrics.Metrics

	StoreName        string
	PublicBaseURL    string
	CORSAllowOrigins []string
	SecureCookies    bool
	// SinkWait caps how long checkout waits for the record submission.
	SinkWait time.Duration
}

type Handler struct {
	d Deps
}

func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	return &Handler{d: d}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}

// currentSession is only valid behind the Session middleware.
func currentSession(r *http.Request) *session.Session {
	return middleware.GetSession(r.Context())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}
