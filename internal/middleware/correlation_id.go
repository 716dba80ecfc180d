package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const HeaderCorrelationID = "X-Correlation-Id"

// maxCorrelationIDLen bounds ids accepted from clients; longer ones are replaced.
const maxCorrelationIDLen = 128

type ctxKey int

const (
	ctxCorrelationID ctxKey = iota
	ctxSession
)

// CorrelationID echoes the caller's id, or a fresh one, on every response
// and makes it available to handlers and sinks.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(HeaderCorrelationID)
		if cid == "" || len(cid) > maxCorrelationIDLen {
			cid = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, cid)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), cid)))
	})
}

func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, cid)
}

// GetCorrelationID returns "" when ctx carries none.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(ctxCorrelationID).(string)
	return cid
}
