package middleware

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const SessionCookie = "storefront_session"

// Session attaches the caller's session to the request context, starting a
// new one (and setting the cookie) when the cookie is missing or stale.
//
// Without secure the cookie is SameSite=Lax, so the frontend must be served
// from the same site. With secure it is SameSite=None, which browsers require
// before sending it on cross-site credentialed fetches.
func Session(m *session.Manager, secure bool) func(http.Handler) http.Handler {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			s, created := m.Resolve(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    s.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: sameSite,
				})
			}

			ctx := context.WithValue(r.Context(), ctxSession, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns nil outside the Session middleware.
func GetSession(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxSession).(*session.Session)
	return s
}
