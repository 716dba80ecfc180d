package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func TestCorrelationIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(HeaderCorrelationID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(HeaderCorrelationID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, strings.Repeat("x", maxCorrelationIDLen+1))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Len(t, seen, 36, "oversized id is replaced by a uuid")
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	tests := map[string]struct {
		allow      []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		"allowed origin": {
			allow: []string{"https://shop.example"}, origin: "https://shop.example",
			method: http.MethodGet, wantStatus: http.StatusTeapot, wantOrigin: "https://shop.example",
		},
		"unknown origin": {
			allow: []string{"https://shop.example"}, origin: "https://evil.example",
			method: http.MethodGet, wantStatus: http.StatusTeapot,
		},
		"wildcard reflects origin": {
			allow: []string{"*"}, origin: "http://localhost:5173",
			method: http.MethodGet, wantStatus: http.StatusTeapot, wantOrigin: "http://localhost:5173",
		},
		"preflight": {
			allow: []string{"*"}, origin: "http://localhost:5173",
			method: http.MethodOptions, wantStatus: http.StatusNoContent, wantOrigin: "http://localhost:5173",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/cart", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()
			CORS(tc.allow)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecoverWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	h := CorrelationID(Recover(log.New(&buf, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"internal server error"`)
	assert.Contains(t, rr.Body.String(), rr.Header().Get(HeaderCorrelationID))
	assert.Contains(t, buf.String(), "panic in GET /")
	assert.Contains(t, buf.String(), ": boom")
}

func TestSessionCookie(t *testing.T) {
	m := session.NewManager(time.Hour, nil)
	var got *session.Session
	h := Session(m, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSession(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, got)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, got.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	first := got
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Same(t, first, got)
	assert.Empty(t, rr.Result().Cookies(), "existing session is not re-issued")
}

func TestSessionCookieSameSite(t *testing.T) {
	tests := map[string]struct {
		secure       bool
		wantSameSite http.SameSite
	}{
		"same-site frontend":  {secure: false, wantSameSite: http.SameSiteLaxMode},
		"cross-site frontend": {secure: true, wantSameSite: http.SameSiteNoneMode},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := Session(session.NewManager(time.Hour, nil), tc.secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			cookies := rr.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, tc.wantSameSite, cookies[0].SameSite)
			assert.Equal(t, tc.secure, cookies[0].Secure)
		})
	}
}
