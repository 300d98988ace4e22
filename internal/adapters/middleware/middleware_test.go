package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
	"github.com/startailored/records-service/internal/mocks"
)

type stubAuth struct {
	sessions map[string]*domain.Session
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuth) Logout(ctx context.Context, token string) error { return nil }

func (s *stubAuth) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if sess, ok := s.sessions[token]; ok {
		return sess, nil
	}
	return nil, domain.ErrUnauthorized
}

func writeCode(w http.ResponseWriter, r *http.Request, err error) {
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(domain.CodeOf(err)))
}

func echoSession(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	if s == nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(s.DisplayName + "|" + middleware.TokenFrom(r.Context())))
}

func newAuthMiddleware() *middleware.AuthMiddleware {
	sess := mocks.StaffSession(1, domain.RoleAdmin)
	sess.DisplayName = "Njeri"
	return middleware.NewAuthMiddleware(&stubAuth{sessions: map[string]*domain.Session{"good": sess}}, zerolog.Nop(), writeCode)
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "no_header_passes_anonymously", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "valid_bearer", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "Njeri|good"},
		{name: "scheme_is_case_insensitive", header: "bearer good", wantStatus: http.StatusOK, wantBody: "Njeri|good"},
		{name: "unknown_token", header: "Bearer stale", wantStatus: http.StatusUnauthorized, wantBody: "UNAUTHORIZED"},
		{name: "wrong_scheme", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized, wantBody: "UNAUTHORIZED"},
		{name: "missing_token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantBody: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthMiddleware().Authenticate(http.HandlerFunc(echoSession))
			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRequireSession(t *testing.T) {
	m := newAuthMiddleware()
	h := m.Authenticate(m.RequireSession(http.HandlerFunc(echoSession)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		preflight  bool
		wantOrigin string
		wantStatus int
	}{
		{name: "listed_origin", allowed: []string{"https://shop.example"}, origin: "https://shop.example", wantOrigin: "https://shop.example", wantStatus: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://any.example", wantOrigin: "https://any.example", wantStatus: http.StatusOK},
		{name: "unlisted_origin", allowed: []string{"https://shop.example"}, origin: "https://evil.example", wantStatus: http.StatusOK},
		{name: "no_origin", allowed: []string{"*"}, wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"*"}, origin: "https://any.example", preflight: true, wantOrigin: "https://any.example", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			h := middleware.CORSMiddleware(tt.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))
			method := http.MethodGet
			if tt.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/clients", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, !tt.preflight, reached)
		})
	}
}

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	o.seen = append(o.seen, observation{method: method, route: route, status: status})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	obs := &recordingObserver{}
	m := newAuthMiddleware()

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(zerolog.New(&buf), obs))
	r.Use(m.Authenticate)
	r.Get("/staff/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/staff/42", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, obs.seen, 1)
	assert.Equal(t, observation{method: http.MethodGet, route: "/staff/{id}", status: http.StatusTeapot}, obs.seen[0])

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/staff/42", line["path"])
	assert.Equal(t, "/staff/{id}", line["route"])
	assert.EqualValues(t, 418, line["status"])
	assert.EqualValues(t, 1, line["principal_id"])
	assert.Equal(t, "request processed", line["message"])
}
