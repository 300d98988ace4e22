package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

type contextKey string

const (
	sessionKey contextKey = "session"
	tokenKey   contextKey = "token"
	requestKey contextKey = "request"
)

// WithSession returns ctx carrying s and the bearer token it was resolved from.
func WithSession(ctx context.Context, s *domain.Session, token string) context.Context {
	if info, ok := ctx.Value(requestKey).(*requestInfo); ok {
		info.session = s
	}
	ctx = context.WithValue(ctx, sessionKey, s)
	return context.WithValue(ctx, tokenKey, token)
}

// SessionFrom returns the request's session, nil when unauthenticated.
func SessionFrom(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey).(*domain.Session)
	return s
}

func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// ErrorWriter renders a failure in the API's error envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type AuthMiddleware struct {
	auth     ports.AuthService
	log      zerolog.Logger
	writeErr ErrorWriter
}

func NewAuthMiddleware(auth ports.AuthService, log zerolog.Logger, writeErr ErrorWriter) *AuthMiddleware {
	return &AuthMiddleware{
		auth:     auth,
		log:      log.With().Str("component", "auth_middleware").Logger(),
		writeErr: writeErr,
	}
}

// Authenticate resolves a bearer token into a session. Requests without an
// Authorization header pass through anonymously and are judged by the access
// policy; a header that does not resolve to a live session is rejected.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.log.Debug().Msg("invalid authorization header format")
			m.writeErr(w, r, domain.ErrUnauthorized)
			return
		}

		session, err := m.auth.Resolve(r.Context(), parts[1])
		if err != nil {
			m.log.Debug().Err(err).Msg("session not resolved")
			m.writeErr(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session, parts[1])))
	})
}

// RequireSession rejects anonymous requests before they reach next.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFrom(r.Context()) == nil {
			m.writeErr(w, r, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
