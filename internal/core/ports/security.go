package ports

import (
	"context"
	"time"

	"github.com/startailored/records-service/internal/core/domain"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) bool
}

type EmailValidator = domain.EmailValidator

// SessionStore keeps sessions keyed by session id. Get returns
// domain.ErrNotFound once a session was deleted or has expired.
type SessionStore interface {
	Save(ctx context.Context, s domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenIssuer turns a session into the bearer token handed to the caller and
// back into the session id.
type TokenIssuer interface {
	Issue(s domain.Session, ttl time.Duration) (string, error)
	Parse(token string) (string, error)
}
