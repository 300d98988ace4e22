package mocks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

// MockHasher "hashes" by prefixing, so tests can assert on stored values
// without paying for bcrypt.
type MockHasher struct {
	HashError error
}

var _ ports.PasswordHasher = (*MockHasher)(nil)

const hashPrefix = "hashed:"

func (h *MockHasher) Hash(plaintext string) (string, error) {
	if h.HashError != nil {
		return "", h.HashError
	}
	return hashPrefix + plaintext, nil
}

func (h *MockHasher) Verify(hash, plaintext string) bool {
	return hash == hashPrefix+plaintext
}

// MockEmailValidator accepts anything shaped like local@domain.tld.
type MockEmailValidator struct{}

var _ ports.EmailValidator = MockEmailValidator{}

func (MockEmailValidator) ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".") && !strings.ContainsAny(email, " \t")
}

// MockTokenIssuer issues "token:<session id>".
type MockTokenIssuer struct {
	IssueError error
}

var _ ports.TokenIssuer = (*MockTokenIssuer)(nil)

const tokenPrefix = "token:"

func (m *MockTokenIssuer) Issue(s domain.Session, ttl time.Duration) (string, error) {
	if m.IssueError != nil {
		return "", m.IssueError
	}
	return tokenPrefix + s.ID, nil
}

func (m *MockTokenIssuer) Parse(token string) (string, error) {
	id, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok || id == "" {
		return "", errors.New("malformed token")
	}
	return id, nil
}

// MockSessionStore keeps sessions in memory and honours TTLs against Now.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]storedSession
	Now      func() time.Time

	SaveError   error
	GetError    error
	DeleteError error

	SaveCalls   int
	DeleteCalls int
}

type storedSession struct {
	session   domain.Session
	expiresAt time.Time
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]storedSession), Now: time.Now}
}

func (m *MockSessionStore) Save(ctx context.Context, s domain.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	var exp time.Time
	if ttl > 0 {
		exp = m.Now().Add(ttl)
	}
	m.sessions[s.ID] = storedSession{session: s, expiresAt: exp}
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	st, ok := m.sessions[id]
	if !ok || (!st.expiresAt.IsZero() && m.Now().After(st.expiresAt)) {
		return nil, domain.ErrNotFound
	}
	s := st.session
	return &s, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored, expired ones included.
func (m *MockSessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
