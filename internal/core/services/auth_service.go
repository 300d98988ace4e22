package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

// LoginRecorder counts login outcomes; the metrics adapter implements it.
type LoginRecorder interface {
	RecordLogin(kind domain.PrincipalKind, ok bool)
}

type AuthService struct {
	staff    ports.StaffRepository
	clients  ports.ClientRepository
	hasher   ports.PasswordHasher
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time
	recorder LoginRecorder
}

var _ ports.AuthService = (*AuthService)(nil)

type AuthConfig struct {
	SessionTTL time.Duration
	Log        zerolog.Logger
	Now        func() time.Time
	Recorder   LoginRecorder
}

func NewAuthService(
	staff ports.StaffRepository,
	clients ports.ClientRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionStore,
	tokens ports.TokenIssuer,
	cfg AuthConfig,
) *AuthService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		staff:    staff,
		clients:  clients,
		hasher:   hasher,
		sessions: sessions,
		tokens:   tokens,
		ttl:      cfg.SessionTTL,
		log:      cfg.Log.With().Str("component", "auth").Logger(),
		now:      now,
		recorder: cfg.Recorder,
	}
}

// Login resolves exactly one principal by email, staff first, then clients.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.resolvePrincipal(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session.ID = uuid.NewString()
	session.IssuedAt = s.now().UTC()

	if err := s.sessions.Save(ctx, *session, s.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.tokens.Issue(*session, s.ttl)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().
		Int64("principal_id", session.PrincipalID).
		Str("kind", string(session.Kind)).
		Msg("login succeeded")

	return &ports.LoginResult{Token: token, Session: session}, nil
}

// resolvePrincipal looks the email up in both principal tables. The store keeps
// an address to one principal; if both tables still match, login is refused
// rather than guessing which record the caller meant.
func (s *AuthService) resolvePrincipal(ctx context.Context, email, password string) (*domain.Session, error) {
	staff, err := s.staff.FindStaffByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find staff: %w", err)
	}
	client, err := s.clients.FindClientByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find client: %w", err)
	}

	switch {
	case staff != nil && client != nil:
		s.log.Error().
			Int64("staff_id", staff.ID).
			Int64("client_id", client.ID).
			Msg("email resolves to both a staff member and a client")
		s.record(domain.PrincipalStaff, false)
		return nil, domain.ErrInvalidCredentials
	case staff != nil:
		if !s.hasher.Verify(staff.PasswordHash, password) {
			s.record(domain.PrincipalStaff, false)
			return nil, domain.ErrInvalidCredentials
		}
		s.record(domain.PrincipalStaff, true)
		return &domain.Session{
			PrincipalID: staff.ID,
			Kind:        domain.PrincipalStaff,
			DisplayName: staff.Username,
			Role:        staff.Role,
		}, nil
	case client != nil:
		if !s.hasher.Verify(client.PasswordHash, password) {
			s.record(domain.PrincipalClient, false)
			return nil, domain.ErrInvalidCredentials
		}
		s.record(domain.PrincipalClient, true)
		return &domain.Session{
			PrincipalID: client.ID,
			Kind:        domain.PrincipalClient,
			DisplayName: client.Username,
			Role:        domain.RoleNone,
		}, nil
	}
	s.record(domain.PrincipalClient, false)
	return nil, domain.ErrInvalidCredentials
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resolve maps a bearer token to its live session. A well-signed token whose
// session was cleared by Logout or expired is rejected.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	session, err := s.sessions.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: session ended", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *AuthService) record(kind domain.PrincipalKind, ok bool) {
	if s.recorder != nil {
		s.recorder.RecordLogin(kind, ok)
	}
}
