package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/services"
	"github.com/startailored/records-service/internal/mocks"
)

type loginCounter struct {
	ok, failed map[domain.PrincipalKind]int
}

func newLoginCounter() *loginCounter {
	return &loginCounter{ok: map[domain.PrincipalKind]int{}, failed: map[domain.PrincipalKind]int{}}
}

func (c *loginCounter) RecordLogin(kind domain.PrincipalKind, ok bool) {
	if ok {
		c.ok[kind]++
		return
	}
	c.failed[kind]++
}

type authFixture struct {
	repo     *mocks.MockRepository
	sessions *mocks.MockSessionStore
	tokens   *mocks.MockTokenIssuer
	logins   *loginCounter
	svc      *services.AuthService
	staff    domain.Staff
	client   domain.Client
}

func newAuthFixture() *authFixture {
	repo := mocks.NewMockRepository()
	staff := repo.SeedStaff(mocks.TestStaff("ada@tailors.test", 1001, domain.RoleManager))
	client := repo.SeedClient(mocks.TestClient("bob@clients.test", staff.ID))

	f := &authFixture{
		repo:     repo,
		sessions: mocks.NewMockSessionStore(),
		tokens:   &mocks.MockTokenIssuer{},
		logins:   newLoginCounter(),
		staff:    staff,
		client:   client,
	}
	f.svc = services.NewAuthService(repo, repo, &mocks.MockHasher{}, f.sessions, f.tokens, services.AuthConfig{
		SessionTTL: time.Hour,
		Log:        zerolog.Nop(),
		Recorder:   f.logins,
	})
	return f
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantKind domain.PrincipalKind
		wantRole domain.Role
	}{
		{
			name:     "staff_login_carries_role",
			email:    "ada@tailors.test",
			password: "secret",
			wantKind: domain.PrincipalStaff,
			wantRole: domain.RoleManager,
		},
		{
			name:     "email_is_case_insensitive",
			email:    "  ADA@Tailors.test ",
			password: "secret",
			wantKind: domain.PrincipalStaff,
			wantRole: domain.RoleManager,
		},
		{
			name:     "client_login_has_no_role",
			email:    "bob@clients.test",
			password: "secret",
			wantKind: domain.PrincipalClient,
			wantRole: domain.RoleNone,
		},
		{
			name:     "wrong_password",
			email:    "ada@tailors.test",
			password: "nope",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "wrong_client_password",
			email:    "bob@clients.test",
			password: "nope",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown_email",
			email:    "nobody@tailors.test",
			password: "secret",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:    "empty_credentials",
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()

			res, err := f.svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.CodeUnauthorized, domain.CodeOf(err))
				assert.Equal(t, "Invalid credentials", err.Error())
				assert.Nil(t, res)
				assert.Zero(t, f.sessions.Len())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res.Session)
			assert.Equal(t, tt.wantKind, res.Session.Kind)
			assert.Equal(t, tt.wantRole, res.Session.Role)
			assert.NotEmpty(t, res.Session.ID)
			assert.Equal(t, "token:"+res.Session.ID, res.Token)
			assert.Equal(t, 1, f.sessions.Len())
			assert.Equal(t, 1, f.logins.ok[tt.wantKind])
		})
	}
}

func TestAuthService_LoginRecordsFailures(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Login(context.Background(), "ada@tailors.test", "bad")
	require.Error(t, err)
	_, err = f.svc.Login(context.Background(), "bob@clients.test", "bad")
	require.Error(t, err)

	assert.Equal(t, 1, f.logins.failed[domain.PrincipalStaff])
	assert.Equal(t, 1, f.logins.failed[domain.PrincipalClient])
}

func TestAuthService_LoginRefusesEmailOnBothPrincipals(t *testing.T) {
	f := newAuthFixture()
	shared := mocks.TestClient(f.staff.Email, f.staff.ID)
	shared.PasswordHash, _ = (&mocks.MockHasher{}).Hash("clientpw")
	f.repo.SeedClient(shared)

	for _, password := range []string{"secret", "clientpw"} {
		res, err := f.svc.Login(context.Background(), f.staff.Email, password)

		require.ErrorIs(t, err, domain.ErrInvalidCredentials, password)
		assert.Nil(t, res)
	}
	assert.Zero(t, f.sessions.Len())
	assert.Zero(t, f.logins.ok[domain.PrincipalStaff])
}

func TestAuthService_LoginSessionStoreDown(t *testing.T) {
	f := newAuthFixture()
	f.sessions.SaveError = errors.New("redis down")

	_, err := f.svc.Login(context.Background(), "ada@tailors.test", "secret")

	require.Error(t, err)
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))
}

func TestAuthService_LoginIssueFailureDropsSession(t *testing.T) {
	f := newAuthFixture()
	f.tokens.IssueError = errors.New("no key")

	_, err := f.svc.Login(context.Background(), "ada@tailors.test", "secret")

	require.Error(t, err)
	assert.Zero(t, f.sessions.Len())
	assert.Equal(t, 1, f.sessions.DeleteCalls)
}

func TestAuthService_ResolveAndLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "ada@tailors.test", "secret")
	require.NoError(t, err)

	sess, err := f.svc.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, f.staff.ID, sess.PrincipalID)
	assert.Equal(t, domain.RoleManager, sess.Role)

	require.NoError(t, f.svc.Logout(ctx, res.Token))

	_, err = f.svc.Resolve(ctx, res.Token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ResolveExpiredSession(t *testing.T) {
	f := newAuthFixture()
	clock := &mocks.FixedClock{T: time.Now()}
	f.sessions.Now = clock.Now
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "bob@clients.test", "secret")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = f.svc.Resolve(ctx, res.Token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ResolveMalformedToken(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Resolve(context.Background(), "garbage")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = f.svc.Logout(context.Background(), "garbage")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
