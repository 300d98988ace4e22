package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
	"github.com/startailored/records-service/internal/core/services"
	"github.com/startailored/records-service/internal/mocks"
)

func newStaffService(f *fixture) *services.StaffService {
	return services.NewStaffService(f.deps, f.repo, &mocks.MockHasher{}, mocks.MockEmailValidator{})
}

func staffInput(email string, nationalID int64) ports.CreateStaffInput {
	return ports.CreateStaffInput{
		Username:   "Jane Wanjiru",
		NationalID: nationalID,
		Phone:      "0722000000",
		Email:      email,
		Role:       "tailor",
		Password:   "s3cret",
	}
}

func TestStaffService_CreateByRole(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.Session
		allowed bool
	}{
		{name: "admin", session: mocks.StaffSession(1, domain.RoleAdmin), allowed: true},
		{name: "ceo", session: mocks.StaffSession(1, domain.RoleCEO), allowed: true},
		{name: "manager", session: mocks.StaffSession(1, domain.RoleManager), allowed: true},
		{name: "tailor", session: mocks.StaffSession(1, domain.RoleTailor)},
		{name: "staff", session: mocks.StaffSession(1, domain.RoleStaff)},
		{name: "client", session: mocks.ClientSession(1)},
		{name: "anonymous", session: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := newStaffService(f)

			created, err := svc.Create(context.Background(), tt.session, staffInput("jane@tailors.test", 2002))

			if !tt.allowed {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
				assert.Zero(t, f.repo.CallCount("CreateStaff"), "denied requests must not reach the store")
				assert.Empty(t, f.events.PublishedEvents)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.Equal(t, domain.RoleTailor, created.Role)
			assert.Equal(t, "logo", created.Passport)
			assert.Equal(t, "hashed:s3cret", created.PasswordHash)

			body, err := json.Marshal(created)
			require.NoError(t, err)
			assert.NotContains(t, string(body), "s3cret")
			assert.NotContains(t, string(body), "password")

			assert.Equal(t, []string{"staff.created"}, f.events.Types())
		})
	}
}

func TestStaffService_CreateValidation(t *testing.T) {
	admin := mocks.StaffSession(1, domain.RoleAdmin)

	tests := []struct {
		name     string
		mutate   func(*ports.CreateStaffInput)
		wantCode domain.ErrorCode
	}{
		{name: "bad_email", mutate: func(in *ports.CreateStaffInput) { in.Email = "not-an-email" }, wantCode: domain.CodeInvalidEmail},
		{name: "unknown_role", mutate: func(in *ports.CreateStaffInput) { in.Role = "intern" }, wantCode: domain.CodeInvalidInput},
		{name: "missing_password", mutate: func(in *ports.CreateStaffInput) { in.Password = "" }, wantCode: domain.CodeInvalidInput},
		{name: "missing_username", mutate: func(in *ports.CreateStaffInput) { in.Username = " " }, wantCode: domain.CodeInvalidInput},
		{name: "negative_salary", mutate: func(in *ports.CreateStaffInput) { in.Salary = ptr(int64(-1)) }, wantCode: domain.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := staffInput("jane@tailors.test", 2002)
			tt.mutate(&in)

			_, err := newStaffService(f).Create(context.Background(), admin, in)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domain.CodeOf(err))
			assert.Zero(t, f.repo.CallCount("CreateStaff"))
		})
	}
}

func TestStaffService_CreateDuplicate(t *testing.T) {
	admin := mocks.StaffSession(1, domain.RoleAdmin)

	tests := []struct {
		name  string
		input ports.CreateStaffInput
	}{
		{name: "same_email", input: staffInput("jane@tailors.test", 3003)},
		{name: "same_email_other_case", input: staffInput("JANE@tailors.test", 3003)},
		{name: "same_national_id", input: staffInput("other@tailors.test", 2002)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := newStaffService(f)
			_, err := svc.Create(context.Background(), admin, staffInput("jane@tailors.test", 2002))
			require.NoError(t, err)

			_, err = svc.Create(context.Background(), admin, tt.input)

			require.ErrorIs(t, err, domain.ErrDuplicateKey)
		})
	}
}

func TestStaffService_ConcurrentDuplicateCreate(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f)
	admin := mocks.StaffSession(1, domain.RoleAdmin)

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), admin, staffInput("race@tailors.test", int64(5000+i)))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	}
	assert.Equal(t, 1, successes)

	all, err := svc.List(context.Background(), admin, ports.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStaffService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		allowed bool
	}{
		{name: "admin", role: domain.RoleAdmin, allowed: true},
		{name: "ceo", role: domain.RoleCEO, allowed: true},
		{name: "manager", role: domain.RoleManager},
		{name: "tailor", role: domain.RoleTailor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := newStaffService(f)
			target := f.repo.SeedStaff(mocks.TestStaff("target@tailors.test", 4004, domain.RoleStaff))
			sess := mocks.StaffSession(99, tt.role)
			ctx := context.Background()

			err := svc.Delete(ctx, sess, target.ID)

			if !tt.allowed {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
				assert.Zero(t, f.repo.CallCount("DeleteStaff"))
				_, err = svc.Get(ctx, sess, target.ID)
				require.NoError(t, err)
				return
			}
			require.NoError(t, err)
			_, err = svc.Get(ctx, sess, target.ID)
			require.ErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, []string{"staff.deleted"}, f.events.Types())
		})
	}
}

func TestStaffService_ReadAnySession(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f)
	seeded := f.repo.SeedStaff(mocks.TestStaff("a@tailors.test", 1, domain.RoleTailor))
	f.repo.SeedStaff(mocks.TestStaff("b@tailors.test", 2, domain.RoleManager))
	ctx := context.Background()

	for _, sess := range []*domain.Session{mocks.ClientSession(7), mocks.StaffSession(1, domain.RoleStaff)} {
		got, err := svc.Get(ctx, sess, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.Email, got.Email)

		tailors, err := svc.List(ctx, sess, ports.StaffFilter{Role: ptr(domain.RoleTailor)})
		require.NoError(t, err)
		require.Len(t, tailors, 1)
		assert.Equal(t, seeded.ID, tailors[0].ID)
	}

	_, err := svc.Get(ctx, nil, seeded.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Get(ctx, mocks.ClientSession(7), 12345)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStaffService_Update(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f)
	ctx := context.Background()
	target := f.repo.SeedStaff(mocks.TestStaff("t@tailors.test", 10, domain.RoleStaff))
	other := f.repo.SeedStaff(mocks.TestStaff("o@tailors.test", 11, domain.RoleStaff))

	t.Run("tailor_denied", func(t *testing.T) {
		_, err := svc.Update(ctx, mocks.StaffSession(1, domain.RoleTailor), target.ID, ports.UpdateStaffInput{Phone: ptr("0799")})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("manager_updates_and_rehashes", func(t *testing.T) {
		updated, err := svc.Update(ctx, mocks.StaffSession(1, domain.RoleManager), target.ID, ports.UpdateStaffInput{
			Role:     ptr("tailor"),
			Password: ptr("fresh"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTailor, updated.Role)
		assert.Equal(t, "hashed:fresh", updated.PasswordHash)
		assert.Equal(t, target.Email, updated.Email)
	})

	t.Run("email_collision", func(t *testing.T) {
		_, err := svc.Update(ctx, mocks.StaffSession(1, domain.RoleCEO), target.ID, ports.UpdateStaffInput{Email: ptr(other.Email)})
		require.ErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("invalid_patch_leaves_record", func(t *testing.T) {
		_, err := svc.Update(ctx, mocks.StaffSession(1, domain.RoleCEO), target.ID, ports.UpdateStaffInput{
			Phone: ptr("0700111222"),
			Role:  ptr("janitor"),
		})
		require.Error(t, err)
		got, err := svc.Get(ctx, mocks.StaffSession(1, domain.RoleCEO), target.ID)
		require.NoError(t, err)
		assert.Equal(t, target.Phone, got.Phone)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Update(ctx, mocks.StaffSession(1, domain.RoleAdmin), 999, ports.UpdateStaffInput{Phone: ptr("0799")})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStaffService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.events.PublishError = errors.New("broker unreachable")
	svc := newStaffService(f)

	created, err := svc.Create(context.Background(), mocks.StaffSession(1, domain.RoleAdmin), staffInput("jane@tailors.test", 2002))

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, f.events.PublishCallCount)
}

func TestStaffService_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.CreateError = fmt.Errorf("connection reset")
	svc := newStaffService(f)

	_, err := svc.Create(context.Background(), mocks.StaffSession(1, domain.RoleAdmin), staffInput("jane@tailors.test", 2002))

	require.Error(t, err)
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))
	assert.Empty(t, f.events.PublishedEvents)
}
