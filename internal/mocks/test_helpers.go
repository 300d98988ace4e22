package mocks

import (
	"time"

	"github.com/startailored/records-service/internal/core/domain"
)

// StaffSession builds a live staff session for tests.
func StaffSession(id int64, role domain.Role) *domain.Session {
	return &domain.Session{
		ID:          "staff-session",
		PrincipalID: id,
		Kind:        domain.PrincipalStaff,
		DisplayName: "staff",
		Role:        role,
		IssuedAt:    time.Now().UTC(),
	}
}

// ClientSession builds a live client session for tests.
func ClientSession(id int64) *domain.Session {
	return &domain.Session{
		ID:          "client-session",
		PrincipalID: id,
		Kind:        domain.PrincipalClient,
		DisplayName: "client",
		IssuedAt:    time.Now().UTC(),
	}
}

// TestStaff returns a stored-shape staff record with a MockHasher hash of
// "secret".
func TestStaff(email string, nationalID int64, role domain.Role) domain.Staff {
	return domain.Staff{
		Username:     "staff " + email,
		NationalID:   nationalID,
		Phone:        "0700000000",
		Email:        email,
		Passport:     "logo",
		Role:         role,
		PasswordHash: hashPrefix + "secret",
		CreatedAt:    time.Now().UTC(),
	}
}

// TestClient returns a stored-shape client record with a MockHasher hash of
// "secret".
func TestClient(email string, createdBy int64) domain.Client {
	return domain.Client{
		Username:     "client " + email,
		Phone:        "0711111111",
		Email:        email,
		PasswordHash: hashPrefix + "secret",
		GroupName:    "none",
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
}

// FixedClock returns a settable clock for edit-window tests.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
