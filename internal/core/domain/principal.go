package domain

import "time"

type PrincipalKind string

const (
	PrincipalStaff  PrincipalKind = "staff"
	PrincipalClient PrincipalKind = "client"
)

func (k PrincipalKind) IsValid() bool {
	switch k {
	case PrincipalStaff, PrincipalClient:
		return true
	}
	return false
}

// Session is the authenticated context every authorization check runs against.
// Client sessions always carry RoleNone.
type Session struct {
	ID          string        `json:"-"`
	PrincipalID int64         `json:"principal_id"`
	Kind        PrincipalKind `json:"kind"`
	DisplayName string        `json:"display_name"`
	Role        Role          `json:"role,omitempty"`
	IssuedAt    time.Time     `json:"issued_at"`
}

func (s *Session) IsStaff() bool {
	return s != nil && s.Kind == PrincipalStaff
}

// EffectiveRole is the role used for policy decisions. Anything that is not a
// staff session with a recognised role has no permissions.
func (s *Session) EffectiveRole() Role {
	if !s.IsStaff() || !s.Role.IsValid() {
		return RoleNone
	}
	return s.Role
}
