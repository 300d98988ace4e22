package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCEO     Role = "CEO"
	RoleManager Role = "MANAGER"
	RoleTailor  Role = "TAILOR"
	RoleStaff   Role = "STAFF"
)

// RoleNone is carried by client sessions.
const RoleNone Role = ""

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleCEO, RoleManager, RoleTailor, RoleStaff:
		return r, nil
	}
	return RoleNone, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsManagement reports whether r may administer staff and clients.
func (r Role) IsManagement() bool {
	switch r {
	case RoleAdmin, RoleCEO, RoleManager:
		return true
	case RoleTailor, RoleStaff, RoleNone:
		return false
	}
	return false
}

// IsExecutive reports whether r may delete records.
func (r Role) IsExecutive() bool {
	switch r {
	case RoleAdmin, RoleCEO:
		return true
	case RoleManager, RoleTailor, RoleStaff, RoleNone:
		return false
	}
	return false
}
