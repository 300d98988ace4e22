package domain

import (
	"fmt"
	"strings"
	"time"
)

const defaultPassport = "logo"

type Staff struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	NationalID   int64     `json:"national_id"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Passport     string    `json:"passport"`
	Role         Role      `json:"role"`
	Salary       *int64    `json:"salary"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type NewStaffParams struct {
	Username     string
	NationalID   int64
	Phone        string
	Email        string
	Passport     string
	Role         string
	Salary       *int64
	PasswordHash string
	CreatedAt    time.Time
}

func NewStaff(p NewStaffParams, emails EmailValidator) (*Staff, error) {
	username, err := requireText("username", p.Username, maxNameLen)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("phone", p.Phone, maxPhoneLen)
	if err != nil {
		return nil, err
	}
	email, err := checkEmail(emails, p.Email)
	if err != nil {
		return nil, err
	}
	if p.NationalID <= 0 {
		return nil, fmt.Errorf("%w: national_id must be positive", ErrInvalidInput)
	}
	role, err := ParseRole(p.Role)
	if err != nil {
		return nil, err
	}
	if err := checkNonNegative("salary", p.Salary); err != nil {
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	passport := strings.TrimSpace(p.Passport)
	if passport == "" {
		passport = defaultPassport
	}

	return &Staff{
		Username:     username,
		NationalID:   p.NationalID,
		Phone:        phone,
		Email:        email,
		Passport:     passport,
		Role:         role,
		Salary:       p.Salary,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
	}, nil
}

// StaffPatch carries the fields an update may change; nil means unchanged.
type StaffPatch struct {
	Username     *string
	NationalID   *int64
	Phone        *string
	Email        *string
	Passport     *string
	Role         *string
	Salary       *int64
	PasswordHash *string
}

func (s *Staff) Apply(p StaffPatch, emails EmailValidator) error {
	next := *s

	if p.Username != nil {
		v, err := requireText("username", *p.Username, maxNameLen)
		if err != nil {
			return err
		}
		next.Username = v
	}
	if p.NationalID != nil {
		if *p.NationalID <= 0 {
			return fmt.Errorf("%w: national_id must be positive", ErrInvalidInput)
		}
		next.NationalID = *p.NationalID
	}
	if p.Phone != nil {
		v, err := requireText("phone", *p.Phone, maxPhoneLen)
		if err != nil {
			return err
		}
		next.Phone = v
	}
	if p.Email != nil {
		v, err := checkEmail(emails, *p.Email)
		if err != nil {
			return err
		}
		next.Email = v
	}
	if p.Passport != nil {
		next.Passport = strings.TrimSpace(*p.Passport)
		if next.Passport == "" {
			next.Passport = defaultPassport
		}
	}
	if p.Role != nil {
		r, err := ParseRole(*p.Role)
		if err != nil {
			return err
		}
		next.Role = r
	}
	if p.Salary != nil {
		if err := checkNonNegative("salary", p.Salary); err != nil {
			return err
		}
		next.Salary = p.Salary
	}
	if p.PasswordHash != nil {
		if *p.PasswordHash == "" {
			return fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		next.PasswordHash = *p.PasswordHash
	}

	*s = next
	return nil
}
