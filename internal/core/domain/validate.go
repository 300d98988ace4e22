package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EmailValidator performs a syntactic check only, never a deliverability one.
type EmailValidator interface {
	ValidEmail(email string) bool
}

const (
	maxNameLen  = 50
	maxPhoneLen = 15
	maxEmailLen = 50
)

func requireText(field, value string, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(v) > maxLen {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, field, maxLen)
	}
	return v, nil
}

func checkEmail(emails EmailValidator, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(v) > maxEmailLen || !emails.ValidEmail(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, v)
	}
	return strings.ToLower(v), nil
}

func checkNonNegative(field string, v *int64) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, field)
	}
	return nil
}
