package domain

import "errors"

type ErrorCode string

const (
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeInvalidEmail      ErrorCode = "INVALID_EMAIL"
	CodeDuplicateKey      ErrorCode = "DUPLICATE_KEY"
	CodeEditWindowExpired ErrorCode = "EDIT_WINDOW_EXPIRED"
	CodeInternal          ErrorCode = "INTERNAL"
)

// Error is a classified failure surfaced to callers as code + message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidCredentials = &Error{Code: CodeUnauthorized, Message: "Invalid credentials"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidInput       = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInvalidEmail       = &Error{Code: CodeInvalidEmail, Message: "invalid email"}
	ErrDuplicateKey       = &Error{Code: CodeDuplicateKey, Message: "duplicate key"}
	ErrEditWindowExpired  = &Error{Code: CodeEditWindowExpired, Message: "edit window expired"}
)

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
