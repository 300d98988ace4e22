package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
)

const maxBodyBytes = 1 << 20

type ErrorBody struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Responder writes JSON bodies and the error envelope.
type Responder struct {
	log zerolog.Logger
}

func NewResponder(log zerolog.Logger) *Responder {
	return &Responder{log: log.With().Str("component", "http").Logger()}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.log.Error().Err(err).Msg("failed to encode response")
	}
}

// Error maps err to its status code. Internal failures are logged and
// reported with a generic message.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.CodeOf(err)
	status := StatusFor(code, middleware.SessionFrom(r.Context()) != nil)

	msg := err.Error()
	if code == domain.CodeInternal {
		rs.log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		msg = "internal server error"
	}
	rs.JSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: msg}})
}

// StatusFor maps an error code to an HTTP status. An authenticated caller who
// is denied gets 403, an anonymous one 401.
func StatusFor(code domain.ErrorCode, authenticated bool) int {
	switch code {
	case domain.CodeUnauthorized:
		if authenticated {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeInvalidEmail:
		return http.StatusBadRequest
	case domain.CodeDuplicateKey, domain.CodeEditWindowExpired:
		return http.StatusConflict
	case domain.CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// decode reads a single JSON object into dst, rejecting unknown fields.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", domain.ErrInvalidInput)
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("%w: malformed JSON at offset %d", domain.ErrInvalidInput, syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return fmt.Errorf("%w: field %q has the wrong type", domain.ErrInvalidInput, typeErr.Field)
		default:
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, raw)
	}
	return id, nil
}

// queryInt64 parses an optional positive integer query parameter.
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, raw)
	}
	return &v, nil
}

type MessageResponse struct {
	Message string `json:"message"`
}
