package handler

import (
	"net/http"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	resp        *Responder
}

func NewAuthHandler(auth ports.AuthService, resp *Responder) *AuthHandler {
	return &AuthHandler{authService: auth, resp: resp}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		Session: result.Session,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFrom(r.Context())
	if token == "" {
		h.resp.Error(w, r, domain.ErrUnauthorized)
		return
	}
	if err := h.authService.Logout(r.Context(), token); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me returns the caller's session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	if s == nil {
		h.resp.Error(w, r, domain.ErrUnauthorized)
		return
	}
	h.resp.JSON(w, http.StatusOK, s)
}
