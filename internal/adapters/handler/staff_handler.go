package handler

import (
	"net/http"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

type StaffHandler struct {
	staff ports.StaffService
	resp  *Responder
}

func NewStaffHandler(staff ports.StaffService, resp *Responder) *StaffHandler {
	return &StaffHandler{staff: staff, resp: resp}
}

type CreateStaffRequest struct {
	Username   string `json:"username"`
	NationalID int64  `json:"national_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Passport   string `json:"passport"`
	Role       string `json:"role"`
	Salary     *int64 `json:"salary"`
	Password   string `json:"password"`
}

type UpdateStaffRequest struct {
	Username   *string `json:"username"`
	NationalID *int64  `json:"national_id"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Passport   *string `json:"passport"`
	Role       *string `json:"role"`
	Salary     *int64  `json:"salary"`
	Password   *string `json:"password"`
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	staff, err := h.staff.Create(r.Context(), middleware.SessionFrom(r.Context()), ports.CreateStaffInput{
		Username:   req.Username,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Passport:   req.Passport,
		Role:       req.Role,
		Salary:     req.Salary,
		Password:   req.Password,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, staff)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	var f ports.StaffFilter
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		f.Role = &role
	}

	staff, err := h.staff.List(r.Context(), middleware.SessionFrom(r.Context()), f)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	staff, err := h.staff.Get(r.Context(), middleware.SessionFrom(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	var req UpdateStaffRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	staff, err := h.staff.Update(r.Context(), middleware.SessionFrom(r.Context()), id, ports.UpdateStaffInput{
		Username:   req.Username,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Passport:   req.Passport,
		Role:       req.Role,
		Salary:     req.Salary,
		Password:   req.Password,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := h.staff.Delete(r.Context(), middleware.SessionFrom(r.Context()), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
