package handler

import (
	"net/http"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

type LoanHandler struct {
	loans ports.LoanService
	resp  *Responder
}

func NewLoanHandler(loans ports.LoanService, resp *Responder) *LoanHandler {
	return &LoanHandler{loans: loans, resp: resp}
}

type CreateLoanRequest struct {
	Amount  int64   `json:"amount"`
	Type    string  `json:"type"`
	Comment *string `json:"comment"`
	TakenBy int64   `json:"taken_by"`
}

type UpdateLoanRequest struct {
	Amount  *int64  `json:"amount"`
	Status  *string `json:"status"`
	Comment *string `json:"comment"`
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	loan, err := h.loans.Create(r.Context(), middleware.SessionFrom(r.Context()), ports.CreateLoanInput{
		Amount:  req.Amount,
		Type:    req.Type,
		Comment: req.Comment,
		TakenBy: req.TakenBy,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, loan)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	var f ports.LoanFilter
	takenBy, err := queryInt64(r, "taken_by")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	f.TakenBy = takenBy
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := domain.ParseLoanStatus(raw)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		f.Status = &st
	}

	loans, err := h.loans.List(r.Context(), middleware.SessionFrom(r.Context()), f)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, loans)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	loan, err := h.loans.Get(r.Context(), middleware.SessionFrom(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	var req UpdateLoanRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	loan, err := h.loans.Update(r.Context(), middleware.SessionFrom(r.Context()), id, domain.LoanPatch{
		Amount:  req.Amount,
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := h.loans.Delete(r.Context(), middleware.SessionFrom(r.Context()), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
