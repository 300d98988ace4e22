package handler

import (
	"net/http"
	"time"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/ports"
)

type ClientHandler struct {
	clients ports.ClientService
	resp    *Responder
}

func NewClientHandler(clients ports.ClientService, resp *Responder) *ClientHandler {
	return &ClientHandler{clients: clients, resp: resp}
}

type CreateClientRequest struct {
	Username      string     `json:"username"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	BuyingPrice   *int64     `json:"buying_price"`
	BalanceAmount *int64     `json:"balance_amount"`
	PickupDate    *time.Time `json:"pickup_date"`
	GroupName     string     `json:"group_name"`
	CreatedBy     int64      `json:"created_by"`
}

type UpdateClientRequest struct {
	Username      *string    `json:"username"`
	Phone         *string    `json:"phone"`
	Email         *string    `json:"email"`
	Password      *string    `json:"password"`
	BuyingPrice   *int64     `json:"buying_price"`
	BalanceAmount *int64     `json:"balance_amount"`
	PickupDate    *time.Time `json:"pickup_date"`
	GroupName     *string    `json:"group_name"`
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	client, err := h.clients.Create(r.Context(), middleware.SessionFrom(r.Context()), ports.CreateClientInput{
		Username:      req.Username,
		Phone:         req.Phone,
		Email:         req.Email,
		Password:      req.Password,
		BuyingPrice:   req.BuyingPrice,
		BalanceAmount: req.BalanceAmount,
		PickupDate:    req.PickupDate,
		GroupName:     req.GroupName,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	var f ports.ClientFilter
	if group := r.URL.Query().Get("group_name"); group != "" {
		f.GroupName = &group
	}
	clients, err := h.clients.List(r.Context(), middleware.SessionFrom(r.Context()), f)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	client, err := h.clients.Get(r.Context(), middleware.SessionFrom(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	var req UpdateClientRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	client, err := h.clients.Update(r.Context(), middleware.SessionFrom(r.Context()), id, ports.UpdateClientInput{
		Username:      req.Username,
		Phone:         req.Phone,
		Email:         req.Email,
		Password:      req.Password,
		BuyingPrice:   req.BuyingPrice,
		BalanceAmount: req.BalanceAmount,
		PickupDate:    req.PickupDate,
		GroupName:     req.GroupName,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := h.clients.Delete(r.Context(), middleware.SessionFrom(r.Context()), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
