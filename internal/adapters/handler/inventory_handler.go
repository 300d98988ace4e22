package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

type InventoryHandler struct {
	inventory ports.InventoryService
	resp      *Responder
}

func NewInventoryHandler(inventory ports.InventoryService, resp *Responder) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, resp: resp}
}

type CreateInventoryRequest struct {
	ItemName    string          `json:"item_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description *string         `json:"description"`
}

type UpdateInventoryRequest struct {
	ItemName    *string          `json:"item_name"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Description *string          `json:"description"`
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInventoryRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	item, err := h.inventory.Create(r.Context(), middleware.SessionFrom(r.Context()), ports.CreateInventoryInput{
		ItemName:    req.ItemName,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	f := ports.InventoryFilter{NameContains: r.URL.Query().Get("q")}
	items, err := h.inventory.List(r.Context(), middleware.SessionFrom(r.Context()), f)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	item, err := h.inventory.Get(r.Context(), middleware.SessionFrom(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	var req UpdateInventoryRequest
	if err := decode(r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	item, err := h.inventory.Update(r.Context(), middleware.SessionFrom(r.Context()), id, domain.InventoryPatch{
		ItemName:    req.ItemName,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := h.inventory.Delete(r.Context(), middleware.SessionFrom(r.Context()), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
