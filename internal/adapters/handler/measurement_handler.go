package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

// MeasurementHandler serves /measurements/{variant}. Request bodies are flat:
// record attributes sit next to the variant's measurement fields, which take
// numbers (or null to clear on update).
type MeasurementHandler struct {
	measurements ports.MeasurementService
	resp         *Responder
}

func NewMeasurementHandler(measurements ports.MeasurementService, resp *Responder) *MeasurementHandler {
	return &MeasurementHandler{measurements: measurements, resp: resp}
}

func pathVariant(r *http.Request) (domain.Variant, error) {
	return domain.ParseVariant(chi.URLParam(r, "variant"))
}

// measurementBody splits a flat JSON object into record attributes and
// measurement values.
type measurementBody struct {
	attrs  map[string]json.RawMessage
	values map[string]decimal.NullDecimal
}

var measurementAttrs = map[string]bool{
	"fabric":      true,
	"description": true,
	"client":      true,
	"assigned_to": true,
	"status":      true,
}

func decodeMeasurement(r *http.Request) (*measurementBody, error) {
	var raw map[string]json.RawMessage
	if err := decode(r, &raw); err != nil {
		return nil, err
	}

	body := &measurementBody{
		attrs:  make(map[string]json.RawMessage),
		values: make(map[string]decimal.NullDecimal),
	}
	for k, v := range raw {
		if measurementAttrs[k] {
			body.attrs[k] = v
			continue
		}
		var d decimal.NullDecimal
		if err := json.Unmarshal(v, &d); err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, k)
		}
		body.values[k] = d
	}
	return body, nil
}

// attr decodes the named attribute into dst and reports whether it was present
// and non-null.
func (b *measurementBody) attr(name string, dst any) (bool, error) {
	v, ok := b.attrs[name]
	if !ok || isNull(v) {
		return false, nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return false, fmt.Errorf("%w: field %q has the wrong type", domain.ErrInvalidInput, name)
	}
	return true, nil
}

func (b *measurementBody) isExplicitNull(name string) bool {
	v, ok := b.attrs[name]
	return ok && isNull(v)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (h *MeasurementHandler) Create(w http.ResponseWriter, r *http.Request) {
	variant, err := pathVariant(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	body, err := decodeMeasurement(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var in ports.CreateMeasurementInput
	in.Values = body.values
	if _, err := body.attr("fabric", &in.Fabric); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if _, err := body.attr("client", &in.ClientID); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	var description string
	if ok, err := body.attr("description", &description); err != nil {
		h.resp.Error(w, r, err)
		return
	} else if ok {
		in.Description = &description
	}
	var assigned int64
	if ok, err := body.attr("assigned_to", &assigned); err != nil {
		h.resp.Error(w, r, err)
		return
	} else if ok {
		in.AssignedTo = &assigned
	}
	if _, ok := body.attrs["status"]; ok {
		h.resp.Error(w, r, fmt.Errorf("%w: status is set by updates only", domain.ErrInvalidInput))
		return
	}

	m, err := h.measurements.Create(r.Context(), middleware.SessionFrom(r.Context()), variant, in)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, m)
}

func (h *MeasurementHandler) List(w http.ResponseWriter, r *http.Request) {
	variant, err := pathVariant(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	f := ports.MeasurementFilter{Variant: variant}
	if f.ClientID, err = queryInt64(r, "client"); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if f.AssignedTo, err = queryInt64(r, "assigned_to"); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := domain.ParseMeasurementStatus(raw)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		f.Status = &st
	}

	list, err := h.measurements.List(r.Context(), middleware.SessionFrom(r.Context()), f)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, list)
}

func (h *MeasurementHandler) Get(w http.ResponseWriter, r *http.Request) {
	variant, err := pathVariant(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	m, err := h.measurements.Get(r.Context(), middleware.SessionFrom(r.Context()), variant, id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, m)
}

func (h *MeasurementHandler) Update(w http.ResponseWriter, r *http.Request) {
	variant, err := pathVariant(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	body, err := decodeMeasurement(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	patch := domain.MeasurementPatch{Values: body.values}
	var (
		fabric, description, status string
		client, assigned            int64
	)
	for _, a := range []struct {
		name string
		dst  any
		set  func()
	}{
		{"fabric", &fabric, func() { patch.Fabric = &fabric }},
		{"description", &description, func() { patch.Description = &description }},
		{"status", &status, func() { patch.Status = &status }},
		{"client", &client, func() { patch.ClientID = &client }},
		{"assigned_to", &assigned, func() { patch.AssignedTo = &assigned }},
	} {
		ok, err := body.attr(a.name, a.dst)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		if ok {
			a.set()
		}
	}
	patch.Unassign = body.isExplicitNull("assigned_to")

	m, err := h.measurements.Update(r.Context(), middleware.SessionFrom(r.Context()), variant, id, patch)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, m)
}

func (h *MeasurementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	variant, err := pathVariant(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := h.measurements.Delete(r.Context(), middleware.SessionFrom(r.Context()), variant, id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
