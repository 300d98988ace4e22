package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Variant string

const (
	VariantCoat         Variant = "coat"
	VariantRegularShirt Variant = "regular_shirt"
	VariantSenatorShirt Variant = "senator_shirt"
	VariantTrouser      Variant = "trouser"
)

var Variants = []Variant{VariantCoat, VariantRegularShirt, VariantSenatorShirt, VariantTrouser}

// ParseVariant accepts both "regular_shirt" and the URL form "regular-shirt".
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch v {
	case VariantCoat, VariantRegularShirt, VariantSenatorShirt, VariantTrouser:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown measurement variant %q", ErrInvalidInput, s)
}

type MeasureField string

const (
	FieldShoulder     MeasureField = "shoulder"
	FieldSleeves      MeasureField = "sleeves"
	FieldChest        MeasureField = "chest"
	FieldWaist        MeasureField = "waist"
	FieldArm          MeasureField = "arm"
	FieldFullLength   MeasureField = "full_length"
	FieldBottomLength MeasureField = "bottom_length"
	FieldNeck         MeasureField = "neck"
	FieldWrist        MeasureField = "wrist"
	FieldThigh        MeasureField = "thigh"
	FieldKnee         MeasureField = "knee"
	FieldBottom       MeasureField = "bottom"
	FieldFly          MeasureField = "fly"
	FieldHips         MeasureField = "hips"
)

// AllMeasureFields is the union of every variant's schema, in storage order.
var AllMeasureFields = []MeasureField{
	FieldShoulder, FieldSleeves, FieldChest, FieldWaist, FieldArm,
	FieldFullLength, FieldBottomLength, FieldNeck, FieldWrist,
	FieldThigh, FieldKnee, FieldBottom, FieldFly, FieldHips,
}

var shirtFields = []MeasureField{
	FieldShoulder, FieldSleeves, FieldChest, FieldWaist, FieldArm, FieldFullLength, FieldBottomLength,
}

var variantSchemas = map[Variant][]MeasureField{
	VariantCoat:         shirtFields,
	VariantRegularShirt: shirtFields,
	VariantSenatorShirt: append(append([]MeasureField{}, shirtFields...), FieldNeck, FieldWrist),
	VariantTrouser:      {FieldWaist, FieldThigh, FieldKnee, FieldBottom, FieldFly, FieldHips},
}

// Fields returns the variant's measurement schema.
func (v Variant) Fields() []MeasureField {
	return variantSchemas[v]
}

func (v Variant) Has(f MeasureField) bool {
	for _, x := range variantSchemas[v] {
		if x == f {
			return true
		}
	}
	return false
}

type MeasurementStatus string

const (
	MeasurementBooked       MeasurementStatus = "booked"
	MeasurementInProgress   MeasurementStatus = "in_progress"
	MeasurementFinalTouches MeasurementStatus = "final_touches"
	MeasurementDone         MeasurementStatus = "done"
	MeasurementArchived     MeasurementStatus = "archived"
)

func ParseMeasurementStatus(s string) (MeasurementStatus, error) {
	st := MeasurementStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	switch st {
	case MeasurementBooked, MeasurementInProgress, MeasurementFinalTouches, MeasurementDone, MeasurementArchived:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown measurement status %q", ErrInvalidInput, s)
}

const maxFabricLen = 50

// maxMeasure is the largest value NUMERIC(5,2) can hold.
var maxMeasure = decimal.RequireFromString("999.99")

// CheckMeasure validates a fixed-point value with at most two fractional digits.
func CheckMeasure(field string, d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() || d.GreaterThan(maxMeasure) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be between 0 and %s", ErrInvalidInput, field, maxMeasure.StringFixed(2))
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s allows at most 2 fractional digits", ErrInvalidInput, field)
	}
	return d.Round(2), nil
}

type Measurement struct {
	ID          int64
	Variant     Variant
	Fabric      string
	Values      map[MeasureField]decimal.Decimal
	Description *string
	Status      MeasurementStatus
	ClientID    int64
	AssignedTo  *int64
	CreatedBy   int64
	CreatedAt   time.Time
}

// Value returns the stored value for f, invalid when absent.
func (m *Measurement) Value(f MeasureField) decimal.NullDecimal {
	d, ok := m.Values[f]
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// MarshalJSON renders every field of the variant schema, absent ones as null,
// present ones as numbers with exactly two fractional digits.
func (m Measurement) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":          m.ID,
		"variant":     m.Variant,
		"fabric":      m.Fabric,
		"description": m.Description,
		"status":      m.Status,
		"client":      m.ClientID,
		"assigned_to": m.AssignedTo,
		"created_by":  m.CreatedBy,
		"created_at":  m.CreatedAt,
	}
	for _, f := range m.Variant.Fields() {
		if d, ok := m.Values[f]; ok {
			out[string(f)] = json.RawMessage(d.StringFixed(2))
		} else {
			out[string(f)] = nil
		}
	}
	return json.Marshal(out)
}

type NewMeasurementParams struct {
	Variant     Variant
	Fabric      string
	Values      map[string]decimal.NullDecimal
	Description *string
	ClientID    int64
	AssignedTo  *int64
	CreatedBy   int64
	CreatedAt   time.Time
}

func NewMeasurement(p NewMeasurementParams) (*Measurement, error) {
	if _, err := ParseVariant(string(p.Variant)); err != nil {
		return nil, err
	}
	fabric, err := requireText("fabric", p.Fabric, maxFabricLen)
	if err != nil {
		return nil, err
	}
	if p.ClientID <= 0 {
		return nil, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	if p.CreatedBy <= 0 {
		return nil, fmt.Errorf("%w: created_by is required", ErrInvalidInput)
	}

	m := &Measurement{
		Variant:     p.Variant,
		Fabric:      fabric,
		Values:      make(map[MeasureField]decimal.Decimal),
		Description: p.Description,
		Status:      MeasurementBooked,
		ClientID:    p.ClientID,
		AssignedTo:  p.AssignedTo,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
	if err := m.setValues(p.Values); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Measurement) setValues(in map[string]decimal.NullDecimal) error {
	for name, nd := range in {
		f := MeasureField(name)
		if !m.Variant.Has(f) {
			return fmt.Errorf("%w: %s has no %q measurement", ErrInvalidInput, m.Variant, name)
		}
		if !nd.Valid {
			delete(m.Values, f)
			continue
		}
		d, err := CheckMeasure(name, nd.Decimal)
		if err != nil {
			return err
		}
		m.Values[f] = d
	}
	return nil
}

// MeasurementPatch changes only what is set. A Values entry that is not Valid
// clears that measurement.
type MeasurementPatch struct {
	Fabric      *string
	Values      map[string]decimal.NullDecimal
	Description *string
	Status      *string
	ClientID    *int64
	AssignedTo  *int64
	Unassign    bool
}

func (m *Measurement) Apply(p MeasurementPatch) error {
	next := *m
	next.Values = make(map[MeasureField]decimal.Decimal, len(m.Values))
	for k, v := range m.Values {
		next.Values[k] = v
	}

	if p.Fabric != nil {
		v, err := requireText("fabric", *p.Fabric, maxFabricLen)
		if err != nil {
			return err
		}
		next.Fabric = v
	}
	if err := next.setValues(p.Values); err != nil {
		return err
	}
	if p.Description != nil {
		next.Description = p.Description
	}
	if p.Status != nil {
		st, err := ParseMeasurementStatus(*p.Status)
		if err != nil {
			return err
		}
		next.Status = st
	}
	if p.ClientID != nil {
		if *p.ClientID <= 0 {
			return fmt.Errorf("%w: client must be positive", ErrInvalidInput)
		}
		next.ClientID = *p.ClientID
	}
	switch {
	case p.Unassign:
		next.AssignedTo = nil
	case p.AssignedTo != nil:
		next.AssignedTo = p.AssignedTo
	}

	*m = next
	return nil
}
