package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const maxItemNameLen = 50

type Inventory struct {
	ID          int64           `json:"id"`
	ItemName    string          `json:"item_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description *string         `json:"description"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MarshalJSON renders quantity as a number with two fractional digits.
func (i Inventory) MarshalJSON() ([]byte, error) {
	type plain Inventory
	return json.Marshal(struct {
		plain
		Quantity json.RawMessage `json:"quantity"`
	}{
		plain:    plain(i),
		Quantity: json.RawMessage(i.Quantity.StringFixed(2)),
	})
}

type NewInventoryParams struct {
	ItemName    string
	Quantity    decimal.Decimal
	Description *string
	CreatedBy   int64
	CreatedAt   time.Time
}

func NewInventory(p NewInventoryParams) (*Inventory, error) {
	name, err := requireText("item_name", p.ItemName, maxItemNameLen)
	if err != nil {
		return nil, err
	}
	qty, err := CheckMeasure("quantity", p.Quantity)
	if err != nil {
		return nil, err
	}
	if p.CreatedBy <= 0 {
		return nil, fmt.Errorf("%w: created_by is required", ErrInvalidInput)
	}
	return &Inventory{
		ItemName:    name,
		Quantity:    qty,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}, nil
}

type InventoryPatch struct {
	ItemName    *string
	Quantity    *decimal.Decimal
	Description *string
}

func (i *Inventory) Apply(p InventoryPatch) error {
	next := *i
	if p.ItemName != nil {
		v, err := requireText("item_name", *p.ItemName, maxItemNameLen)
		if err != nil {
			return err
		}
		next.ItemName = v
	}
	if p.Quantity != nil {
		q, err := CheckMeasure("quantity", *p.Quantity)
		if err != nil {
			return err
		}
		next.Quantity = q
	}
	if p.Description != nil {
		next.Description = p.Description
	}
	*i = next
	return nil
}
