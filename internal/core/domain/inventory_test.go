package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventory(t *testing.T) {
	item, err := NewInventory(NewInventoryParams{
		ItemName:  "Buttons",
		Quantity:  decimal.RequireFromString("12.5"),
		CreatedBy: 2,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "12.50", string(body["quantity"]))
	assert.Equal(t, `"Buttons"`, string(body["item_name"]))
}

func TestNewInventory_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params NewInventoryParams
	}{
		{"empty_name", NewInventoryParams{Quantity: decimal.NewFromInt(1), CreatedBy: 1}},
		{"negative_quantity", NewInventoryParams{ItemName: "x", Quantity: decimal.NewFromInt(-1), CreatedBy: 1}},
		{"too_precise", NewInventoryParams{ItemName: "x", Quantity: decimal.RequireFromString("1.001"), CreatedBy: 1}},
		{"no_creator", NewInventoryParams{ItemName: "x", Quantity: decimal.NewFromInt(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInventory(tt.params)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeDuplicateKey, CodeOf(ErrDuplicateKey))
	assert.Equal(t, CodeUnauthorized, CodeOf(ErrInvalidCredentials))
	assert.Equal(t, CodeInternal, CodeOf(assert.AnError))
}
