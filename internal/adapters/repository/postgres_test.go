package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/startailored/records-service/internal/core/domain"
)

func TestMapError(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		wantCode domain.ErrorCode
		wantMsg  string
		wantSame bool
	}{
		{name: "nil", err: nil},
		{name: "no_rows", err: sql.ErrNoRows, wantCode: domain.CodeNotFound},
		{name: "wrapped_no_rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), wantCode: domain.CodeNotFound},
		{
			name:     "unique_violation",
			err:      &pq.Error{Code: "23505", Constraint: "staff_email_key"},
			wantCode: domain.CodeDuplicateKey,
			wantMsg:  "staff_email_key",
		},
		{
			name:     "foreign_key_violation",
			err:      &pq.Error{Code: "23503", Detail: `Key (id)=(4) is still referenced from table "clients".`},
			wantCode: domain.CodeInvalidInput,
			wantMsg:  "still referenced",
		},
		{
			name:     "check_violation",
			err:      &pq.Error{Code: "23514", Message: "violates check constraint"},
			wantCode: domain.CodeInvalidInput,
		},
		{
			name:     "numeric_out_of_range",
			err:      &pq.Error{Code: "22003", Message: "numeric field overflow"},
			wantCode: domain.CodeInvalidInput,
		},
		{name: "other_pq_error", err: &pq.Error{Code: "40001"}, wantCode: domain.CodeInternal, wantSame: true},
		{name: "plain_error", err: boom, wantCode: domain.CodeInternal, wantSame: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)

			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantCode, domain.CodeOf(got))
			if tt.wantMsg != "" {
				assert.Contains(t, got.Error(), tt.wantMsg)
			}
			if tt.wantSame {
				assert.Same(t, tt.err, got)
			}
		})
	}
}

func TestMeasureColumns(t *testing.T) {
	m := &domain.Measurement{
		Variant: domain.VariantCoat,
		Values: map[domain.MeasureField]decimal.Decimal{
			domain.FieldShoulder: decimal.RequireFromString("40.50"),
		},
	}

	cols := measureColumns(m)

	assert.Len(t, cols, len(domain.AllMeasureFields))
	assert.Equal(t, decimal.RequireFromString("40.50"), cols["shoulder"])
	assert.Nil(t, cols["chest"])
	assert.Nil(t, cols["hips"])
}

// fakeRow scans a fixed measurement row: a coat with shoulder and a stray hips
// value that does not belong to the coat schema.
type fakeRow struct{}

func (fakeRow) Scan(dest ...any) error {
	*dest[0].(*int64) = 7
	*dest[1].(*domain.Variant) = domain.VariantCoat
	*dest[2].(*string) = "wool"
	*dest[4].(*domain.MeasurementStatus) = domain.MeasurementBooked
	*dest[5].(*int64) = 3
	*dest[7].(*int64) = 1
	for i, f := range domain.AllMeasureFields {
		nd := dest[9+i].(*decimal.NullDecimal)
		switch f {
		case domain.FieldShoulder:
			*nd = decimal.NewNullDecimal(decimal.RequireFromString("40.50"))
		case domain.FieldHips:
			*nd = decimal.NewNullDecimal(decimal.RequireFromString("30.00"))
		}
	}
	return nil
}

func TestScanMeasurement(t *testing.T) {
	m, err := scanMeasurement(fakeRow{})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), m.ID)
	assert.Len(t, m.Values, 1)
	assert.Equal(t, "40.50", m.Value(domain.FieldShoulder).Decimal.StringFixed(2))
	assert.False(t, m.Value(domain.FieldHips).Valid)
}

func TestScanMeasurementColumnCount(t *testing.T) {
	assert.Len(t, measurementColumns, 9+len(domain.AllMeasureFields))
}
