package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

var _ ports.MeasurementRepository = (*SQLRepository)(nil)

// All variants share one table; each row only fills its variant's columns.
var measurementColumns = func() []string {
	cols := []string{"id", "variant", "fabric", "description", "status", "client_id", "assigned_to", "created_by", "created_at"}
	for _, f := range domain.AllMeasureFields {
		cols = append(cols, string(f))
	}
	return cols
}()

func scanMeasurement(row rowScanner) (domain.Measurement, error) {
	var m domain.Measurement
	values := make([]decimal.NullDecimal, len(domain.AllMeasureFields))

	dest := []any{
		&m.ID, &m.Variant, &m.Fabric, &m.Description, &m.Status,
		&m.ClientID, &m.AssignedTo, &m.CreatedBy, &m.CreatedAt,
	}
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Measurement{}, err
	}

	m.Values = make(map[domain.MeasureField]decimal.Decimal)
	for i, f := range domain.AllMeasureFields {
		if values[i].Valid && m.Variant.Has(f) {
			m.Values[f] = values[i].Decimal
		}
	}
	return m, nil
}

// measureColumns writes every measurement column, nulling those not set.
func measureColumns(m *domain.Measurement) map[string]any {
	cols := make(map[string]any, len(domain.AllMeasureFields))
	for _, f := range domain.AllMeasureFields {
		if d, ok := m.Values[f]; ok {
			cols[string(f)] = d
		} else {
			cols[string(f)] = nil
		}
	}
	return cols
}

func (r *SQLRepository) CreateMeasurement(ctx context.Context, m *domain.Measurement) (*domain.Measurement, error) {
	cols := measureColumns(m)
	cols["variant"] = m.Variant
	cols["fabric"] = m.Fabric
	cols["description"] = m.Description
	cols["status"] = m.Status
	cols["client_id"] = m.ClientID
	cols["assigned_to"] = m.AssignedTo
	cols["created_by"] = m.CreatedBy
	cols["created_at"] = m.CreatedAt

	row, err := queryRow(ctx, r.db, psql.Insert("measurements").SetMap(cols).Suffix("RETURNING id"))
	if err != nil {
		return nil, err
	}

	created := *m
	if err := row.Scan(&created.ID); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *SQLRepository) getMeasurement(ctx context.Context, q queryer, variant domain.Variant, id int64, lock bool) (*domain.Measurement, error) {
	b := psql.Select(measurementColumns...).From("measurements").
		Where(sq.Eq{"id": id, "variant": variant})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return nil, err
	}
	m, err := scanMeasurement(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (r *SQLRepository) GetMeasurement(ctx context.Context, variant domain.Variant, id int64) (*domain.Measurement, error) {
	return r.getMeasurement(ctx, r.db, variant, id, false)
}

func (r *SQLRepository) ListMeasurements(ctx context.Context, f ports.MeasurementFilter) ([]domain.Measurement, error) {
	b := psql.Select(measurementColumns...).From("measurements").
		Where(sq.Eq{"variant": f.Variant}).
		OrderBy("id")
	if f.ClientID != nil {
		b = b.Where(sq.Eq{"client_id": *f.ClientID})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.AssignedTo != nil {
		b = b.Where(sq.Eq{"assigned_to": *f.AssignedTo})
	}
	return list(ctx, r.db, b, scanMeasurement)
}

func (r *SQLRepository) UpdateMeasurement(ctx context.Context, variant domain.Variant, id int64, mutate func(*domain.Measurement) error) (*domain.Measurement, error) {
	var out *domain.Measurement
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		m, err := r.getMeasurement(ctx, tx, variant, id, true)
		if err != nil {
			return err
		}
		if err := mutate(m); err != nil {
			return err
		}

		cols := measureColumns(m)
		cols["fabric"] = m.Fabric
		cols["description"] = m.Description
		cols["status"] = m.Status
		cols["client_id"] = m.ClientID
		cols["assigned_to"] = m.AssignedTo

		if _, err := exec(ctx, tx, psql.Update("measurements").SetMap(cols).Where(sq.Eq{"id": id})); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) DeleteMeasurement(ctx context.Context, variant domain.Variant, id int64) error {
	return deleteRow(ctx, r.db, "measurements", sq.Eq{"id": id, "variant": variant})
}
