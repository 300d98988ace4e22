package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

var _ ports.LoanRepository = (*SQLRepository)(nil)

var loanColumns = []string{"id", "amount", "type", "taken_by", "status", "comment", "date_taken"}

func scanLoan(row rowScanner) (domain.AdvanceLoan, error) {
	var l domain.AdvanceLoan
	err := row.Scan(&l.ID, &l.Amount, &l.Type, &l.TakenBy, &l.Status, &l.Comment, &l.DateTaken)
	return l, err
}

func (r *SQLRepository) CreateLoan(ctx context.Context, l *domain.AdvanceLoan) (*domain.AdvanceLoan, error) {
	row, err := queryRow(ctx, r.db, psql.Insert("advance_loans").
		Columns("amount", "type", "taken_by", "status", "comment", "date_taken").
		Values(l.Amount, l.Type, l.TakenBy, l.Status, l.Comment, l.DateTaken).
		Suffix("RETURNING id"))
	if err != nil {
		return nil, err
	}

	created := *l
	if err := row.Scan(&created.ID); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *SQLRepository) getLoan(ctx context.Context, q queryer, id int64, lock bool) (*domain.AdvanceLoan, error) {
	b := psql.Select(loanColumns...).From("advance_loans").Where(sq.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return nil, err
	}
	l, err := scanLoan(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *SQLRepository) GetLoan(ctx context.Context, id int64) (*domain.AdvanceLoan, error) {
	return r.getLoan(ctx, r.db, id, false)
}

func (r *SQLRepository) ListLoans(ctx context.Context, f ports.LoanFilter) ([]domain.AdvanceLoan, error) {
	b := psql.Select(loanColumns...).From("advance_loans").OrderBy("id")
	if f.TakenBy != nil {
		b = b.Where(sq.Eq{"taken_by": *f.TakenBy})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	return list(ctx, r.db, b, scanLoan)
}

// UpdateLoan never touches date_taken: the edit window is anchored to it.
func (r *SQLRepository) UpdateLoan(ctx context.Context, id int64, mutate func(*domain.AdvanceLoan) error) (*domain.AdvanceLoan, error) {
	var out *domain.AdvanceLoan
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		l, err := r.getLoan(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := mutate(l); err != nil {
			return err
		}
		_, err = exec(ctx, tx, psql.Update("advance_loans").
			Set("amount", l.Amount).
			Set("status", l.Status).
			Set("comment", l.Comment).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) DeleteLoan(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "advance_loans", sq.Eq{"id": id})
}
