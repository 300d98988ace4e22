package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

var _ ports.StaffRepository = (*SQLRepository)(nil)

var staffColumns = []string{
	"id", "username", "national_id", "phone", "email", "passport",
	"role", "salary", "password_hash", "created_at",
}

func scanStaff(row rowScanner) (domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(
		&s.ID,
		&s.Username,
		&s.NationalID,
		&s.Phone,
		&s.Email,
		&s.Passport,
		&s.Role,
		&s.Salary,
		&s.PasswordHash,
		&s.CreatedAt,
	)
	return s, err
}

func (r *SQLRepository) CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	created := *s
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row, err := queryRow(ctx, tx, psql.Insert("staff").
			Columns("username", "national_id", "phone", "email", "passport", "role", "salary", "password_hash", "created_at").
			Values(s.Username, s.NationalID, s.Phone, s.Email, s.Passport, s.Role, s.Salary, s.PasswordHash, s.CreatedAt).
			Suffix("RETURNING id"))
		if err != nil {
			return err
		}
		if err := row.Scan(&created.ID); err != nil {
			return mapError(err)
		}
		return claimEmail(ctx, tx, domain.PrincipalStaff, created.ID, created.Email)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *SQLRepository) getStaff(ctx context.Context, q queryer, where sq.Sqlizer, lock bool) (*domain.Staff, error) {
	b := psql.Select(staffColumns...).From("staff").Where(where)
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return nil, err
	}
	s, err := scanStaff(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *SQLRepository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	return r.getStaff(ctx, r.db, sq.Eq{"id": id}, false)
}

func (r *SQLRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return r.getStaff(ctx, r.db, emailIs(email), false)
}

func (r *SQLRepository) ListStaff(ctx context.Context, f ports.StaffFilter) ([]domain.Staff, error) {
	b := psql.Select(staffColumns...).From("staff").OrderBy("id")
	if f.Role != nil {
		b = b.Where(sq.Eq{"role": *f.Role})
	}
	return list(ctx, r.db, b, scanStaff)
}

func (r *SQLRepository) UpdateStaff(ctx context.Context, id int64, mutate func(*domain.Staff) error) (*domain.Staff, error) {
	var out *domain.Staff
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		s, err := r.getStaff(ctx, tx, sq.Eq{"id": id}, true)
		if err != nil {
			return err
		}
		previous := s.Email
		if err := mutate(s); err != nil {
			return err
		}
		_, err = exec(ctx, tx, psql.Update("staff").
			SetMap(map[string]any{
				"username":      s.Username,
				"national_id":   s.NationalID,
				"phone":         s.Phone,
				"email":         s.Email,
				"passport":      s.Passport,
				"role":          s.Role,
				"salary":        s.Salary,
				"password_hash": s.PasswordHash,
			}).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		if s.Email != previous {
			if err := moveEmail(ctx, tx, domain.PrincipalStaff, id, s.Email); err != nil {
				return err
			}
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) DeleteStaff(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteRow(ctx, tx, "staff", sq.Eq{"id": id}); err != nil {
			return err
		}
		return releaseEmail(ctx, tx, domain.PrincipalStaff, id)
	})
}
