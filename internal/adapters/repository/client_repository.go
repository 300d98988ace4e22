package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

var _ ports.ClientRepository = (*SQLRepository)(nil)

var clientColumns = []string{
	"id", "username", "phone", "email", "password_hash", "buying_price",
	"balance_amount", "pickup_date", "group_name", "created_by", "created_at",
}

func scanClient(row rowScanner) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID,
		&c.Username,
		&c.Phone,
		&c.Email,
		&c.PasswordHash,
		&c.BuyingPrice,
		&c.BalanceAmount,
		&c.PickupDate,
		&c.GroupName,
		&c.CreatedBy,
		&c.CreatedAt,
	)
	return c, err
}

func (r *SQLRepository) CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	created := *c
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row, err := queryRow(ctx, tx, psql.Insert("clients").
			Columns("username", "phone", "email", "password_hash", "buying_price",
				"balance_amount", "pickup_date", "group_name", "created_by", "created_at").
			Values(c.Username, c.Phone, c.Email, c.PasswordHash, c.BuyingPrice,
				c.BalanceAmount, c.PickupDate, c.GroupName, c.CreatedBy, c.CreatedAt).
			Suffix("RETURNING id"))
		if err != nil {
			return err
		}
		if err := row.Scan(&created.ID); err != nil {
			return mapError(err)
		}
		return claimEmail(ctx, tx, domain.PrincipalClient, created.ID, created.Email)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *SQLRepository) getClient(ctx context.Context, q queryer, where sq.Sqlizer, lock bool) (*domain.Client, error) {
	b := psql.Select(clientColumns...).From("clients").Where(where)
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return nil, err
	}
	c, err := scanClient(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *SQLRepository) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return r.getClient(ctx, r.db, sq.Eq{"id": id}, false)
}

func (r *SQLRepository) FindClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.getClient(ctx, r.db, emailIs(email), false)
}

func (r *SQLRepository) ListClients(ctx context.Context, f ports.ClientFilter) ([]domain.Client, error) {
	b := psql.Select(clientColumns...).From("clients").OrderBy("id")
	if f.GroupName != nil {
		b = b.Where(sq.Eq{"group_name": *f.GroupName})
	}
	return list(ctx, r.db, b, scanClient)
}

func (r *SQLRepository) UpdateClient(ctx context.Context, id int64, mutate func(*domain.Client) error) (*domain.Client, error) {
	var out *domain.Client
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := r.getClient(ctx, tx, sq.Eq{"id": id}, true)
		if err != nil {
			return err
		}
		previous := c.Email
		if err := mutate(c); err != nil {
			return err
		}
		_, err = exec(ctx, tx, psql.Update("clients").
			SetMap(map[string]any{
				"username":       c.Username,
				"phone":          c.Phone,
				"email":          c.Email,
				"password_hash":  c.PasswordHash,
				"buying_price":   c.BuyingPrice,
				"balance_amount": c.BalanceAmount,
				"pickup_date":    c.PickupDate,
				"group_name":     c.GroupName,
			}).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		if c.Email != previous {
			if err := moveEmail(ctx, tx, domain.PrincipalClient, id, c.Email); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) DeleteClient(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteRow(ctx, tx, "clients", sq.Eq{"id": id}); err != nil {
			return err
		}
		return releaseEmail(ctx, tx, domain.PrincipalClient, id)
	})
}
