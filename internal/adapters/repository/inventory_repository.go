package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

var _ ports.InventoryRepository = (*SQLRepository)(nil)

var inventoryColumns = []string{"id", "item_name", "quantity", "description", "created_by", "created_at"}

func scanInventory(row rowScanner) (domain.Inventory, error) {
	var i domain.Inventory
	err := row.Scan(&i.ID, &i.ItemName, &i.Quantity, &i.Description, &i.CreatedBy, &i.CreatedAt)
	return i, err
}

func (r *SQLRepository) CreateInventory(ctx context.Context, i *domain.Inventory) (*domain.Inventory, error) {
	row, err := queryRow(ctx, r.db, psql.Insert("inventory").
		Columns("item_name", "quantity", "description", "created_by", "created_at").
		Values(i.ItemName, i.Quantity, i.Description, i.CreatedBy, i.CreatedAt).
		Suffix("RETURNING id"))
	if err != nil {
		return nil, err
	}

	created := *i
	if err := row.Scan(&created.ID); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *SQLRepository) getInventory(ctx context.Context, q queryer, id int64, lock bool) (*domain.Inventory, error) {
	b := psql.Select(inventoryColumns...).From("inventory").Where(sq.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return nil, err
	}
	i, err := scanInventory(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &i, nil
}

func (r *SQLRepository) GetInventory(ctx context.Context, id int64) (*domain.Inventory, error) {
	return r.getInventory(ctx, r.db, id, false)
}

func (r *SQLRepository) ListInventory(ctx context.Context, f ports.InventoryFilter) ([]domain.Inventory, error) {
	b := psql.Select(inventoryColumns...).From("inventory").OrderBy("id")
	if f.NameContains != "" {
		b = b.Where(sq.ILike{"item_name": "%" + f.NameContains + "%"})
	}
	return list(ctx, r.db, b, scanInventory)
}

func (r *SQLRepository) UpdateInventory(ctx context.Context, id int64, mutate func(*domain.Inventory) error) (*domain.Inventory, error) {
	var out *domain.Inventory
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		i, err := r.getInventory(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := mutate(i); err != nil {
			return err
		}
		_, err = exec(ctx, tx, psql.Update("inventory").
			Set("item_name", i.ItemName).
			Set("quantity", i.Quantity).
			Set("description", i.Description).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		out = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) DeleteInventory(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "inventory", sq.Eq{"id": id})
}
