package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/startailored/records-service/internal/core/domain"
)

// principal_emails holds one row per staff member and client. Its unique index
// on lower(email) keeps an address from belonging to both kinds, so login
// always resolves to a single principal. Rows are written in the same
// transaction as the owning record.

func claimEmail(ctx context.Context, q queryer, kind domain.PrincipalKind, id int64, email string) error {
	_, err := exec(ctx, q, psql.Insert("principal_emails").
		Columns("email", "kind", "principal_id").
		Values(email, string(kind), id))
	return err
}

func moveEmail(ctx context.Context, q queryer, kind domain.PrincipalKind, id int64, email string) error {
	_, err := exec(ctx, q, psql.Update("principal_emails").
		Set("email", email).
		Where(sq.Eq{"kind": string(kind), "principal_id": id}))
	return err
}

func releaseEmail(ctx context.Context, q queryer, kind domain.PrincipalKind, id int64) error {
	_, err := exec(ctx, q, psql.Delete("principal_emails").
		Where(sq.Eq{"kind": string(kind), "principal_id": id}))
	return err
}

// emailIs matches an address the way the unique indexes compare it.
func emailIs(email string) sq.Sqlizer {
	return sq.Expr("lower(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}
