package permissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/dbx"
	"github.com/avolkovx/listsync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, listID, userID string) (*models.ListPermission, error) {
	query :=
		`SELECT list_id, user_id, permission
		 FROM list_permissions
		 WHERE list_id = $1 AND user_id = $2
		 `

	perm := &models.ListPermission{}
	err := r.db.QueryRowContext(ctx, query, listID, userID).
		Scan(&perm.ListID, &perm.UserID, &perm.Permission)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return perm, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.ListPermission, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.ListPermission
	for rows.Next() {
		perm := &models.ListPermission{}
		if err := rows.Scan(&perm.ListID, &perm.UserID, &perm.Permission); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, perm)
	}

	return out, rows.Err()
}

func (r *PostgresRepository) ListForList(ctx context.Context, listID string) ([]*models.ListPermission, error) {
	query :=
		`SELECT list_id, user_id, permission
		 FROM list_permissions
		 WHERE list_id = $1
		 ORDER BY user_id
		 `
	return r.list(ctx, query, listID)
}

func (r *PostgresRepository) ListOfUser(ctx context.Context, userID string) ([]*models.ListPermission, error) {
	query :=
		`SELECT list_id, user_id, permission
		 FROM list_permissions
		 WHERE user_id = $1
		 ORDER BY list_id
		 `
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) Upsert(ctx context.Context, perm *models.ListPermission) error {
	query :=
		`INSERT INTO list_permissions (list_id, user_id, permission)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (list_id, user_id) DO UPDATE SET permission = EXCLUDED.permission
		 `

	_, err := r.db.ExecContext(ctx, query, perm.ListID, perm.UserID, int(perm.Permission))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, listID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM list_permissions WHERE list_id = $1 AND user_id = $2`, listID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) RemoveAllForList(ctx context.Context, listID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM list_permissions WHERE list_id = $1`, listID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UsersWithPermission(ctx context.Context, listID, ownerID string, required models.Permission, excludeUserID string) ([]string, error) {
	query :=
		`SELECT p.user_id
		 FROM list_permissions p
		 LEFT JOIN contacts c ON c.source_id = p.user_id AND c.target_id = $2
		 WHERE p.list_id = $1
		   AND (p.permission & $3) = $3
		   AND p.user_id <> $4
		   AND (c.contact_type IS NULL OR c.contact_type <> $5)
		 ORDER BY p.user_id
		 `

	rows, err := r.db.QueryContext(ctx, query,
		listID, ownerID, int(required), excludeUserID, int(models.ContactIgnored))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}
