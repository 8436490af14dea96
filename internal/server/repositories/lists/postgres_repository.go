package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) get(ctx context.Context, syncID string, forUpdate bool) (*models.List, error) {
	query :=
		`SELECT sync_id, owner_id, last_change, COALESCE(share_token_id, '')
		 FROM lists
		 WHERE sync_id = $1
		 `
	if forUpdate {
		query += " FOR UPDATE"
	}

	list := &models.List{}
	err := r.db.QueryRowContext(ctx, query, syncID).
		Scan(&list.SyncID, &list.OwnerID, &list.LastChange, &list.ShareTokenID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) Get(ctx context.Context, syncID string) (*models.List, error) {
	return r.get(ctx, syncID, false)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, syncID string) (*models.List, error) {
	return r.get(ctx, syncID, true)
}

func (r *PostgresRepository) Create(ctx context.Context, list *models.List) error {
	query :=
		`INSERT INTO lists (sync_id, owner_id, last_change)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, list.SyncID, list.OwnerID, list.LastChange)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, syncID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE sync_id = $1`, syncID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) TouchLastChange(ctx context.Context, syncID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lists SET last_change = $2 WHERE sync_id = $1`, syncID, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetShareToken(ctx context.Context, syncID, tokenID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lists SET share_token_id = $2 WHERE sync_id = $1`, syncID, tokenID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByShareTokenData(ctx context.Context, data string) (*models.List, *models.ShareToken, error) {
	query :=
		`SELECT l.sync_id, l.owner_id, l.last_change, l.share_token_id,
		        t.id, t.data, t.expires
		 FROM lists l
		 JOIN share_tokens t ON t.id = l.share_token_id
		 WHERE t.data = $1
		 `

	list := &models.List{}
	token := &models.ShareToken{}
	err := r.db.QueryRowContext(ctx, query, data).
		Scan(&list.SyncID, &list.OwnerID, &list.LastChange, &list.ShareTokenID,
			&token.ID, &token.Data, &token.Expires)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}

	return list, token, nil
}

func (r *PostgresRepository) VisibleTo(ctx context.Context, userID string, required models.Permission) ([]*models.ListWithPermission, error) {
	// Left outer join against contacts: lists whose owner the user ignores
	// are filtered out even though the permission row exists.
	query :=
		`SELECT l.sync_id, l.owner_id, l.last_change, COALESCE(l.share_token_id, ''),
		        p.user_id, p.permission
		 FROM lists l
		 JOIN list_permissions p ON p.list_id = l.sync_id AND p.user_id = $1
		 LEFT JOIN contacts c ON c.source_id = $1 AND c.target_id = l.owner_id
		 WHERE (p.permission & $2) = $2
		   AND (c.contact_type IS NULL OR c.contact_type <> $3)
		 ORDER BY l.sync_id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, int(required), int(models.ContactIgnored))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.ListWithPermission
	for rows.Next() {
		list := &models.List{}
		lp := &models.ListWithPermission{List: list}
		if err := rows.Scan(&list.SyncID, &list.OwnerID, &list.LastChange, &list.ShareTokenID,
			&lp.UserID, &lp.Permission); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, lp)
	}

	return out, rows.Err()
}

func (r *PostgresRepository) LastChangeTimes(ctx context.Context, userID string, required models.Permission) ([]models.ListLastChange, error) {
	query :=
		`SELECT l.sync_id, l.last_change
		 FROM lists l
		 JOIN list_permissions p ON p.list_id = l.sync_id AND p.user_id = $1
		 LEFT JOIN contacts c ON c.source_id = $1 AND c.target_id = l.owner_id
		 WHERE (p.permission & $2) = $2
		   AND (c.contact_type IS NULL OR c.contact_type <> $3)
		 ORDER BY l.sync_id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, int(required), int(models.ContactIgnored))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.ListLastChange
	for rows.Next() {
		var lc models.ListLastChange
		if err := rows.Scan(&lc.SyncID, &lc.LastChange); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, lc)
	}

	return out, rows.Err()
}
