package sharetokens

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

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.ShareToken, error) {
	token := &models.ShareToken{}
	err := row.Scan(&token.ID, &token.Data, &token.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.ShareToken, error) {
	query := `SELECT id, data, expires FROM share_tokens WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByData(ctx context.Context, data string) (*models.ShareToken, error) {
	query := `SELECT id, data, expires FROM share_tokens WHERE data = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, data))
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.ShareToken) error {
	query :=
		`INSERT INTO share_tokens (id, data, expires)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, token.ID, token.Data, token.Expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateExpiry(ctx context.Context, id string, expires time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE share_tokens SET expires = $2 WHERE id = $1`, id, expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM share_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
