package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.ContactTokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

const userColumns = `id, username, email, password_hash, COALESCE(contact_token_id, '')`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) SetContactToken(ctx context.Context, userID, tokenID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET contact_token_id = $2 WHERE id = $1`, userID, tokenID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByContactTokenData(ctx context.Context, data string) (*models.User, *models.ShareToken, error) {
	query :=
		`SELECT u.id, u.username, u.email, u.password_hash, u.contact_token_id,
		        t.id, t.data, t.expires
		 FROM users u
		 JOIN share_tokens t ON t.id = u.contact_token_id
		 WHERE t.data = $1
		 `

	user := &models.User{}
	token := &models.ShareToken{}
	err := r.db.QueryRowContext(ctx, query, data).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.ContactTokenID,
			&token.ID, &token.Data, &token.Expires)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}

	return user, token, nil
}

func (r *PostgresRepository) AddDeviceToken(ctx context.Context, userID, token string) error {
	query :=
		`INSERT INTO device_tokens (user_id, token)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, token) DO NOTHING
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) RemoveDeviceToken(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY token`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, token)
	}

	return out, rows.Err()
}
