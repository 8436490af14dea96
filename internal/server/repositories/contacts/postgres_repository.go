package contacts

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

func (r *PostgresRepository) Get(ctx context.Context, sourceID, targetID string) (*models.Contact, error) {
	query :=
		`SELECT source_id, target_id, contact_type
		 FROM contacts
		 WHERE source_id = $1 AND target_id = $2
		 `

	c := &models.Contact{}
	err := r.db.QueryRowContext(ctx, query, sourceID, targetID).
		Scan(&c.SourceID, &c.TargetID, &c.Type)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) ListOf(ctx context.Context, sourceID string) ([]*models.Contact, error) {
	query :=
		`SELECT source_id, target_id, contact_type
		 FROM contacts
		 WHERE source_id = $1
		 ORDER BY target_id
		 `

	rows, err := r.db.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.SourceID, &c.TargetID, &c.Type); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) error {
	query :=
		`INSERT INTO contacts (source_id, target_id, contact_type)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, contact.SourceID, contact.TargetID, int(contact.Type))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET contact_type = $3 WHERE source_id = $1 AND target_id = $2`,
		contact.SourceID, contact.TargetID, int(contact.Type))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, sourceID, targetID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE source_id = $1 AND target_id = $2`, sourceID, targetID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) IsBlocked(ctx context.Context, sourceID, targetID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM contacts
		     WHERE source_id = $1 AND target_id = $2 AND contact_type = $3
		 )`

	var blocked bool
	err := r.db.QueryRowContext(ctx, query, sourceID, targetID, int(models.ContactIgnored)).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return blocked, nil
}
