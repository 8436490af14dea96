package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovx/listsync/internal/dbx"
	"github.com/avolkovx/listsync/internal/server/migrations"
	"github.com/avolkovx/listsync/internal/server/repositories/contacts"
	"github.com/avolkovx/listsync/internal/server/repositories/lists"
	"github.com/avolkovx/listsync/internal/server/repositories/permissions"
	"github.com/avolkovx/listsync/internal/server/repositories/sharetokens"
	"github.com/avolkovx/listsync/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Lists(db dbx.DBTX) lists.Repository {
	return lists.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Permissions(db dbx.DBTX) permissions.Repository {
	return permissions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Contacts(db dbx.DBTX) contacts.Repository {
	return contacts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ShareTokens(db dbx.DBTX) sharetokens.Repository {
	return sharetokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
