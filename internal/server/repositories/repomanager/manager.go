// Package repomanager hands out repositories bound to an explicit database
// handle. Services pass either the pool or a transaction (dbx.DBTX), so the
// unit of work is always an explicit value, never ambient state.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovx/listsync/internal/dbx"
	"github.com/avolkovx/listsync/internal/server/repositories/contacts"
	"github.com/avolkovx/listsync/internal/server/repositories/lists"
	"github.com/avolkovx/listsync/internal/server/repositories/permissions"
	"github.com/avolkovx/listsync/internal/server/repositories/sharetokens"
	"github.com/avolkovx/listsync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Lists(db dbx.DBTX) lists.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	ShareTokens(db dbx.DBTX) sharetokens.Repository
	Users(db dbx.DBTX) users.Repository
}
