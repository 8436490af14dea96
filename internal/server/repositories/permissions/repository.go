package permissions

import (
	"context"

	"github.com/avolkovx/listsync/internal/server/models"
)

// Repository owns the (list, user) -> permission-flags relation.
type Repository interface {
	Get(ctx context.Context, listID, userID string) (*models.ListPermission, error)
	ListForList(ctx context.Context, listID string) ([]*models.ListPermission, error)
	ListOfUser(ctx context.Context, userID string) ([]*models.ListPermission, error)

	// Upsert atomically inserts the row or overwrites its flags.
	// Callers that need to distinguish create from update branch on Get
	// under the list row lock (lists.GetForUpdate).
	Upsert(ctx context.Context, perm *models.ListPermission) error

	Remove(ctx context.Context, listID, userID string) error
	RemoveAllForList(ctx context.Context, listID string) error

	// UsersWithPermission returns the ids of every user holding at least the
	// required flags on the list, minus excludeUserID and minus users that
	// have ignored the list's owner. This is the fan-out recipient query.
	UsersWithPermission(ctx context.Context, listID, ownerID string, required models.Permission, excludeUserID string) ([]string, error)
}
