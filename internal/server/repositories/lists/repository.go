package lists

import (
	"context"
	"time"

	"github.com/avolkovx/listsync/internal/server/models"
)

// Repository owns the list metadata records. Read paths return
// common.ErrNotFound instead of failing on missing rows.
type Repository interface {
	Get(ctx context.Context, syncID string) (*models.List, error)

	// GetForUpdate loads the list row with a row lock, serializing every
	// permission mutation for the list inside the surrounding transaction.
	// This closes the create-vs-update race on permission rows without an
	// optimistic-concurrency token.
	GetForUpdate(ctx context.Context, syncID string) (*models.List, error)

	Create(ctx context.Context, list *models.List) error
	Delete(ctx context.Context, syncID string) error
	TouchLastChange(ctx context.Context, syncID string, at time.Time) error
	SetShareToken(ctx context.Context, syncID, tokenID string) error

	// GetByShareTokenData resolves a share-link string to its list and token.
	GetByShareTokenData(ctx context.Context, data string) (*models.List, *models.ShareToken, error)

	// VisibleTo enumerates the lists the user holds the required flags on,
	// excluding lists whose owner the user has ignored.
	VisibleTo(ctx context.Context, userID string, required models.Permission) ([]*models.ListWithPermission, error)

	// LastChangeTimes is the incremental-sync variant of VisibleTo: it
	// returns only (sync_id, last_change) pairs.
	LastChangeTimes(ctx context.Context, userID string, required models.Permission) ([]models.ListLastChange, error)
}
