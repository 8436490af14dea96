package sharetokens

import (
	"context"
	"time"

	"github.com/avolkovx/listsync/internal/server/models"
)

// Repository owns share-token records. Tokens are reusable until they expire;
// redemption never deletes them.
type Repository interface {
	Get(ctx context.Context, id string) (*models.ShareToken, error)
	GetByData(ctx context.Context, data string) (*models.ShareToken, error)
	Create(ctx context.Context, token *models.ShareToken) error
	UpdateExpiry(ctx context.Context, id string, expires time.Time) error
	Delete(ctx context.Context, id string) error
}
