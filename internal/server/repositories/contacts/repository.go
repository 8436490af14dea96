package contacts

import (
	"context"

	"github.com/avolkovx/listsync/internal/server/models"
)

// Repository owns the directed (source, target) -> contact-type relation.
type Repository interface {
	Get(ctx context.Context, sourceID, targetID string) (*models.Contact, error)
	ListOf(ctx context.Context, sourceID string) ([]*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Remove(ctx context.Context, sourceID, targetID string) error

	// IsBlocked reports whether sourceID has marked targetID as Ignored.
	IsBlocked(ctx context.Context, sourceID, targetID string) (bool, error)
}
