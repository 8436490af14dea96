// Package contentstore persists list item payloads as one blob per list,
// addressed by (ownerID, listID) under a per-owner namespace.
//
// The content store is deliberately independent from the metadata store and
// is never part of its transaction. Callers follow the ordering rules: write
// content before committing metadata on creation, remove metadata before
// content on deletion. A crash in between leaves at worst an orphaned blob,
// which is safe and reclaimable.
package contentstore

import (
	"context"

	"github.com/avolkovx/listsync/internal/server/models"
)

// Store is the blob interface the sharing engine speaks.
//
// Load returns common.ErrNotFound when no blob exists. Update fails with
// common.ErrNotFound instead of creating a missing blob, which lets callers
// distinguish the create path from the update path.
type Store interface {
	Load(ctx context.Context, ownerID, listID string) (*models.ListContent, error)
	Store(ctx context.Context, ownerID, listID string, content *models.ListContent) error
	Update(ctx context.Context, ownerID, listID string, content *models.ListContent) error
	Move(ctx context.Context, oldOwnerID, newOwnerID, listID string) error
	Delete(ctx context.Context, ownerID, listID string) error
}
