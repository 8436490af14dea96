package users

import (
	"context"

	"github.com/avolkovx/listsync/internal/server/models"
)

// Repository owns user identity records and the per-user push device tokens.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	SetContactToken(ctx context.Context, userID, tokenID string) error

	// GetByContactTokenData resolves a contact share-link string to its
	// issuing user and token.
	GetByContactTokenData(ctx context.Context, data string) (*models.User, *models.ShareToken, error)

	AddDeviceToken(ctx context.Context, userID, token string) error
	RemoveDeviceToken(ctx context.Context, userID, token string) error
	DeviceTokens(ctx context.Context, userID string) ([]string, error)
}
