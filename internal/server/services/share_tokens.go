package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/server/models"
	"github.com/avolkovx/listsync/internal/server/repositories/sharetokens"
)

// ListShareTokenTTL is the lifetime of list share links. They are effectively
// non-expiring; the far-future instant keeps the expiry check uniform.
const ListShareTokenTTL = 100 * 365 * 24 * time.Hour

// ContactShareTokenTTL is the lifetime of contact share links. Re-requesting
// an unexpired link extends it by the same amount instead of minting a new
// string, so links already handed out stay valid.
const ContactShareTokenTTL = 48 * time.Hour

// TokenService issues, extends and validates share tokens. It is a pure
// policy layer over the share-token repository; callers supply the repository
// bound to their unit of work.
type TokenService struct {
	keyLength int
	now       func() time.Time
}

func NewTokenService(keyLength int) *TokenService {
	return &TokenService{keyLength: keyLength, now: time.Now}
}

// IssueOrExtend returns a usable token: the existing one with a refreshed
// expiry when it is still valid, or a freshly minted one otherwise. The token
// string never changes while the token is alive.
func (s *TokenService) IssueOrExtend(ctx context.Context, repo sharetokens.Repository, existing *models.ShareToken, ttl time.Duration) (*models.ShareToken, error) {
	now := s.now()

	if existing != nil && !existing.IsExpired(now) {
		existing.Expires = now.Add(ttl)
		if err := repo.UpdateExpiry(ctx, existing.ID, existing.Expires); err != nil {
			return nil, err
		}
		return existing, nil
	}

	data, err := common.MakeRandKey(s.keyLength)
	if err != nil {
		return nil, err
	}

	token := &models.ShareToken{
		ID:      uuid.NewString(),
		Data:    data,
		Expires: now.Add(ttl),
	}
	if err := repo.Create(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// Validate checks a redeemed token. Expired tokens yield ErrTokenExpired so
// callers can report "link expired" distinctly from "link invalid".
func (s *TokenService) Validate(token *models.ShareToken) error {
	if token == nil {
		return common.ErrTokenNotFound
	}
	if token.IsExpired(s.now()) {
		return common.ErrTokenExpired
	}
	return nil
}
