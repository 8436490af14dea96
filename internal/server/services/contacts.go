package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/dbx"
	"github.com/avolkovx/listsync/internal/server/models"
	"github.com/avolkovx/listsync/internal/server/notify"
	"github.com/avolkovx/listsync/internal/server/repositories/contacts"
	"github.com/avolkovx/listsync/internal/server/repositories/repomanager"
)

// ContactService owns the directed contact relations between users and the
// contact share links that establish them.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	dispatcher  *notify.Dispatcher
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, dispatcher *notify.Dispatcher) *ContactService {
	return &ContactService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		dispatcher:  dispatcher,
	}
}

// AddOrUpdateContact creates or retypes the (source, target) relation.
// Idempotent per pair; with allowUpdate=false an existing relation fails with
// ErrAlreadyExists. The target is notified only on first creation, never on
// type updates.
func (s *ContactService) AddOrUpdateContact(ctx context.Context, sourceID, targetID string, contactType models.ContactType, allowUpdate bool) error {
	if sourceID == targetID {
		return common.ErrInvalidInput
	}

	var created bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetByID(ctx, targetID); err != nil {
			return err
		}

		var err error
		created, err = upsertContact(ctx, s.repomanager.Contacts(tx), sourceID, targetID, contactType, allowUpdate)
		return err
	})
	if err != nil {
		return err
	}

	if created {
		s.dispatcher.SendToUser(ctx, targetID, notify.EventContactAdded,
			notify.ContactAddedPayload{SourceID: sourceID, TargetID: targetID})
	}

	return nil
}

func (s *ContactService) RemoveContact(ctx context.Context, sourceID, targetID string) error {
	return s.repomanager.Contacts(s.db).Remove(ctx, sourceID, targetID)
}

func (s *ContactService) Contacts(ctx context.Context, sourceID string) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).ListOf(ctx, sourceID)
}

// IsBlocked reports whether sourceID ignores targetID. Absence of a contact
// row means not blocked.
func (s *ContactService) IsBlocked(ctx context.Context, sourceID, targetID string) (bool, error) {
	return s.repomanager.Contacts(s.db).IsBlocked(ctx, sourceID, targetID)
}

// GenerateOrExtendContactShareID returns the user's contact share link,
// minting a token when none is alive and extending the expiry to a fresh
// 48 hours otherwise.
func (s *ContactService) GenerateOrExtendContactShareID(ctx context.Context, userID string) (string, error) {
	var data string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		tokensRepo := s.repomanager.ShareTokens(tx)

		user, err := usersRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		var existing *models.ShareToken
		if user.ContactTokenID != "" {
			existing, err = tokensRepo.Get(ctx, user.ContactTokenID)
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}
		}

		token, err := s.tokens.IssueOrExtend(ctx, tokensRepo, existing, ContactShareTokenTTL)
		if err != nil {
			return err
		}

		if token.ID != user.ContactTokenID {
			if err := usersRepo.SetContactToken(ctx, userID, token.ID); err != nil {
				return err
			}
		}

		data = token.Data
		return nil
	})
	if err != nil {
		return "", err
	}

	return data, nil
}

// AddUserFromContactShareID redeems a contact share link: it establishes the
// contact in both directions. The issuer side is created tolerantly (they may
// already have the redeemer as a contact); the redeemer side fails with
// ErrAlreadyExists when the contact was already added.
func (s *ContactService) AddUserFromContactShareID(ctx context.Context, currentUserID, shareID string) (*models.User, error) {
	var target *models.User
	var createdForTarget, createdForSelf bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		contactsRepo := s.repomanager.Contacts(tx)

		user, token, err := usersRepo.GetByContactTokenData(ctx, shareID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrTokenNotFound
			}
			return err
		}
		if err := s.tokens.Validate(token); err != nil {
			return err
		}
		if user.ID == currentUserID {
			return common.ErrInvalidInput
		}
		target = user

		createdForTarget, err = upsertContact(ctx, contactsRepo, target.ID, currentUserID, models.ContactDefault, true)
		if err != nil {
			return err
		}
		createdForSelf, err = upsertContact(ctx, contactsRepo, currentUserID, target.ID, models.ContactDefault, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	if createdForTarget {
		s.dispatcher.SendToUser(ctx, currentUserID, notify.EventContactAdded,
			notify.ContactAddedPayload{SourceID: target.ID, TargetID: currentUserID})
	}
	if createdForSelf {
		s.dispatcher.SendToUser(ctx, target.ID, notify.EventContactAdded,
			notify.ContactAddedPayload{SourceID: currentUserID, TargetID: target.ID})
	}

	return target, nil
}

// upsertContact is the transactional create-or-update branch shared by the
// contact operations. Reports whether a new row was created.
func upsertContact(ctx context.Context, repo contacts.Repository, sourceID, targetID string, contactType models.ContactType, allowUpdate bool) (bool, error) {
	existing, err := repo.Get(ctx, sourceID, targetID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	contact := &models.Contact{SourceID: sourceID, TargetID: targetID, Type: contactType}

	if existing != nil {
		if !allowUpdate {
			return false, common.ErrAlreadyExists
		}
		return false, repo.Update(ctx, contact)
	}

	return true, repo.Create(ctx, contact)
}
