package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/dbx"
	"github.com/avolkovx/listsync/internal/logging"
	"github.com/avolkovx/listsync/internal/server/contentstore"
	"github.com/avolkovx/listsync/internal/server/models"
	"github.com/avolkovx/listsync/internal/server/notify"
	"github.com/avolkovx/listsync/internal/server/repositories/permissions"
	"github.com/avolkovx/listsync/internal/server/repositories/repomanager"
)

// Patchable scalar list properties. Unknown property names are ignored
// without error so that newer clients can patch fields older servers do not
// know about yet.
const (
	ListPropertyDate  = "Date"
	ListPropertyNotes = "Notes"
)

// SharingService orchestrates list access: permission checks, ownership,
// dual-store writes and the fan-out to the notification channels.
//
// Every mutating operation runs its metadata writes in one transaction. The
// content store is a second, independent resource: content is written before
// the metadata commit on creation and removed after the metadata delete, so a
// crash in between leaves at worst an orphaned blob.
type SharingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	content     contentstore.Store
	tokens      *TokenService
	dispatcher  *notify.Dispatcher
	logger      logging.Logger

	now   func() time.Time
	newID func() string
}

func NewSharingService(db *sql.DB, m repomanager.RepositoryManager, content contentstore.Store,
	tokens *TokenService, dispatcher *notify.Dispatcher, logger logging.Logger) *SharingService {
	return &SharingService{
		db:          db,
		repomanager: m,
		content:     content,
		tokens:      tokens,
		dispatcher:  dispatcher,
		logger:      logger.With("component", "sharing"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// requirePermission fails with NoPermissionError unless userID holds every
// bit of required on the list. A missing row counts as no permission.
func requirePermission(ctx context.Context, repo permissions.Repository, listID, userID string, required models.Permission) error {
	perm, err := repo.Get(ctx, listID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &common.NoPermissionError{Required: int(required)}
		}
		return err
	}
	if !perm.Permission.Has(required) {
		return &common.NoPermissionError{Required: int(required)}
	}
	return nil
}

// GetList returns the full content of a list. Requires Read; fails with
// ErrOwnerBlocked when the requester ignores the list's owner, even though a
// valid permission row exists.
func (s *SharingService) GetList(ctx context.Context, userID, listID string) (*models.ListContent, error) {
	list, err := s.repomanager.Lists(s.db).Get(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := requirePermission(ctx, s.repomanager.Permissions(s.db), listID, userID, models.PermissionRead); err != nil {
		return nil, err
	}

	blocked, err := s.repomanager.Contacts(s.db).IsBlocked(ctx, userID, list.OwnerID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, common.ErrOwnerBlocked
	}

	return s.content.Load(ctx, list.OwnerID, listID)
}

// GetLists returns the content of every list the user can read. Lists whose
// blob cannot be loaded are skipped and logged, never fail the enumeration.
func (s *SharingService) GetLists(ctx context.Context, userID string) ([]*models.ListContent, error) {
	visible, err := s.repomanager.Lists(s.db).VisibleTo(ctx, userID, models.PermissionRead)
	if err != nil {
		return nil, err
	}

	result := make([]*models.ListContent, 0, len(visible))
	for _, v := range visible {
		content, err := s.content.Load(ctx, v.List.OwnerID, v.List.SyncID)
		if err != nil {
			s.logger.Warn(ctx, "skipping list with unreadable content", "sync_id", v.List.SyncID, "error", err)
			continue
		}
		result = append(result, content)
	}

	return result, nil
}

// GetListsWithPermission enumerates the lists the user holds the required
// flags on, with the flags attached. Metadata only, no content loads.
func (s *SharingService) GetListsWithPermission(ctx context.Context, userID string, required models.Permission) ([]*models.ListWithPermission, error) {
	return s.repomanager.Lists(s.db).VisibleTo(ctx, userID, required)
}

// GetListsLastChangeTimes is the incremental-sync entry point: clients
// compare the returned timestamps against their local state and fetch only
// lists that changed.
func (s *SharingService) GetListsLastChangeTimes(ctx context.Context, userID string) ([]models.ListLastChange, error) {
	return s.repomanager.Lists(s.db).LastChangeTimes(ctx, userID, models.PermissionRead)
}

func (s *SharingService) GetListLastChangeTime(ctx context.Context, userID, listID string) (time.Time, error) {
	list, err := s.repomanager.Lists(s.db).Get(ctx, listID)
	if err != nil {
		return time.Time{}, err
	}
	if err := requirePermission(ctx, s.repomanager.Permissions(s.db), listID, userID, models.PermissionRead); err != nil {
		return time.Time{}, err
	}
	blocked, err := s.repomanager.Contacts(s.db).IsBlocked(ctx, userID, list.OwnerID)
	if err != nil {
		return time.Time{}, err
	}
	if blocked {
		return time.Time{}, common.ErrOwnerBlocked
	}
	return list.LastChange, nil
}

// CreateList creates a list owned by ownerID and grants the owner All.
// A caller-supplied identity that already exists is rejected with
// ErrAlreadyExists rather than overwritten; an empty identity gets a fresh
// one assigned. Content is written before the metadata commit.
func (s *SharingService) CreateList(ctx context.Context, ownerID string, content *models.ListContent) (*models.ListContent, error) {
	if content == nil || content.Name == "" {
		return nil, common.ErrInvalidInput
	}

	if content.SyncID != "" {
		_, err := s.repomanager.Lists(s.db).Get(ctx, content.SyncID)
		if err == nil {
			return nil, common.ErrAlreadyExists
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	} else {
		content.SyncID = s.newID()
	}

	if err := s.content.Store(ctx, ownerID, content.SyncID, content); err != nil {
		return nil, err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		list := &models.List{
			SyncID:     content.SyncID,
			OwnerID:    ownerID,
			LastChange: s.now(),
		}
		if err := s.repomanager.Lists(tx).Create(ctx, list); err != nil {
			return err
		}
		return s.repomanager.Permissions(tx).Upsert(ctx, &models.ListPermission{
			ListID:     content.SyncID,
			UserID:     ownerID,
			Permission: models.PermissionAll,
		})
	})
	if err != nil {
		return nil, err
	}

	// No other permission holders exist yet, so there is nobody to notify.
	return content, nil
}

// UpdateList replaces the full content of a list. Requires Write.
func (s *SharingService) UpdateList(ctx context.Context, userID string, content *models.ListContent) error {
	if content == nil || content.SyncID == "" {
		return common.ErrInvalidInput
	}

	list, err := s.repomanager.Lists(s.db).Get(ctx, content.SyncID)
	if err != nil {
		return err
	}
	if err := requirePermission(ctx, s.repomanager.Permissions(s.db), content.SyncID, userID, models.PermissionWrite); err != nil {
		return err
	}

	if err := s.content.Update(ctx, list.OwnerID, content.SyncID, content); err != nil {
		return err
	}
	if err := s.repomanager.Lists(s.db).TouchLastChange(ctx, content.SyncID, s.now()); err != nil {
		return err
	}

	s.fanOut(ctx, list, userID, notify.EventListUpdated,
		notify.ListUpdatedPayload{ActorID: userID, List: content})
	return nil
}

// UpdateListProperty patches one named scalar property of the list content.
// Unknown property names are a silent no-op. Requires Write.
func (s *SharingService) UpdateListProperty(ctx context.Context, userID, listID, property, value string) error {
	list, err := s.repomanager.Lists(s.db).Get(ctx, listID)
	if err != nil {
		return err
	}
	if err := requirePermission(ctx, s.repomanager.Permissions(s.db), listID, userID, models.PermissionWrite); err != nil {
		return err
	}

	content, err := s.content.Load(ctx, list.OwnerID, listID)
	if err != nil {
		return err
	}

	switch property {
	case ListPropertyDate:
		content.Date = value
	case ListPropertyNotes:
		content.Notes = value
	default:
		return nil
	}

	if err := s.content.Update(ctx, list.OwnerID, listID, content); err != nil {
		return err
	}
	if err := s.repomanager.Lists(s.db).TouchLastChange(ctx, listID, s.now()); err != nil {
		return err
	}

	s.fanOut(ctx, list, userID, notify.EventListPropertyChanged,
		notify.ListPropertyChangedPayload{ActorID: userID, SyncID: listID, Property: property, Value: value})
	return nil
}

// UpdateItem updates the item part of the product matching oldName. Item
// names are the de-facto key within a list; the first match wins. Requires
// Write; an absent item fails with ErrNotFound.
func (s *SharingService) UpdateItem(ctx context.Context, userID, listID, oldName string, item models.Item) error {
	list, content, err := s.loadForWrite(ctx, userID, listID)
	if err != nil {
		return err
	}

	idx := findProduct(content.Products, oldName)
	if idx < 0 {
		return common.ErrNotFound
	}
	content.Products[idx].Item = item

	if err := s.saveAndTouch(ctx, list, content); err != nil {
		return err
	}

	if item.Name != oldName {
		s.fanOut(ctx, list, userID, notify.EventItemNameChanged,
			notify.ItemNameChangedPayload{ActorID: userID, SyncID: listID, NewName: item.Name, OldName: oldName})
	} else {
		s.fanOut(ctx, list, userID, notify.EventItemAddedOrUpdated,
			notify.ItemAddedOrUpdatedPayload{ActorID: userID, SyncID: listID, Item: item})
	}
	return nil
}

// AddOrUpdateProduct upserts a product by its item name. Requires Write.
func (s *SharingService) AddOrUpdateProduct(ctx context.Context, userID, listID string, product models.Product) error {
	if product.Item.Name == "" {
		return common.ErrInvalidInput
	}

	list, content, err := s.loadForWrite(ctx, userID, listID)
	if err != nil {
		return err
	}

	if idx := findProduct(content.Products, product.Item.Name); idx >= 0 {
		content.Products[idx] = product
	} else {
		content.Products = append(content.Products, product)
	}

	if err := s.saveAndTouch(ctx, list, content); err != nil {
		return err
	}

	s.fanOut(ctx, list, userID, notify.EventProductAddedOrUpdated,
		notify.ProductAddedOrUpdatedPayload{ActorID: userID, SyncID: listID, Product: product})
	return nil
}

// RemoveItem removes the first product whose item name matches. Requires
// Write; an absent item fails with ErrNotFound.
func (s *SharingService) RemoveItem(ctx context.Context, userID, listID, itemName string) error {
	list, content, err := s.loadForWrite(ctx, userID, listID)
	if err != nil {
		return err
	}

	idx := findProduct(content.Products, itemName)
	if idx < 0 {
		return common.ErrNotFound
	}
	content.Products = append(content.Products[:idx], content.Products[idx+1:]...)

	if err := s.saveAndTouch(ctx, list, content); err != nil {
		return err
	}

	s.fanOut(ctx, list, userID, notify.EventListUpdated,
		notify.ListUpdatedPayload{ActorID: userID, List: content})
	return nil
}

// ListPermissions returns every permission row of the list. Requires Read.
func (s *SharingService) ListPermissions(ctx context.Context, userID, listID string) ([]*models.ListPermission, error) {
	list, err := s.repomanager.Lists(s.db).Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := requirePermission(ctx, s.repomanager.Permissions(s.db), listID, userID, models.PermissionRead); err != nil {
		return nil, err
	}
	blocked, err := s.repomanager.Contacts(s.db).IsBlocked(ctx, userID, list.OwnerID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, common.ErrOwnerBlocked
	}
	return s.repomanager.Permissions(s.db).ListForList(ctx, listID)
}

// PermissionsOfUser returns every permission row the user holds.
func (s *SharingService) PermissionsOfUser(ctx context.Context, userID string) ([]*models.ListPermission, error) {
	return s.repomanager.Permissions(s.db).ListOfUser(ctx, userID)
}

// PermissionFor returns the flags userID holds on the list,
// PermissionUndefined when no row exists.
func (s *SharingService) PermissionFor(ctx context.Context, listID, userID string) (models.Permission, error) {
	perm, err := s.repomanager.Permissions(s.db).Get(ctx, listID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.PermissionUndefined, nil
		}
		return models.PermissionUndefined, err
	}
	return perm.Permission, nil
}

// AddOrUpdateListPermission grants or changes targetID's flags on the list.
//
// The list row is locked for the duration of the transaction, so concurrent
// calls for the same list serialize and the create-vs-update decision cannot
// race. Creating a new row requires AddPermission of the actor, changing an
// existing one requires ModifyPermission; skipCheck bypasses both for
// system-initiated grants. With allowUpdate=false an existing row fails with
// ErrAlreadyExists instead of being changed.
//
// Reports whether a new row was created. On creation the target is notified
// that a list was shared with them, including a push notification; on update
// only the target learns of the flag change.
func (s *SharingService) AddOrUpdateListPermission(ctx context.Context, actorID, targetID, listID string,
	flags models.Permission, skipCheck, allowUpdate bool) (bool, error) {

	var list *models.List
	var created bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Lists(tx).GetForUpdate(ctx, listID)
		if err != nil {
			return err
		}

		permsRepo := s.repomanager.Permissions(tx)

		existing, err := permsRepo.Get(ctx, listID, targetID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		if existing != nil {
			if !skipCheck {
				if err := requirePermission(ctx, permsRepo, listID, actorID, models.PermissionModify); err != nil {
					return err
				}
			}
			if !allowUpdate {
				return common.ErrAlreadyExists
			}
		} else {
			if !skipCheck {
				if err := requirePermission(ctx, permsRepo, listID, actorID, models.PermissionAdd); err != nil {
					return err
				}
			}
			created = true
		}

		if err := permsRepo.Upsert(ctx, &models.ListPermission{ListID: listID, UserID: targetID, Permission: flags}); err != nil {
			return err
		}
		// Permission changes are mutations too: incremental-sync clients
		// poll last_change and must see them.
		return s.repomanager.Lists(tx).TouchLastChange(ctx, listID, s.now())
	})
	if err != nil {
		return false, err
	}

	if created {
		s.notifyListShared(ctx, list, actorID, targetID)
	} else {
		s.dispatcher.SendToUser(ctx, targetID, notify.EventListPermissionChanged,
			notify.ListPermissionChangedPayload{ActorID: actorID, SyncID: listID, UserID: targetID, Permission: flags})
	}

	return created, nil
}

// notifyListShared tells the new permission holder that a list appeared for
// them: a real-time event carrying the content plus a push notification.
// Best effort on every step.
func (s *SharingService) notifyListShared(ctx context.Context, list *models.List, actorID, targetID string) {
	content, err := s.content.Load(ctx, list.OwnerID, list.SyncID)
	if err != nil {
		s.logger.Warn(ctx, "content load for share notification failed", "sync_id", list.SyncID, "error", err)
	} else {
		s.dispatcher.SendToUser(ctx, targetID, notify.EventListAdded,
			notify.ListAddedPayload{ActorID: actorID, List: content})
	}

	actor, err := s.repomanager.Users(s.db).GetByID(ctx, actorID)
	if err != nil {
		s.logger.Warn(ctx, "actor lookup for share notification failed", "user_id", actorID, "error", err)
		return
	}
	s.dispatcher.Push(ctx, targetID, "New shared list",
		fmt.Sprintf("%s shared a list with you", actor.Username),
		map[string]string{"sync_id": list.SyncID})
}

// RemoveListPermission removes targetID's row on the list. Self-removal is
// always allowed; removing someone else requires ModifyPermission.
//
// When the removed row was the last one, the list and its content are
// deleted. When the removed row held All and no remaining row does, an
// arbitrary remaining holder is promoted to All so the list never loses its
// last admin.
func (s *SharingService) RemoveListPermission(ctx context.Context, actorID, targetID, listID string) error {
	var list *models.List
	var cascaded bool
	var promotedID string
	var remainingIDs []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Lists(tx).GetForUpdate(ctx, listID)
		if err != nil {
			return err
		}

		permsRepo := s.repomanager.Permissions(tx)

		if actorID != targetID {
			if err := requirePermission(ctx, permsRepo, listID, actorID, models.PermissionModify); err != nil {
				return err
			}
		}

		removed, err := permsRepo.Get(ctx, listID, targetID)
		if err != nil {
			return err
		}
		if err := permsRepo.Remove(ctx, listID, targetID); err != nil {
			return err
		}

		remaining, err := permsRepo.ListForList(ctx, listID)
		if err != nil {
			return err
		}

		if len(remaining) == 0 {
			cascaded = true
			return s.repomanager.Lists(tx).Delete(ctx, listID)
		}

		for _, p := range remaining {
			remainingIDs = append(remainingIDs, p.UserID)
		}

		if removed.Permission.Has(models.PermissionAll) {
			hasAdmin := false
			for _, p := range remaining {
				if p.Permission.Has(models.PermissionAll) {
					hasAdmin = true
					break
				}
			}
			if !hasAdmin {
				promotedID = remaining[0].UserID
				if err := permsRepo.Upsert(ctx, &models.ListPermission{
					ListID:     listID,
					UserID:     promotedID,
					Permission: models.PermissionAll,
				}); err != nil {
					return err
				}
			}
		}
		return s.repomanager.Lists(tx).TouchLastChange(ctx, listID, s.now())
	})
	if err != nil {
		return err
	}

	if cascaded {
		if err := s.content.Delete(ctx, list.OwnerID, listID); err != nil {
			s.logger.Error(ctx, "orphaned content blob after cascade delete", "sync_id", listID, "error", err)
		}
	}

	s.dispatcher.SendToUser(ctx, targetID, notify.EventListRemoved,
		notify.ListRemovedPayload{ActorID: actorID, SyncID: listID})

	if len(remainingIDs) > 0 {
		recipients := make([]string, 0, len(remainingIDs))
		for _, id := range remainingIDs {
			if id != actorID {
				recipients = append(recipients, id)
			}
		}
		s.dispatcher.Broadcast(ctx, recipients, notify.EventListPermissionRemoved,
			notify.ListPermissionRemovedPayload{ActorID: actorID, SyncID: listID, UserID: targetID})
	}

	if promotedID != "" {
		s.dispatcher.SendToUser(ctx, promotedID, notify.EventListPermissionChanged,
			notify.ListPermissionChangedPayload{ActorID: actorID, SyncID: listID, UserID: promotedID, Permission: models.PermissionAll})
	}

	return nil
}

// DeleteListForEveryone removes the list, its permission rows and its
// content. Requires Delete. Every prior holder except the actor is notified.
func (s *SharingService) DeleteListForEveryone(ctx context.Context, actorID, listID string) error {
	var list *models.List
	var recipients []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Lists(tx).GetForUpdate(ctx, listID)
		if err != nil {
			return err
		}

		permsRepo := s.repomanager.Permissions(tx)

		if err := requirePermission(ctx, permsRepo, listID, actorID, models.PermissionDelete); err != nil {
			return err
		}

		// Recipient set is computed before the rows disappear.
		recipients, err = permsRepo.UsersWithPermission(ctx, listID, list.OwnerID, models.PermissionRead, actorID)
		if err != nil {
			return err
		}

		if err := permsRepo.RemoveAllForList(ctx, listID); err != nil {
			return err
		}
		return s.repomanager.Lists(tx).Delete(ctx, listID)
	})
	if err != nil {
		return err
	}

	if err := s.content.Delete(ctx, list.OwnerID, listID); err != nil {
		s.logger.Error(ctx, "orphaned content blob after delete", "sync_id", listID, "error", err)
	}

	s.dispatcher.Broadcast(ctx, recipients, notify.EventListRemoved,
		notify.ListRemovedPayload{ActorID: actorID, SyncID: listID})
	return nil
}

// GenerateOrExtendListShareID returns the list's share link, minting a token
// when none is alive and extending the expiry otherwise. Requires
// AddPermission. The link string stays stable while the token is alive, so
// links already handed out keep working.
func (s *SharingService) GenerateOrExtendListShareID(ctx context.Context, userID, listID string) (string, error) {
	var data string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		list, err := s.repomanager.Lists(tx).GetForUpdate(ctx, listID)
		if err != nil {
			return err
		}
		if err := requirePermission(ctx, s.repomanager.Permissions(tx), listID, userID, models.PermissionAdd); err != nil {
			return err
		}

		tokensRepo := s.repomanager.ShareTokens(tx)

		var existing *models.ShareToken
		if list.ShareTokenID != "" {
			existing, err = tokensRepo.Get(ctx, list.ShareTokenID)
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}
		}

		token, err := s.tokens.IssueOrExtend(ctx, tokensRepo, existing, ListShareTokenTTL)
		if err != nil {
			return err
		}

		if token.ID != list.ShareTokenID {
			if err := s.repomanager.Lists(tx).SetShareToken(ctx, listID, token.ID); err != nil {
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

// AddListFromListShareID redeems a list share link: the redeemer is granted
// Write and AddPermission on the target list, deliberately not full admin.
// Redeeming a link for a list the user already holds a permission on is a
// no-op, not an error; the same applies to the owner redeeming their own
// link. Expired links fail with ErrTokenExpired, unknown ones with
// ErrTokenNotFound.
func (s *SharingService) AddListFromListShareID(ctx context.Context, userID, shareID string) (*models.ListContent, error) {
	list, token, err := s.repomanager.Lists(s.db).GetByShareTokenData(ctx, shareID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenNotFound
		}
		return nil, err
	}
	if err := s.tokens.Validate(token); err != nil {
		return nil, err
	}

	if list.OwnerID != userID {
		_, err = s.AddOrUpdateListPermission(ctx, list.OwnerID, userID, list.SyncID,
			models.PermissionWriteAdd, true, false)
		if err != nil && !errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
	}

	return s.content.Load(ctx, list.OwnerID, list.SyncID)
}

// loadForWrite is the shared preamble of the item-level mutations: list
// lookup, Write check, content load.
func (s *SharingService) loadForWrite(ctx context.Context, userID, listID string) (*models.List, *models.ListContent, error) {
	list, err := s.repomanager.Lists(s.db).Get(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	if err := requirePermission(ctx, s.repomanager.Permissions(s.db), listID, userID, models.PermissionWrite); err != nil {
		return nil, nil, err
	}
	content, err := s.content.Load(ctx, list.OwnerID, listID)
	if err != nil {
		return nil, nil, err
	}
	return list, content, nil
}

// saveAndTouch writes the content blob back and advances the last-change
// timestamp.
func (s *SharingService) saveAndTouch(ctx context.Context, list *models.List, content *models.ListContent) error {
	if err := s.content.Update(ctx, list.OwnerID, list.SyncID, content); err != nil {
		return err
	}
	return s.repomanager.Lists(s.db).TouchLastChange(ctx, list.SyncID, s.now())
}

// fanOut dispatches an event to every reader of the list except the actor.
// Best effort; recipient resolution failures are logged and swallowed like
// delivery failures.
func (s *SharingService) fanOut(ctx context.Context, list *models.List, actorID, event string, payload any) {
	recipients, err := s.repomanager.Permissions(s.db).UsersWithPermission(
		ctx, list.SyncID, list.OwnerID, models.PermissionRead, actorID)
	if err != nil {
		s.logger.Warn(ctx, "recipient resolution failed", "sync_id", list.SyncID, "event", event, "error", err)
		return
	}
	s.dispatcher.Broadcast(ctx, recipients, event, payload)
}

func findProduct(products []models.Product, name string) int {
	for i, p := range products {
		if p.Item.Name == name {
			return i
		}
	}
	return -1
}
