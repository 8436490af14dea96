package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/server/models"
	"github.com/avolkovx/listsync/internal/server/notify"
)

func (h *sharingHarness) createList(t *testing.T, ownerID, name string) *models.ListContent {
	t.Helper()

	content, err := h.sharing.CreateList(context.Background(), ownerID, &models.ListContent{
		Name: name,
		Products: []models.Product{
			{Item: models.Item{Name: "milk", Category: "dairy"}, Amount: 1, Unit: "l"},
		},
	})
	require.NoError(t, err)
	return content
}

func TestCreateList_RoundTrip(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")

	created := h.createList(t, "a", "groceries")
	require.NotEmpty(t, created.SyncID)

	got, err := h.sharing.GetList(context.Background(), "a", created.SyncID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// Creator holds All.
	flags, err := h.sharing.PermissionFor(context.Background(), created.SyncID, "a")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionAll, flags)

	// Ownership is recorded and nobody was notified.
	list, err := h.store.Lists(nil).Get(context.Background(), created.SyncID)
	require.NoError(t, err)
	assert.Equal(t, "a", list.OwnerID)
	assert.Empty(t, h.realtime.frames)
	assert.Empty(t, h.push.pushes)
}

func TestCreateList_DuplicateIdentityRejected(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")

	created := h.createList(t, "a", "groceries")

	_, err := h.sharing.CreateList(context.Background(), "a", &models.ListContent{SyncID: created.SyncID, Name: "other"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	// The original content is untouched.
	got, err := h.sharing.GetList(context.Background(), "a", created.SyncID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Name)
}

func TestGetList_PermissionAndBlocking(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	t.Run("no permission row", func(t *testing.T) {
		_, err := h.sharing.GetList(context.Background(), "b", list.SyncID)
		assert.ErrorIs(t, err, common.ErrNoPermission)
	})

	t.Run("unknown list", func(t *testing.T) {
		_, err := h.sharing.GetList(context.Background(), "a", "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("blocking overrides a valid permission row", func(t *testing.T) {
		_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
		require.NoError(t, err)

		require.NoError(t, h.contactSvc.AddOrUpdateContact(context.Background(), "b", "a", models.ContactIgnored, true))

		_, err = h.sharing.GetList(context.Background(), "b", list.SyncID)
		assert.ErrorIs(t, err, common.ErrOwnerBlocked)
	})
}

func TestGetLists_ExcludesBlockedOwners(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")

	own := h.createList(t, "b", "own")
	shared := h.createList(t, "a", "shared")
	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", shared.SyncID, models.PermissionWriteAdd, false, false)
	require.NoError(t, err)

	lists, err := h.sharing.GetLists(context.Background(), "b")
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	require.NoError(t, h.contactSvc.AddOrUpdateContact(context.Background(), "b", "a", models.ContactIgnored, true))

	lists, err = h.sharing.GetLists(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, own.SyncID, lists[0].SyncID)
}

func TestAddOrUpdateListPermission_GrantAndDuplicate(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	created, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionWriteAdd, false, false)
	require.NoError(t, err)
	assert.True(t, created)

	flags, err := h.sharing.PermissionFor(context.Background(), list.SyncID, "b")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionWriteAdd, flags)

	// The target learns about the new list, the actor does not.
	assert.Equal(t, []string{notify.EventListAdded}, h.realtime.eventsFor("b"))
	assert.Empty(t, h.realtime.eventsFor("a"))

	require.Len(t, h.push.pushes, 1)
	assert.Equal(t, "b", h.push.pushes[0].UserID)
	assert.Equal(t, "alice shared a list with you", h.push.pushes[0].Body)

	// Second identical grant without allowUpdate fails.
	_, err = h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionWriteAdd, false, false)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestAddOrUpdateListPermission_UpdateNotifiesTargetOnly(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	created, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionWrite, false, true)
	require.NoError(t, err)
	assert.False(t, created)

	events := h.realtime.eventsFor("b")
	assert.Equal(t, notify.EventListPermissionChanged, events[len(events)-1])
	// No push for a flag change.
	assert.Len(t, h.push.pushes, 1)
}

func TestAddOrUpdateListPermission_RequiresFlags(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	h.store.addUser("c", "carol")
	list := h.createList(t, "a", "groceries")

	// b holds only Read: cannot add c.
	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	_, err = h.sharing.AddOrUpdateListPermission(context.Background(), "b", "c", list.SyncID, models.PermissionRead, false, false)
	assert.ErrorIs(t, err, common.ErrNoPermission)

	// b cannot change their own flags either (needs ModifyPermission).
	_, err = h.sharing.AddOrUpdateListPermission(context.Background(), "b", "b", list.SyncID, models.PermissionAll, false, true)
	assert.ErrorIs(t, err, common.ErrNoPermission)
}

func TestRemoveListPermission_SelfRemovalIsNotIdempotent(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	// Self-removal needs no permission check.
	require.NoError(t, h.sharing.RemoveListPermission(context.Background(), "b", "b", list.SyncID))

	// The row is gone, so a second removal fails.
	err = h.sharing.RemoveListPermission(context.Background(), "b", "b", list.SyncID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRemoveListPermission_OtherRequiresModify(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	h.store.addUser("c", "carol")
	list := h.createList(t, "a", "groceries")

	for _, id := range []string{"b", "c"} {
		_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", id, list.SyncID, models.PermissionWriteAdd, false, false)
		require.NoError(t, err)
	}

	err := h.sharing.RemoveListPermission(context.Background(), "b", "c", list.SyncID)
	assert.ErrorIs(t, err, common.ErrNoPermission)

	require.NoError(t, h.sharing.RemoveListPermission(context.Background(), "a", "c", list.SyncID))
}

func TestRemoveListPermission_CascadeDeletesList(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	list := h.createList(t, "a", "groceries")

	require.NoError(t, h.sharing.RemoveListPermission(context.Background(), "a", "a", list.SyncID))

	_, err := h.sharing.GetList(context.Background(), "a", list.SyncID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The content blob is gone too.
	_, err = h.content.Load(context.Background(), "a", list.SyncID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRemoveListPermission_PromotesNewAdmin(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	// a is the sole All holder and removes themselves.
	require.NoError(t, h.sharing.RemoveListPermission(context.Background(), "a", "a", list.SyncID))

	// b got promoted, the list survived, the owner did not change.
	flags, err := h.sharing.PermissionFor(context.Background(), list.SyncID, "b")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionAll, flags)

	stored, err := h.store.Lists(nil).Get(context.Background(), list.SyncID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.OwnerID)

	events := h.realtime.eventsFor("b")
	assert.Contains(t, events, notify.EventListPermissionChanged)
}

func TestDeleteListForEveryone(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	t.Run("requires the Delete flag", func(t *testing.T) {
		err := h.sharing.DeleteListForEveryone(context.Background(), "b", list.SyncID)
		assert.ErrorIs(t, err, common.ErrNoPermission)
	})

	t.Run("deletes everything and notifies the other holders", func(t *testing.T) {
		require.NoError(t, h.sharing.DeleteListForEveryone(context.Background(), "a", list.SyncID))

		_, err := h.sharing.GetList(context.Background(), "b", list.SyncID)
		assert.ErrorIs(t, err, common.ErrNotFound)

		_, err = h.content.Load(context.Background(), "a", list.SyncID)
		assert.ErrorIs(t, err, common.ErrNotFound)

		events := h.realtime.eventsFor("b")
		assert.Equal(t, notify.EventListRemoved, events[len(events)-1])
		assert.NotContains(t, h.realtime.eventsFor("a"), notify.EventListRemoved)
	})
}

func TestUpdateListProperty(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionWrite, false, false)
	require.NoError(t, err)

	before := h.now
	h.now = h.now.Add(time.Minute)

	require.NoError(t, h.sharing.UpdateListProperty(context.Background(), "b", list.SyncID, ListPropertyNotes, "don't forget eggs"))

	got, err := h.sharing.GetList(context.Background(), "a", list.SyncID)
	require.NoError(t, err)
	assert.Equal(t, "don't forget eggs", got.Notes)

	stored, err := h.store.Lists(nil).Get(context.Background(), list.SyncID)
	require.NoError(t, err)
	assert.True(t, stored.LastChange.After(before))

	// The writer is excluded from the fan-out.
	assert.Contains(t, h.realtime.eventsFor("a"), notify.EventListPropertyChanged)
	assert.NotContains(t, h.realtime.eventsFor("b"), notify.EventListPropertyChanged)

	t.Run("unknown property is a silent no-op", func(t *testing.T) {
		framesBefore := len(h.realtime.frames)

		require.NoError(t, h.sharing.UpdateListProperty(context.Background(), "b", list.SyncID, "Color", "green"))

		got, err := h.sharing.GetList(context.Background(), "a", list.SyncID)
		require.NoError(t, err)
		assert.Equal(t, "don't forget eggs", got.Notes)
		assert.Len(t, h.realtime.frames, framesBefore)
	})

	t.Run("requires Write", func(t *testing.T) {
		h.store.addUser("c", "carol")
		_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "c", list.SyncID, models.PermissionRead, false, false)
		require.NoError(t, err)

		err = h.sharing.UpdateListProperty(context.Background(), "c", list.SyncID, ListPropertyNotes, "x")
		assert.ErrorIs(t, err, common.ErrNoPermission)
	})
}

func TestUpdateItem(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")
	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	t.Run("rename emits a name-change event", func(t *testing.T) {
		err := h.sharing.UpdateItem(context.Background(), "a", list.SyncID, "milk", models.Item{Name: "oat milk", Category: "dairy"})
		require.NoError(t, err)

		got, err := h.sharing.GetList(context.Background(), "a", list.SyncID)
		require.NoError(t, err)
		assert.Equal(t, "oat milk", got.Products[0].Item.Name)

		events := h.realtime.eventsFor("b")
		assert.Equal(t, notify.EventItemNameChanged, events[len(events)-1])
	})

	t.Run("category change keeps the name", func(t *testing.T) {
		err := h.sharing.UpdateItem(context.Background(), "a", list.SyncID, "oat milk", models.Item{Name: "oat milk", Category: "drinks"})
		require.NoError(t, err)

		events := h.realtime.eventsFor("b")
		assert.Equal(t, notify.EventItemAddedOrUpdated, events[len(events)-1])
	})

	t.Run("absent item fails", func(t *testing.T) {
		err := h.sharing.UpdateItem(context.Background(), "a", list.SyncID, "cheese", models.Item{Name: "brie"})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestAddOrUpdateProduct(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	list := h.createList(t, "a", "groceries")

	// New item appends.
	err := h.sharing.AddOrUpdateProduct(context.Background(), "a", list.SyncID, models.Product{
		Item: models.Item{Name: "bread"}, Amount: 2,
	})
	require.NoError(t, err)

	// Same name updates in place.
	err = h.sharing.AddOrUpdateProduct(context.Background(), "a", list.SyncID, models.Product{
		Item: models.Item{Name: "bread"}, Amount: 3, Done: true,
	})
	require.NoError(t, err)

	got, err := h.sharing.GetList(context.Background(), "a", list.SyncID)
	require.NoError(t, err)
	require.Len(t, got.Products, 2)
	assert.Equal(t, 3.0, got.Products[1].Amount)
	assert.True(t, got.Products[1].Done)

	err = h.sharing.AddOrUpdateProduct(context.Background(), "a", list.SyncID, models.Product{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRemoveItem(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	list := h.createList(t, "a", "groceries")

	require.NoError(t, h.sharing.RemoveItem(context.Background(), "a", list.SyncID, "milk"))

	got, err := h.sharing.GetList(context.Background(), "a", list.SyncID)
	require.NoError(t, err)
	assert.Empty(t, got.Products)

	err = h.sharing.RemoveItem(context.Background(), "a", list.SyncID, "milk")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListShareLink(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	shareID, err := h.sharing.GenerateOrExtendListShareID(context.Background(), "a", list.SyncID)
	require.NoError(t, err)
	require.NotEmpty(t, shareID)

	t.Run("re-request keeps the same string", func(t *testing.T) {
		again, err := h.sharing.GenerateOrExtendListShareID(context.Background(), "a", list.SyncID)
		require.NoError(t, err)
		assert.Equal(t, shareID, again)
	})

	t.Run("redemption grants write and add, not admin", func(t *testing.T) {
		content, err := h.sharing.AddListFromListShareID(context.Background(), "b", shareID)
		require.NoError(t, err)
		assert.Equal(t, list.SyncID, content.SyncID)

		flags, err := h.sharing.PermissionFor(context.Background(), list.SyncID, "b")
		require.NoError(t, err)
		assert.Equal(t, models.PermissionWriteAdd, flags)
	})

	t.Run("second redemption is a no-op success", func(t *testing.T) {
		_, err := h.sharing.AddListFromListShareID(context.Background(), "b", shareID)
		require.NoError(t, err)

		flags, err := h.sharing.PermissionFor(context.Background(), list.SyncID, "b")
		require.NoError(t, err)
		assert.Equal(t, models.PermissionWriteAdd, flags)
	})

	t.Run("owner redeeming their own link is a no-op success", func(t *testing.T) {
		_, err := h.sharing.AddListFromListShareID(context.Background(), "a", shareID)
		require.NoError(t, err)

		flags, err := h.sharing.PermissionFor(context.Background(), list.SyncID, "a")
		require.NoError(t, err)
		assert.Equal(t, models.PermissionAll, flags)
	})

	t.Run("unknown link", func(t *testing.T) {
		_, err := h.sharing.AddListFromListShareID(context.Background(), "b", "bogus")
		assert.ErrorIs(t, err, common.ErrTokenNotFound)
	})

	t.Run("generation requires AddPermission", func(t *testing.T) {
		h.store.addUser("c", "carol")
		_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "c", list.SyncID, models.PermissionWrite, false, false)
		require.NoError(t, err)

		_, err = h.sharing.GenerateOrExtendListShareID(context.Background(), "c", list.SyncID)
		assert.ErrorIs(t, err, common.ErrNoPermission)
	})
}

func TestListShareLink_Expiry(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")
	list := h.createList(t, "a", "groceries")

	shareID, err := h.sharing.GenerateOrExtendListShareID(context.Background(), "a", list.SyncID)
	require.NoError(t, err)

	h.now = h.now.Add(ListShareTokenTTL + time.Hour)

	_, err = h.sharing.AddListFromListShareID(context.Background(), "b", shareID)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetListsLastChangeTimes(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")

	first := h.createList(t, "a", "one")
	h.now = h.now.Add(time.Hour)
	second := h.createList(t, "a", "two")

	changes, err := h.sharing.GetListsLastChangeTimes(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, changes, 2)

	byID := map[string]time.Time{}
	for _, c := range changes {
		byID[c.SyncID] = c.LastChange
	}
	assert.True(t, byID[second.SyncID].After(byID[first.SyncID]))

	at, err := h.sharing.GetListLastChangeTime(context.Background(), "a", second.SyncID)
	require.NoError(t, err)
	assert.Equal(t, byID[second.SyncID], at)
}

func TestGetListsWithPermission_ReportsFlags(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")

	owned := h.createList(t, "a", "groceries")
	shared := h.createList(t, "b", "hardware")
	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "b", "a", shared.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	got, err := h.sharing.GetListsWithPermission(context.Background(), "a", models.PermissionRead)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[string]models.Permission{}
	for _, lp := range got {
		byID[lp.List.SyncID] = lp.Permission
	}
	assert.Equal(t, models.PermissionAll, byID[owned.SyncID])
	assert.Equal(t, models.PermissionRead, byID[shared.SyncID])

	// Raising the bar to Write hides the read-only list.
	got, err = h.sharing.GetListsWithPermission(context.Background(), "a", models.PermissionWrite)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, owned.SyncID, got[0].List.SyncID)
}

func TestPermissionsOfUser(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")

	first := h.createList(t, "a", "one")
	second := h.createList(t, "b", "two")
	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "b", "a", second.SyncID, models.PermissionWriteAdd, false, false)
	require.NoError(t, err)

	perms, err := h.sharing.PermissionsOfUser(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, perms, 2)

	byList := map[string]models.Permission{}
	for _, p := range perms {
		byList[p.ListID] = p.Permission
	}
	assert.Equal(t, models.PermissionAll, byList[first.SyncID])
	assert.Equal(t, models.PermissionWriteAdd, byList[second.SyncID])
}

func TestPermissionChangesAdvanceLastChange(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")

	list := h.createList(t, "a", "groceries")

	lastChange := func() time.Time {
		l, err := h.store.Lists(nil).Get(context.Background(), list.SyncID)
		require.NoError(t, err)
		return l.LastChange
	}

	before := lastChange()
	h.now = h.now.Add(time.Hour)

	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionWriteAdd, false, false)
	require.NoError(t, err)
	afterGrant := lastChange()
	assert.True(t, afterGrant.After(before), "grant must re-stamp last_change")

	h.now = h.now.Add(time.Hour)
	_, err = h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, true)
	require.NoError(t, err)
	afterUpdate := lastChange()
	assert.True(t, afterUpdate.After(afterGrant), "flag update must re-stamp last_change")

	h.now = h.now.Add(time.Hour)
	require.NoError(t, h.sharing.RemoveListPermission(context.Background(), "b", "b", list.SyncID))
	afterRemove := lastChange()
	assert.True(t, afterRemove.After(afterUpdate), "removal must re-stamp last_change")
}

func TestBlockedOwnerHidesListMetadata(t *testing.T) {
	h := newSharingHarness(t)
	h.store.addUser("a", "alice")
	h.store.addUser("b", "bob")

	list := h.createList(t, "a", "groceries")
	_, err := h.sharing.AddOrUpdateListPermission(context.Background(), "a", "b", list.SyncID, models.PermissionRead, false, false)
	require.NoError(t, err)

	require.NoError(t, h.contactSvc.AddOrUpdateContact(context.Background(), "b", "a", models.ContactIgnored, true))

	_, err = h.sharing.GetListLastChangeTime(context.Background(), "b", list.SyncID)
	assert.ErrorIs(t, err, common.ErrOwnerBlocked)

	_, err = h.sharing.ListPermissions(context.Background(), "b", list.SyncID)
	assert.ErrorIs(t, err, common.ErrOwnerBlocked)

	// The owner themselves is unaffected.
	_, err = h.sharing.ListPermissions(context.Background(), "a", list.SyncID)
	assert.NoError(t, err)
}
