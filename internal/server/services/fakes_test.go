package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/dbx"
	"github.com/avolkovx/listsync/internal/logging"
	"github.com/avolkovx/listsync/internal/server/contentstore"
	"github.com/avolkovx/listsync/internal/server/models"
	"github.com/avolkovx/listsync/internal/server/notify"
	"github.com/avolkovx/listsync/internal/server/repositories/contacts"
	"github.com/avolkovx/listsync/internal/server/repositories/lists"
	"github.com/avolkovx/listsync/internal/server/repositories/permissions"
	"github.com/avolkovx/listsync/internal/server/repositories/sharetokens"
	"github.com/avolkovx/listsync/internal/server/repositories/users"
)

// newTxDB returns a *sql.DB whose transactions always succeed. The fake
// repositories keep their own state, so only Begin/Commit/Rollback reach the
// mock.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 50; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeStore keeps all relational state behind the repository interfaces. The
// unit-of-work handle is ignored; every repository view shares the same maps.
type fakeStore struct {
	mu sync.Mutex

	lists       map[string]*models.List
	permissions map[string]map[string]models.Permission // listID -> userID -> flags
	contacts    map[string]map[string]models.ContactType
	tokens      map[string]*models.ShareToken
	users       map[string]*models.User
	devices     map[string][]string

	nextUserID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lists:       make(map[string]*models.List),
		permissions: make(map[string]map[string]models.Permission),
		contacts:    make(map[string]map[string]models.ContactType),
		tokens:      make(map[string]*models.ShareToken),
		users:       make(map[string]*models.User),
		devices:     make(map[string][]string),
	}
}

func (f *fakeStore) addUser(id, username string) {
	f.users[id] = &models.User{ID: id, Username: username}
}

func (f *fakeStore) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (f *fakeStore) Lists(db dbx.DBTX) lists.Repository             { return (*fakeLists)(f) }
func (f *fakeStore) Permissions(db dbx.DBTX) permissions.Repository { return (*fakePermissions)(f) }
func (f *fakeStore) Contacts(db dbx.DBTX) contacts.Repository       { return (*fakeContacts)(f) }
func (f *fakeStore) ShareTokens(db dbx.DBTX) sharetokens.Repository { return (*fakeTokens)(f) }
func (f *fakeStore) Users(db dbx.DBTX) users.Repository             { return (*fakeUsers)(f) }

func (f *fakeStore) blocked(sourceID, targetID string) bool {
	return f.contacts[sourceID][targetID] == models.ContactIgnored
}

// --- lists ---

type fakeLists fakeStore

func (f *fakeLists) Get(ctx context.Context, syncID string) (*models.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, ok := f.lists[syncID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *list
	return &cp, nil
}

func (f *fakeLists) GetForUpdate(ctx context.Context, syncID string) (*models.List, error) {
	return f.Get(ctx, syncID)
}

func (f *fakeLists) Create(ctx context.Context, list *models.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.lists[list.SyncID]; ok {
		return common.ErrAlreadyExists
	}
	cp := *list
	f.lists[list.SyncID] = &cp
	return nil
}

func (f *fakeLists) Delete(ctx context.Context, syncID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.lists[syncID]; !ok {
		return common.ErrNotFound
	}
	delete(f.lists, syncID)
	delete(f.permissions, syncID)
	return nil
}

func (f *fakeLists) TouchLastChange(ctx context.Context, syncID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, ok := f.lists[syncID]
	if !ok {
		return common.ErrNotFound
	}
	list.LastChange = at
	return nil
}

func (f *fakeLists) SetShareToken(ctx context.Context, syncID, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, ok := f.lists[syncID]
	if !ok {
		return common.ErrNotFound
	}
	list.ShareTokenID = tokenID
	return nil
}

func (f *fakeLists) GetByShareTokenData(ctx context.Context, data string) (*models.List, *models.ShareToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, token := range f.tokens {
		if token.Data != data {
			continue
		}
		for _, list := range f.lists {
			if list.ShareTokenID == token.ID {
				lcp, tcp := *list, *token
				return &lcp, &tcp, nil
			}
		}
	}
	return nil, nil, common.ErrNotFound
}

func (f *fakeLists) VisibleTo(ctx context.Context, userID string, required models.Permission) ([]*models.ListWithPermission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.ListWithPermission
	for listID, perms := range f.permissions {
		flags, ok := perms[userID]
		if !ok || !flags.Has(required) {
			continue
		}
		list := f.lists[listID]
		if list == nil || (*fakeStore)(f).blocked(userID, list.OwnerID) {
			continue
		}
		cp := *list
		out = append(out, &models.ListWithPermission{List: &cp, UserID: userID, Permission: flags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].List.SyncID < out[j].List.SyncID })
	return out, nil
}

func (f *fakeLists) LastChangeTimes(ctx context.Context, userID string, required models.Permission) ([]models.ListLastChange, error) {
	visible, err := f.VisibleTo(ctx, userID, required)
	if err != nil {
		return nil, err
	}
	out := make([]models.ListLastChange, 0, len(visible))
	for _, v := range visible {
		out = append(out, models.ListLastChange{SyncID: v.List.SyncID, LastChange: v.List.LastChange})
	}
	return out, nil
}

// --- permissions ---

type fakePermissions fakeStore

func (f *fakePermissions) Get(ctx context.Context, listID, userID string) (*models.ListPermission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	flags, ok := f.permissions[listID][userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.ListPermission{ListID: listID, UserID: userID, Permission: flags}, nil
}

func (f *fakePermissions) ListForList(ctx context.Context, listID string) ([]*models.ListPermission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.ListPermission
	for userID, flags := range f.permissions[listID] {
		out = append(out, &models.ListPermission{ListID: listID, UserID: userID, Permission: flags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakePermissions) ListOfUser(ctx context.Context, userID string) ([]*models.ListPermission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.ListPermission
	for listID, perms := range f.permissions {
		if flags, ok := perms[userID]; ok {
			out = append(out, &models.ListPermission{ListID: listID, UserID: userID, Permission: flags})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ListID < out[j].ListID })
	return out, nil
}

func (f *fakePermissions) Upsert(ctx context.Context, perm *models.ListPermission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.permissions[perm.ListID] == nil {
		f.permissions[perm.ListID] = make(map[string]models.Permission)
	}
	f.permissions[perm.ListID][perm.UserID] = perm.Permission
	return nil
}

func (f *fakePermissions) Remove(ctx context.Context, listID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.permissions[listID][userID]; !ok {
		return common.ErrNotFound
	}
	delete(f.permissions[listID], userID)
	return nil
}

func (f *fakePermissions) RemoveAllForList(ctx context.Context, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.permissions, listID)
	return nil
}

func (f *fakePermissions) UsersWithPermission(ctx context.Context, listID, ownerID string, required models.Permission, excludeUserID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for userID, flags := range f.permissions[listID] {
		if userID == excludeUserID || !flags.Has(required) {
			continue
		}
		if (*fakeStore)(f).blocked(userID, ownerID) {
			continue
		}
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

// --- contacts ---

type fakeContacts fakeStore

func (f *fakeContacts) Get(ctx context.Context, sourceID, targetID string) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.contacts[sourceID][targetID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.Contact{SourceID: sourceID, TargetID: targetID, Type: t}, nil
}

func (f *fakeContacts) ListOf(ctx context.Context, sourceID string) ([]*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Contact
	for targetID, t := range f.contacts[sourceID] {
		out = append(out, &models.Contact{SourceID: sourceID, TargetID: targetID, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })
	return out, nil
}

func (f *fakeContacts) Create(ctx context.Context, contact *models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.contacts[contact.SourceID][contact.TargetID]; ok {
		return common.ErrAlreadyExists
	}
	if f.contacts[contact.SourceID] == nil {
		f.contacts[contact.SourceID] = make(map[string]models.ContactType)
	}
	f.contacts[contact.SourceID][contact.TargetID] = contact.Type
	return nil
}

func (f *fakeContacts) Update(ctx context.Context, contact *models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.contacts[contact.SourceID][contact.TargetID]; !ok {
		return common.ErrNotFound
	}
	f.contacts[contact.SourceID][contact.TargetID] = contact.Type
	return nil
}

func (f *fakeContacts) Remove(ctx context.Context, sourceID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.contacts[sourceID][targetID]; !ok {
		return common.ErrNotFound
	}
	delete(f.contacts[sourceID], targetID)
	return nil
}

func (f *fakeContacts) IsBlocked(ctx context.Context, sourceID, targetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return (*fakeStore)(f).blocked(sourceID, targetID), nil
}

// --- share tokens ---

type fakeTokens fakeStore

func (f *fakeTokens) Get(ctx context.Context, id string) (*models.ShareToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.tokens[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *token
	return &cp, nil
}

func (f *fakeTokens) GetByData(ctx context.Context, data string) (*models.ShareToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, token := range f.tokens {
		if token.Data == data {
			cp := *token
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeTokens) Create(ctx context.Context, token *models.ShareToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *token
	f.tokens[token.ID] = &cp
	return nil
}

func (f *fakeTokens) UpdateExpiry(ctx context.Context, id string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.tokens[id]
	if !ok {
		return common.ErrNotFound
	}
	token.Expires = expires
	return nil
}

func (f *fakeTokens) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.tokens, id)
	return nil
}

// --- users ---

type fakeUsers fakeStore

func (f *fakeUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextUserID++
	cp := *user
	cp.ID = fmt.Sprintf("u-%d", f.nextUserID)
	f.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) SetContactToken(ctx context.Context, userID, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	user.ContactTokenID = tokenID
	return nil
}

func (f *fakeUsers) GetByContactTokenData(ctx context.Context, data string) (*models.User, *models.ShareToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, token := range f.tokens {
		if token.Data != data {
			continue
		}
		for _, user := range f.users {
			if user.ContactTokenID == token.ID {
				ucp, tcp := *user, *token
				return &ucp, &tcp, nil
			}
		}
	}
	return nil, nil, common.ErrNotFound
}

func (f *fakeUsers) AddDeviceToken(ctx context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.devices[userID] {
		if existing == token {
			return nil
		}
	}
	f.devices[userID] = append(f.devices[userID], token)
	return nil
}

func (f *fakeUsers) RemoveDeviceToken(ctx context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokens := f.devices[userID]
	for i, existing := range tokens {
		if existing == token {
			f.devices[userID] = append(tokens[:i], tokens[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeUsers) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.devices[userID]...), nil
}

// --- notification recorders ---

type sentFrame struct {
	UserIDs []string
	Event   string
	Payload any
}

type recordingRealtime struct {
	mu     sync.Mutex
	frames []sentFrame
}

func (r *recordingRealtime) SendToUsers(ctx context.Context, userIDs []string, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, sentFrame{UserIDs: append([]string(nil), userIDs...), Event: event, Payload: payload})
	return nil
}

// eventsFor returns the event names delivered to the given user, in order.
func (r *recordingRealtime) eventsFor(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, f := range r.frames {
		for _, id := range f.UserIDs {
			if id == userID {
				out = append(out, f.Event)
			}
		}
	}
	return out
}

type sentPush struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

type recordingPush struct {
	mu     sync.Mutex
	pushes []sentPush
}

func (r *recordingPush) SendToUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, sentPush{UserID: userID, Title: title, Body: body, Data: data})
	return nil
}

// --- harness ---

type sharingHarness struct {
	store      *fakeStore
	content    *contentstore.MemoryStore
	realtime   *recordingRealtime
	push       *recordingPush
	sharing    *SharingService
	contactSvc *ContactService
	now        time.Time
}

func newSharingHarness(t *testing.T) *sharingHarness {
	t.Helper()

	store := newFakeStore()
	content := contentstore.NewMemoryStore()
	realtime := &recordingRealtime{}
	push := &recordingPush{}
	dispatcher := notify.NewDispatcher(realtime, push, testLogger())

	db := newTxDB(t)
	tokens := NewTokenService(20)
	sharing := NewSharingService(db, store, content, tokens, dispatcher, testLogger())
	contactSvc := NewContactService(db, store, tokens, dispatcher)

	h := &sharingHarness{
		store:      store,
		content:    content,
		realtime:   realtime,
		push:       push,
		sharing:    sharing,
		contactSvc: contactSvc,
		now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	sharing.now = func() time.Time { return h.now }
	tokens.now = sharing.now

	nextID := 0
	sharing.newID = func() string {
		nextID++
		return fmt.Sprintf("list-%d", nextID)
	}

	return h
}
