// Package httpapi is the HTTP surface of the server: a chi router over the
// identity, sharing and contact services plus the SSE event stream. It maps
// request bodies to service calls and service error kinds to HTTP statuses;
// no business rules live here.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/logging"
	"github.com/avolkovx/listsync/internal/server/models"
)

// Identity is the slice of the user service the transport needs.
type Identity interface {
	TokenVerifier
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	RegisterDeviceToken(ctx context.Context, userID, token string) error
	UnregisterDeviceToken(ctx context.Context, userID, token string) error
}

// Sharing is the slice of the sharing engine the transport needs.
type Sharing interface {
	GetList(ctx context.Context, userID, listID string) (*models.ListContent, error)
	GetLists(ctx context.Context, userID string) ([]*models.ListContent, error)
	GetListsLastChangeTimes(ctx context.Context, userID string) ([]models.ListLastChange, error)
	GetListLastChangeTime(ctx context.Context, userID, listID string) (time.Time, error)
	CreateList(ctx context.Context, ownerID string, content *models.ListContent) (*models.ListContent, error)
	UpdateList(ctx context.Context, userID string, content *models.ListContent) error
	UpdateListProperty(ctx context.Context, userID, listID, property, value string) error
	UpdateItem(ctx context.Context, userID, listID, oldName string, item models.Item) error
	AddOrUpdateProduct(ctx context.Context, userID, listID string, product models.Product) error
	RemoveItem(ctx context.Context, userID, listID, itemName string) error
	ListPermissions(ctx context.Context, userID, listID string) ([]*models.ListPermission, error)
	AddOrUpdateListPermission(ctx context.Context, actorID, targetID, listID string, flags models.Permission, skipCheck, allowUpdate bool) (bool, error)
	RemoveListPermission(ctx context.Context, actorID, targetID, listID string) error
	DeleteListForEveryone(ctx context.Context, actorID, listID string) error
	GenerateOrExtendListShareID(ctx context.Context, userID, listID string) (string, error)
	AddListFromListShareID(ctx context.Context, userID, shareID string) (*models.ListContent, error)
}

// Contacts is the slice of the contact service the transport needs.
type Contacts interface {
	AddOrUpdateContact(ctx context.Context, sourceID, targetID string, contactType models.ContactType, allowUpdate bool) error
	RemoveContact(ctx context.Context, sourceID, targetID string) error
	Contacts(ctx context.Context, sourceID string) ([]*models.Contact, error)
	GenerateOrExtendContactShareID(ctx context.Context, userID string) (string, error)
	AddUserFromContactShareID(ctx context.Context, currentUserID, shareID string) (*models.User, error)
}

// EventStreamer serves the per-user SSE connection.
type EventStreamer interface {
	ServeSSE(w http.ResponseWriter, r *http.Request, userID string)
}

type Handler struct {
	identity Identity
	sharing  Sharing
	contacts Contacts
	events   EventStreamer
	logger   logging.Logger
}

func NewHandler(identity Identity, sharing Sharing, contacts Contacts, events EventStreamer, logger logging.Logger) *Handler {
	return &Handler{
		identity: identity,
		sharing:  sharing,
		contacts: contacts,
		events:   events,
		logger:   logger.With("component", "httpapi"),
	}
}

// --- auth ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	token, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// --- lists ---

func (h *Handler) getLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.sharing.GetLists(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

type lastChangeResponse struct {
	SyncID     string    `json:"sync_id"`
	LastChange time.Time `json:"last_change"`
}

func (h *Handler) getListChanges(w http.ResponseWriter, r *http.Request) {
	changes, err := h.sharing.GetListsLastChangeTimes(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]lastChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, lastChangeResponse{SyncID: c.SyncID, LastChange: c.LastChange})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getList(w http.ResponseWriter, r *http.Request) {
	content, err := h.sharing.GetList(r.Context(), userID(r), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *Handler) getListChanged(w http.ResponseWriter, r *http.Request) {
	at, err := h.sharing.GetListLastChangeTime(r.Context(), userID(r), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lastChangeResponse{SyncID: chi.URLParam(r, "listID"), LastChange: at})
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	var content models.ListContent
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	created, err := h.sharing.CreateList(r.Context(), userID(r), &content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateList(w http.ResponseWriter, r *http.Request) {
	var content models.ListContent
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}
	content.SyncID = chi.URLParam(r, "listID")

	if err := h.sharing.UpdateList(r.Context(), userID(r), &content); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type propertyPatchRequest struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

func (h *Handler) patchListProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	if err := h.sharing.UpdateListProperty(r.Context(), userID(r), chi.URLParam(r, "listID"), req.Property, req.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.sharing.DeleteListForEveryone(r.Context(), userID(r), chi.URLParam(r, "listID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- items / products ---

type updateItemRequest struct {
	OldName string      `json:"old_name"`
	Item    models.Item `json:"item"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	if err := h.sharing.UpdateItem(r.Context(), userID(r), chi.URLParam(r, "listID"), req.OldName, req.Item); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) upsertProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	if err := h.sharing.AddOrUpdateProduct(r.Context(), userID(r), chi.URLParam(r, "listID"), product); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.sharing.RemoveItem(r.Context(), userID(r), chi.URLParam(r, "listID"), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- permissions ---

type permissionResponse struct {
	ListID     string            `json:"list_id"`
	UserID     string            `json:"user_id"`
	Permission models.Permission `json:"permission"`
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.sharing.ListPermissions(r.Context(), userID(r), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse{ListID: p.ListID, UserID: p.UserID, Permission: p.Permission})
	}
	writeJSON(w, http.StatusOK, out)
}

type upsertPermissionRequest struct {
	Permission  models.Permission `json:"permission"`
	AllowUpdate bool              `json:"allow_update"`
}

func (h *Handler) upsertPermission(w http.ResponseWriter, r *http.Request) {
	var req upsertPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	created, err := h.sharing.AddOrUpdateListPermission(r.Context(), userID(r), chi.URLParam(r, "targetID"),
		chi.URLParam(r, "listID"), req.Permission, false, req.AllowUpdate)
	if err != nil {
		writeError(w, err)
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.sharing.RemoveListPermission(r.Context(), userID(r), chi.URLParam(r, "targetID"), chi.URLParam(r, "listID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- share links ---

type shareLinkResponse struct {
	ShareID string `json:"share_id"`
}

func (h *Handler) createListShareLink(w http.ResponseWriter, r *http.Request) {
	shareID, err := h.sharing.GenerateOrExtendListShareID(r.Context(), userID(r), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareLinkResponse{ShareID: shareID})
}

func (h *Handler) redeemListShareLink(w http.ResponseWriter, r *http.Request) {
	content, err := h.sharing.AddListFromListShareID(r.Context(), userID(r), chi.URLParam(r, "shareID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *Handler) createContactShareLink(w http.ResponseWriter, r *http.Request) {
	shareID, err := h.contacts.GenerateOrExtendContactShareID(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareLinkResponse{ShareID: shareID})
}

func (h *Handler) redeemContactShareLink(w http.ResponseWriter, r *http.Request) {
	user, err := h.contacts.AddUserFromContactShareID(r.Context(), userID(r), chi.URLParam(r, "shareID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// --- contacts ---

type contactResponse struct {
	SourceID string             `json:"source_id"`
	TargetID string             `json:"target_id"`
	Type     models.ContactType `json:"type"`
}

func (h *Handler) getContacts(w http.ResponseWriter, r *http.Request) {
	list, err := h.contacts.Contacts(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]contactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, contactResponse{SourceID: c.SourceID, TargetID: c.TargetID, Type: c.Type})
	}
	writeJSON(w, http.StatusOK, out)
}

type upsertContactRequest struct {
	Type        models.ContactType `json:"type"`
	AllowUpdate bool               `json:"allow_update"`
}

func (h *Handler) upsertContact(w http.ResponseWriter, r *http.Request) {
	var req upsertContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	if err := h.contacts.AddOrUpdateContact(r.Context(), userID(r), chi.URLParam(r, "targetID"), req.Type, req.AllowUpdate); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.RemoveContact(r.Context(), userID(r), chi.URLParam(r, "targetID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- devices ---

type deviceTokenRequest struct {
	Token string `json:"token"`
}

func (h *Handler) registerDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrInvalidInput)
		return
	}

	if err := h.identity.RegisterDeviceToken(r.Context(), userID(r), req.Token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unregisterDevice(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.UnregisterDeviceToken(r.Context(), userID(r), chi.URLParam(r, "token")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- events ---

func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	h.events.ServeSSE(w, r, userID(r))
}
