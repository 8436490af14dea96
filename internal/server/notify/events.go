package notify

import "github.com/avolkovx/listsync/internal/server/models"

// Event names on the real-time channel. Clients switch on these strings, so
// they are part of the sync protocol.
const (
	EventListAdded             = "ListAdded"
	EventListUpdated           = "ListUpdated"
	EventListPropertyChanged   = "ListPropertyChanged"
	EventListRemoved           = "ListRemoved"
	EventListPermissionChanged = "ListPermissionChanged"
	EventListPermissionRemoved = "ListPermissionRemoved"
	EventItemAddedOrUpdated    = "ItemAddedOrUpdated"
	EventItemNameChanged       = "ItemNameChanged"
	EventProductAddedOrUpdated = "ProductAddedOrUpdated"
	EventContactAdded          = "ContactAdded"
)

type ListAddedPayload struct {
	ActorID string              `json:"actor_id"`
	List    *models.ListContent `json:"list"`
}

type ListUpdatedPayload struct {
	ActorID string              `json:"actor_id"`
	List    *models.ListContent `json:"list"`
}

type ListPropertyChangedPayload struct {
	ActorID  string `json:"actor_id"`
	SyncID   string `json:"sync_id"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

type ListRemovedPayload struct {
	ActorID string `json:"actor_id"`
	SyncID  string `json:"sync_id"`
}

type ListPermissionChangedPayload struct {
	ActorID    string            `json:"actor_id"`
	SyncID     string            `json:"sync_id"`
	UserID     string            `json:"user_id"`
	Permission models.Permission `json:"permission"`
}

type ListPermissionRemovedPayload struct {
	ActorID string `json:"actor_id"`
	SyncID  string `json:"sync_id"`
	UserID  string `json:"user_id"`
}

type ItemAddedOrUpdatedPayload struct {
	ActorID string      `json:"actor_id"`
	SyncID  string      `json:"sync_id"`
	Item    models.Item `json:"item"`
}

type ItemNameChangedPayload struct {
	ActorID string `json:"actor_id"`
	SyncID  string `json:"sync_id"`
	NewName string `json:"new_name"`
	OldName string `json:"old_name"`
}

type ProductAddedOrUpdatedPayload struct {
	ActorID string         `json:"actor_id"`
	SyncID  string         `json:"sync_id"`
	Product models.Product `json:"product"`
}

type ContactAddedPayload struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}
