package models

import "time"

// List is the metadata record of a shared list. The item payload lives in the
// content store, keyed by (OwnerID, SyncID); this row carries only what the
// relational queries need.
type List struct {
	// SyncID is the opaque identity of the list. It is assigned server-side
	// on creation, stays stable across clients and is never reused.
	SyncID string

	// OwnerID is the identity of the creator. It never changes, even if the
	// owner later loses all permissions on their own list. Ownership only
	// picks the content-store namespace and drives the blocking check.
	OwnerID string

	// LastChange is the server-side last-change timestamp, advanced on every
	// mutation. Clients use it for incremental sync.
	LastChange time.Time

	// ShareTokenID references the list's share token, if one was issued.
	ShareTokenID string
}

// ListLastChange pairs a list identity with its last-change timestamp.
type ListLastChange struct {
	SyncID     string
	LastChange time.Time
}

// ListWithPermission is an enumeration result: a list plus the flags the
// requesting user holds on it.
type ListWithPermission struct {
	List       *List
	UserID     string
	Permission Permission
}

// Item is the named part of a list entry. Item names are the de-facto key
// within a list; no uniqueness is enforced, first match wins.
type Item struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Product is one list entry: an item plus quantity information.
type Product struct {
	Item   Item    `json:"item"`
	Amount float64 `json:"amount,omitempty"`
	Unit   string  `json:"unit,omitempty"`
	Done   bool    `json:"done,omitempty"`
}

// ListContent is the blob document stored per list in the content store.
type ListContent struct {
	SyncID   string    `json:"sync_id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Date     string    `json:"date,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Products []Product `json:"products"`
}
