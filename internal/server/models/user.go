package models

// User is the identity record the engine resolves callers against.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte

	// ContactTokenID references the user's contact share token, if issued.
	ContactTokenID string
}

// DeviceToken is one registered push target of a user. A user may have any
// number of devices; push delivery iterates over all of them.
type DeviceToken struct {
	UserID string
	Token  string
}
