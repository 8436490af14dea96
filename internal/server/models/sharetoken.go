package models

import "time"

// ShareToken is an opaque random string with an expiration instant. It backs
// both list share links (far-future expiry) and contact share links (48h).
// Redemption is non-destructive: many recipients may redeem the same link
// until it expires.
type ShareToken struct {
	ID      string
	Data    string
	Expires time.Time
}

// IsExpired reports whether the token is past its expiration at the given
// instant. The clock is passed in so expiry is testable.
func (t *ShareToken) IsExpired(now time.Time) bool {
	return t.Expires.Before(now)
}
