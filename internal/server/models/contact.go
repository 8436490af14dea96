package models

// ContactType classifies a directed user-to-user relation.
//
// Default: neither explicitly trusted nor ignored.
// AllowSharing: the source user lets the target share lists with them.
// Ignored: the source user blocked the target; every list the target owns is
// invisible to the source, even when a permission row exists.
type ContactType int

const (
	ContactDefault ContactType = iota
	ContactAllowSharing
	ContactIgnored
)

// Contact is a directed (source, target) relation. It is not required to be
// symmetric; the absence of a row is equivalent to ContactDefault.
type Contact struct {
	SourceID string
	TargetID string
	Type     ContactType
}
