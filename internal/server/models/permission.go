package models

// Permission is a bitset ACL entry for one (list, user) pair.
//
// Read   - allow read access to the list and list properties
// Write  - allow write access to list entries (implies Read)
// Delete - allow deletion of the list for everyone
// AddPermission    - allows adding a permission (but not changing or removing one)
// ModifyPermission - allows adding/removing/changing member permissions
// WriteAndAddPermission - write list and add members; the default share level
// All - all of the above; every live list keeps at least one All holder
type Permission int

const (
	PermissionUndefined Permission = 0                            // 00000
	PermissionRead      Permission = 1                            // 00001
	PermissionWrite     Permission = 1<<1 | PermissionRead        // 00011
	PermissionDelete    Permission = 1 << 2                       // 00100
	PermissionAdd       Permission = 1 << 3                       // 01000
	PermissionModify    Permission = 1<<4 | PermissionAdd         // 11000
	PermissionWriteAdd  Permission = PermissionWrite | PermissionAdd
	PermissionWriteMod  Permission = PermissionWrite | PermissionModify
	PermissionAll       Permission = PermissionWrite | PermissionDelete | PermissionModify // 11111
)

// Has reports whether p contains every bit of required. Composite flags imply
// the simpler ones they embed, so PermissionWrite.Has(PermissionRead) is true.
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

// ListPermission is one ACL row: the flags a user holds on a list.
// Rows reference identities only; they never hold back-references.
type ListPermission struct {
	ListID     string
	UserID     string
	Permission Permission
}
