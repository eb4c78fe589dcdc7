package service

import "github.com/inkwell/internal/db"

var roleRank = map[string]int{
	db.RoleAuthor:     1,
	db.RoleAdmin:      2,
	db.RoleSuperAdmin: 3,
}

// Actor identifies the authenticated caller of an engine operation, as
// resolved by the external authentication gate.
type Actor struct {
	UserID uint
	Role   string
}

// CanModerate reports whether the actor holds admin rights or above.
func (a Actor) CanModerate() bool {
	return roleRank[a.Role] >= roleRank[db.RoleAdmin]
}

// authorizeOwner is the single ownership check for mutations on owned
// resources: authors may only touch their own records, higher roles may
// touch any.
func authorizeOwner(actor Actor, ownerID uint) error {
	if roleRank[actor.Role] == 0 {
		return &PermissionError{Message: "unknown role"}
	}
	if actor.Role == db.RoleAuthor && actor.UserID != ownerID {
		return &PermissionError{Message: "you can only modify your own posts"}
	}
	return nil
}
