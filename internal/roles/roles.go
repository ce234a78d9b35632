// Package roles computes the acting user's role relative to one
// groupbuy. The role is derived once per request and threaded
// explicitly into every core call instead of re-checking flags inline.
package roles

import "github.com/osgirl/groupbuyer/internal/models"

// Role is the actor's relationship to a specific groupbuy.
type Role int

const (
	// Stranger is any actor outside the groupbuy, including anonymous.
	Stranger Role = iota
	// Member joined the groupbuy.
	Member
	// Manager has administrative rights over the groupbuy.
	Manager
	// Admin is a platform administrator, superior to any manager.
	Admin
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case Manager:
		return "manager"
	case Member:
		return "member"
	default:
		return "stranger"
	}
}

// AtLeastMember reports whether the role carries member privileges.
func (r Role) AtLeastMember() bool {
	return r >= Member
}

// AtLeastManager reports whether the role carries manager privileges.
func (r Role) AtLeastManager() bool {
	return r >= Manager
}

// Derive computes the role of user relative to g. The admin flag wins,
// then manager-set membership, then member-set membership. A nil user
// is a stranger.
func Derive(user *models.User, g *models.Groupbuy) Role {
	if user == nil {
		return Stranger
	}
	if user.Admin {
		return Admin
	}
	if g.IsManager(user.ID) {
		return Manager
	}
	if g.IsMember(user.ID) {
		return Member
	}
	return Stranger
}
