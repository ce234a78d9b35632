package groupbuy

import (
	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
)

// AddManager appends userID to g's manager set. Because every manager
// is also a member, the user is appended to the member set too when
// missing. Already-a-manager is a no-op success.
func AddManager(g *models.Groupbuy, userID string) error {
	if userID == "" {
		return apperr.Validation("userId", "required")
	}
	if g.IsManager(userID) {
		return nil
	}
	g.Managers = append(g.Managers, userID)
	if !g.IsMember(userID) {
		g.Members = append(g.Members, userID)
	}
	return nil
}

// RemoveManager removes userID from the manager set only; a former
// manager stays a member. Removing the sole remaining manager fails
// with LastManagerError and leaves the set unchanged. Not-a-manager is
// a no-op success.
func RemoveManager(g *models.Groupbuy, userID string) error {
	if !g.IsManager(userID) {
		return nil
	}
	if len(g.Managers) == 1 {
		return apperr.ErrLastManager
	}
	g.Managers = remove(g.Managers, userID)
	return nil
}

// AddMember appends userID to the member set. Already-a-member is a
// no-op success.
func AddMember(g *models.Groupbuy, userID string) error {
	if userID == "" {
		return apperr.Validation("userId", "required")
	}
	if g.IsMember(userID) {
		return nil
	}
	g.Members = append(g.Members, userID)
	return nil
}

// RemoveMember removes userID from the member set only. It never
// touches the manager set: a manager must be demoted first, so by
// construction this path never strands a manager outside the members.
func RemoveMember(g *models.Groupbuy, userID string) error {
	if g.IsManager(userID) {
		// Dropping a manager's membership would break the
		// manager-implies-member invariant.
		return apperr.Validation("userId", "demote manager before removing membership")
	}
	if !g.IsMember(userID) {
		return nil
	}
	g.Members = remove(g.Members, userID)
	return nil
}

func remove(ids []string, userID string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
