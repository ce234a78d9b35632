// Package groupbuy implements the rules of the groupbuy domain: the
// per-field visibility policy, the lifecycle state machine, the
// membership registry, the order aggregation engine and the message
// routing constraints. Every function here is pure; loading and
// persisting the touched aggregates is the caller's job.
package groupbuy

import (
	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/roles"
)

// Visibility levels for a groupbuy field.
const (
	VisibilityPublic     = "public"
	VisibilityRestricted = "restricted"
	VisibilityPrivate    = "private"
)

// Gated field names.
const (
	FieldMembers        = "members"
	FieldManagers       = "managers"
	FieldItems          = "items"
	FieldItemsByMember  = "itemsByMember"
	FieldPaymentStatus  = "paymentStatus"
	FieldShipmentsState = "shipmentsState"
	FieldItemNumbers    = "itemNumbers"
)

// visibilityDefaults applies when a groupbuy's visibility map omits a
// field. Unknown fields have no default and fail closed.
var visibilityDefaults = map[string]string{
	FieldMembers:        VisibilityPublic,
	FieldManagers:       VisibilityPublic,
	FieldItems:          VisibilityPublic,
	FieldItemNumbers:    VisibilityPublic,
	FieldItemsByMember:  VisibilityRestricted,
	FieldPaymentStatus:  VisibilityRestricted,
	FieldShipmentsState: VisibilityRestricted,
}

// ValidVisibilityLevel reports whether level is one of the three
// accepted visibility values.
func ValidVisibilityLevel(level string) bool {
	switch level {
	case VisibilityPublic, VisibilityRestricted, VisibilityPrivate:
		return true
	}
	return false
}

// ValidVisibilityField reports whether field is gated by the policy.
func ValidVisibilityField(field string) bool {
	_, ok := visibilityDefaults[field]
	return ok
}

// CanSee decides whether an actor with the given role may see field on
// g. Admins see everything. Otherwise the field's configured level (or
// its default) applies: public to anyone, restricted to members and
// up, private to managers only. Unrecognized fields or levels are never
// disclosed.
func CanSee(g *models.Groupbuy, field string, role roles.Role) bool {
	// Unrecognized fields fail closed for every role, admin included.
	def, known := visibilityDefaults[field]
	if role == roles.Admin {
		return known
	}
	if !known {
		return false
	}

	level := g.Visibility[field]
	if level == "" {
		level = def
	}

	switch level {
	case VisibilityPublic:
		return true
	case VisibilityRestricted:
		return role.AtLeastMember()
	case VisibilityPrivate:
		return role.AtLeastManager()
	}
	return false
}
