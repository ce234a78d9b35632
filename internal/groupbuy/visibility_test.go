package groupbuy

import (
	"testing"

	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/roles"
)

func TestCanSeeDefaults(t *testing.T) {
	g := &models.Groupbuy{} // no visibility overrides

	tests := []struct {
		field string
		role  roles.Role
		want  bool
	}{
		// Public defaults visible to anyone.
		{FieldItems, roles.Stranger, true},
		{FieldManagers, roles.Stranger, true},
		{FieldMembers, roles.Stranger, true},
		{FieldItemNumbers, roles.Stranger, true},
		// Restricted defaults need at least membership.
		{FieldItemsByMember, roles.Stranger, false},
		{FieldItemsByMember, roles.Member, true},
		{FieldPaymentStatus, roles.Stranger, false},
		{FieldPaymentStatus, roles.Member, true},
		{FieldShipmentsState, roles.Stranger, false},
		{FieldShipmentsState, roles.Manager, true},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.role.String(), func(t *testing.T) {
			if got := CanSee(g, tt.field, tt.role); got != tt.want {
				t.Errorf("CanSee(%q, %v) = %v, want %v", tt.field, tt.role, got, tt.want)
			}
		})
	}
}

func TestCanSeeOverrides(t *testing.T) {
	g := &models.Groupbuy{
		Visibility: map[string]string{
			FieldMembers:       VisibilityPrivate,
			FieldItems:         VisibilityRestricted,
			FieldPaymentStatus: VisibilityPublic,
		},
	}

	tests := []struct {
		name  string
		field string
		role  roles.Role
		want  bool
	}{
		{"private members hidden from member", FieldMembers, roles.Member, false},
		{"private members shown to manager", FieldMembers, roles.Manager, true},
		{"restricted items hidden from stranger", FieldItems, roles.Stranger, false},
		{"restricted items shown to member", FieldItems, roles.Member, true},
		{"public payment status shown to stranger", FieldPaymentStatus, roles.Stranger, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSee(g, tt.field, tt.role); got != tt.want {
				t.Errorf("CanSee(%q, %v) = %v, want %v", tt.field, tt.role, got, tt.want)
			}
		})
	}
}

func TestCanSeeAdminSeesEverything(t *testing.T) {
	g := &models.Groupbuy{
		Visibility: map[string]string{
			FieldMembers:  VisibilityPrivate,
			FieldManagers: VisibilityPrivate,
			FieldItems:    VisibilityPrivate,
		},
	}

	for _, field := range []string{
		FieldMembers, FieldManagers, FieldItems, FieldItemsByMember,
		FieldPaymentStatus, FieldShipmentsState, FieldItemNumbers,
	} {
		if !CanSee(g, field, roles.Admin) {
			t.Errorf("admin should see %q", field)
		}
	}
}

func TestCanSeeFailsClosed(t *testing.T) {
	g := &models.Groupbuy{
		// A bogus entry in the map must not open an unknown field.
		Visibility: map[string]string{"secretLedger": VisibilityPublic},
	}

	for _, role := range []roles.Role{roles.Stranger, roles.Member, roles.Manager, roles.Admin} {
		if CanSee(g, "secretLedger", role) {
			t.Errorf("unknown field disclosed to %v", role)
		}
		if CanSee(g, "", role) {
			t.Errorf("empty field disclosed to %v", role)
		}
	}

	// Garbage level values fail closed too.
	g2 := &models.Groupbuy{Visibility: map[string]string{FieldMembers: "everyone"}}
	if CanSee(g2, FieldMembers, roles.Member) {
		t.Error("invalid level should not disclose")
	}
}
