package service

import (
	"context"
	"log/slog"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/groupbuy"
	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/roles"
	"github.com/osgirl/groupbuyer/internal/storage"
)

// GroupbuyService orchestrates groupbuy lifecycle, membership and
// update-log operations: load the aggregate, derive the actor's role
// once, run the pure rule, persist the result.
type GroupbuyService struct {
	store storage.Store
}

// NewGroupbuyService creates a new GroupbuyService with the given storage backend.
func NewGroupbuyService(store storage.Store) *GroupbuyService {
	return &GroupbuyService{store: store}
}

// GroupbuyView is the role-redacted projection of a groupbuy. Gated
// sub-objects are nil when the actor may not see them.
type GroupbuyView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	NextStatus  string            `json:"nextStatus,omitempty"`
	Managers    []string          `json:"managers,omitempty"`
	Members     []string          `json:"members,omitempty"`
	Updates     []models.Update   `json:"updates,omitempty"`
	Visibility  map[string]string `json:"visibility,omitempty"`
	CreatedAt   int64             `json:"createdAt"`
	UpdatedAt   int64             `json:"updatedAt"`
}

// viewFor redacts g for an actor with the given role. The updates log
// is member-only regardless of the visibility map; the visibility map
// itself is shown to managers only.
func viewFor(g *models.Groupbuy, role roles.Role) *GroupbuyView {
	view := &GroupbuyView{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if next, ok := groupbuy.NextStatus(g.Status); ok {
		view.NextStatus = next
	}
	if groupbuy.CanSee(g, groupbuy.FieldManagers, role) {
		view.Managers = g.Managers
	}
	if groupbuy.CanSee(g, groupbuy.FieldMembers, role) {
		view.Members = g.Members
	}
	if role.AtLeastMember() {
		view.Updates = g.Updates
	}
	if role.AtLeastManager() {
		view.Visibility = g.Visibility
	}
	return view
}

// CreateGroupbuyInput carries the fields a creator may set.
type CreateGroupbuyInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Visibility  map[string]string `json:"visibility"`
}

// Create starts a new groupbuy in status "new" with the actor as its
// first manager and member.
func (s *GroupbuyService) Create(ctx context.Context, actor *models.User, input CreateGroupbuyInput) (*GroupbuyView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	if input.Title == "" {
		return nil, apperr.Validation("title", "required")
	}
	if err := validateVisibility(input.Visibility); err != nil {
		return nil, err
	}

	g := &models.Groupbuy{
		Title:       input.Title,
		Description: input.Description,
		Status:      groupbuy.StatusNew,
		Managers:    []string{actor.ID},
		Members:     []string{actor.ID},
		Visibility:  input.Visibility,
	}
	if err := s.store.CreateGroupbuy(ctx, g); err != nil {
		slog.Error("CreateGroupbuy failed", "error", err)
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Groupbuy created", "groupbuy_id", g.ID, "manager", actor.ID)
	return viewFor(g, roles.Derive(actor, g)), nil
}

// Get retrieves a groupbuy redacted for the actor (nil actor is a
// stranger).
func (s *GroupbuyService) Get(ctx context.Context, actor *models.User, id string) (*GroupbuyView, error) {
	g, err := s.store.GetGroupbuy(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return viewFor(g, roles.Derive(actor, g)), nil
}

// List retrieves all groupbuys, each redacted for the actor.
func (s *GroupbuyService) List(ctx context.Context, actor *models.User) ([]*GroupbuyView, error) {
	groupbuys, err := s.store.ListGroupbuys(ctx)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	views := make([]*GroupbuyView, len(groupbuys))
	for i, g := range groupbuys {
		views[i] = viewFor(g, roles.Derive(actor, g))
	}
	return views, nil
}

// UpdateGroupbuyInput carries the manager-editable fields. Nil fields
// stay untouched.
type UpdateGroupbuyInput struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Visibility  map[string]string `json:"visibility"`
}

// Update edits title, description or visibility. Managers and admins only.
func (s *GroupbuyService) Update(ctx context.Context, actor *models.User, id string, input UpdateGroupbuyInput) (*GroupbuyView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, role, err := s.loadFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !role.AtLeastManager() {
		return nil, apperr.ErrNotAuthorized
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperr.Validation("title", "required")
		}
		g.Title = *input.Title
	}
	if input.Description != nil {
		g.Description = *input.Description
	}
	if input.Visibility != nil {
		if err := validateVisibility(input.Visibility); err != nil {
			return nil, err
		}
		if g.Visibility == nil {
			g.Visibility = make(map[string]string)
		}
		for field, level := range input.Visibility {
			g.Visibility[field] = level
		}
	}

	if err := s.save(ctx, g); err != nil {
		return nil, err
	}
	return viewFor(g, role), nil
}

// Transition moves a groupbuy to the target status on behalf of the
// actor, enforcing the state graph and role rules.
func (s *GroupbuyService) Transition(ctx context.Context, actor *models.User, id, target string) (*GroupbuyView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, role, err := s.loadFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := groupbuy.GoTo(g, target, role); err != nil {
		slog.Warn("Transition rejected",
			"groupbuy_id", id, "target", target, "role", role.String(), "error", err)
		return nil, err
	}
	if err := s.save(ctx, g); err != nil {
		return nil, err
	}

	slog.Info("Groupbuy transitioned", "groupbuy_id", id, "status", g.Status, "actor", actor.ID)
	return viewFor(g, role), nil
}

// AddManager promotes a user. Admins and existing managers only; the
// user gains membership alongside when missing.
func (s *GroupbuyService) AddManager(ctx context.Context, actor *models.User, id, userID string) (*GroupbuyView, error) {
	return s.mutateMembership(ctx, actor, id, userID, managersRule, groupbuy.AddManager)
}

// RemoveManager demotes a user, guarded against removing the last
// manager. Admins and existing managers only.
func (s *GroupbuyService) RemoveManager(ctx context.Context, actor *models.User, id, userID string) (*GroupbuyView, error) {
	return s.mutateMembership(ctx, actor, id, userID, managersRule, groupbuy.RemoveManager)
}

// AddMember joins a user to the groupbuy. Admins, managers, or the
// user joining themself.
func (s *GroupbuyService) AddMember(ctx context.Context, actor *models.User, id, userID string) (*GroupbuyView, error) {
	return s.mutateMembership(ctx, actor, id, userID, membersRule, groupbuy.AddMember)
}

// RemoveMember removes a user from the member set under the same rule
// as AddMember. Managers must be demoted first.
func (s *GroupbuyService) RemoveMember(ctx context.Context, actor *models.User, id, userID string) (*GroupbuyView, error) {
	return s.mutateMembership(ctx, actor, id, userID, membersRule, groupbuy.RemoveMember)
}

// AddUpdate appends an announcement to the groupbuy's update log.
// Managers and admins only.
func (s *GroupbuyService) AddUpdate(ctx context.Context, actor *models.User, id, text string) (*GroupbuyView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	if text == "" {
		return nil, apperr.Validation("textInfo", "required")
	}
	g, role, err := s.loadFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !role.AtLeastManager() {
		return nil, apperr.ErrNotAuthorized
	}

	g.Updates = append(g.Updates, models.Update{
		PublishDate: nowUnix(),
		TextInfo:    text,
	})
	if err := s.save(ctx, g); err != nil {
		return nil, err
	}
	return viewFor(g, role), nil
}

// managersRule authorizes manager-set changes: admin or existing manager.
func managersRule(role roles.Role, actorID, targetID string) bool {
	return role.AtLeastManager()
}

// membersRule authorizes member-set changes: admin, manager, or the
// member acting on themself.
func membersRule(role roles.Role, actorID, targetID string) bool {
	return role.AtLeastManager() || actorID == targetID
}

func (s *GroupbuyService) mutateMembership(
	ctx context.Context,
	actor *models.User,
	id, userID string,
	authorize func(roles.Role, string, string) bool,
	op func(*models.Groupbuy, string) error,
) (*GroupbuyView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	if userID == "" {
		return nil, apperr.Validation("userId", "required")
	}

	target, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if target == nil {
		return nil, apperr.NotFound("user", userID)
	}

	g, role, err := s.loadFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize(role, actor.ID, userID) {
		return nil, apperr.ErrNotAuthorized
	}

	if err := op(g, userID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, g); err != nil {
		return nil, err
	}

	slog.Info("Membership changed", "groupbuy_id", id, "user_id", userID, "actor", actor.ID)
	return viewFor(g, role), nil
}

func (s *GroupbuyService) loadFor(ctx context.Context, actor *models.User, id string) (*models.Groupbuy, roles.Role, error) {
	g, err := s.store.GetGroupbuy(ctx, id)
	if err != nil {
		return nil, roles.Stranger, apperr.Unexpected(err)
	}
	return g, roles.Derive(actor, g), nil
}

func (s *GroupbuyService) save(ctx context.Context, g *models.Groupbuy) error {
	if err := s.store.UpdateGroupbuy(ctx, g); err != nil {
		slog.Error("UpdateGroupbuy failed", "groupbuy_id", g.ID, "error", err)
		return apperr.Unexpected(err)
	}
	return nil
}

func validateVisibility(visibility map[string]string) error {
	for field, level := range visibility {
		if !groupbuy.ValidVisibilityField(field) {
			return apperr.Validation("visibility", "unknown field: "+field)
		}
		if !groupbuy.ValidVisibilityLevel(level) {
			return apperr.Validation("visibility", "invalid level for "+field+": "+level)
		}
	}
	return nil
}
