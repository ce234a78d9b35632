package service

import (
	"context"
	"log/slog"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/currency"
	"github.com/osgirl/groupbuyer/internal/groupbuy"
	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/roles"
	"github.com/osgirl/groupbuyer/internal/storage"
)

// ItemService manages the purchasable entries of a groupbuy.
type ItemService struct {
	store storage.Store
}

// NewItemService creates a new ItemService with the given storage backend.
func NewItemService(store storage.Store) *ItemService {
	return &ItemService{store: store}
}

// ItemView is the API projection of an item with decimal money.
type ItemView struct {
	ID          string  `json:"id"`
	GroupbuyID  string  `json:"groupbuyId"`
	OwnerID     string  `json:"ownerId"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	MaxQuantity int64   `json:"maxQuantity,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
}

func itemView(item *models.Item) *ItemView {
	return &ItemView{
		ID:          item.ID,
		GroupbuyID:  item.GroupbuyID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Price:       item.Price.Decimal(),
		Currency:    item.Currency,
		MaxQuantity: item.MaxQuantity,
		CreatedAt:   item.CreatedAt,
	}
}

// CreateItemInput carries the item fields a manager may set. Price is
// decimal major units as sent over the API.
type CreateItemInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	MaxQuantity int64   `json:"maxQuantity"`
}

// Create adds an item to the groupbuy. Managers and admins only; the
// title must be unique within the groupbuy.
func (s *ItemService) Create(ctx context.Context, actor *models.User, groupbuyID string, input CreateItemInput) (*ItemView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, err := s.store.GetGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !roles.Derive(actor, g).AtLeastManager() {
		return nil, apperr.ErrNotAuthorized
	}

	if input.Title == "" {
		return nil, apperr.Validation("title", "required")
	}
	if input.Price < 0 {
		return nil, apperr.Validation("price", "must not be negative")
	}
	if input.MaxQuantity < 0 {
		return nil, apperr.Validation("maxQuantity", "must not be negative")
	}
	if input.Currency != "" && !currency.Valid(input.Currency) {
		return nil, apperr.Validation("currency", "unknown code: "+input.Currency)
	}

	item := &models.Item{
		GroupbuyID:  g.ID,
		OwnerID:     actor.ID,
		Title:       input.Title,
		Price:       models.CentsFromDecimal(input.Price),
		Currency:    input.Currency,
		MaxQuantity: input.MaxQuantity,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Item created", "groupbuy_id", g.ID, "item_id", item.ID, "title", item.Title)
	return itemView(item), nil
}

// List retrieves the groupbuy's items for actors the visibility policy
// admits.
func (s *ItemService) List(ctx context.Context, actor *models.User, groupbuyID string) ([]*ItemView, error) {
	g, err := s.store.GetGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !groupbuy.CanSee(g, groupbuy.FieldItems, roles.Derive(actor, g)) {
		return nil, apperr.ErrNotAuthorized
	}

	items, err := s.store.ListItemsByGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	views := make([]*ItemView, len(items))
	for i, item := range items {
		views[i] = itemView(item)
	}
	return views, nil
}

// UpdateItemInput carries the editable item fields. Nil fields stay
// untouched; the groupbuy reference is immutable.
type UpdateItemInput struct {
	Title       *string  `json:"title"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	MaxQuantity *int64   `json:"maxQuantity"`
}

// Update edits an item. The item's owner and the groupbuy's managers
// may edit.
func (s *ItemService) Update(ctx context.Context, actor *models.User, id string, input UpdateItemInput) (*ItemView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	g, err := s.store.GetGroupbuy(ctx, item.GroupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !roles.Derive(actor, g).AtLeastManager() && item.OwnerID != actor.ID {
		return nil, apperr.ErrNotAuthorized
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperr.Validation("title", "required")
		}
		item.Title = *input.Title
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperr.Validation("price", "must not be negative")
		}
		item.Price = models.CentsFromDecimal(*input.Price)
	}
	if input.Currency != nil {
		if *input.Currency != "" && !currency.Valid(*input.Currency) {
			return nil, apperr.Validation("currency", "unknown code: "+*input.Currency)
		}
		item.Currency = *input.Currency
	}
	if input.MaxQuantity != nil {
		if *input.MaxQuantity < 0 {
			return nil, apperr.Validation("maxQuantity", "must not be negative")
		}
		item.MaxQuantity = *input.MaxQuantity
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Item updated", "groupbuy_id", item.GroupbuyID, "item_id", item.ID)
	return itemView(item), nil
}

// Get retrieves one item, gated the same way as List.
func (s *ItemService) Get(ctx context.Context, actor *models.User, id string) (*ItemView, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	g, err := s.store.GetGroupbuy(ctx, item.GroupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !groupbuy.CanSee(g, groupbuy.FieldItems, roles.Derive(actor, g)) {
		return nil, apperr.ErrNotAuthorized
	}
	return itemView(item), nil
}
