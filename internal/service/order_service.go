package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/groupbuy"
	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/roles"
	"github.com/osgirl/groupbuyer/internal/storage"
)

func nowUnix() int64 { return time.Now().Unix() }

// OrderService orchestrates the aggregation engine around a member's
// order: lazy order creation, request append/removal, and the explicit
// summary/totals calculation.
type OrderService struct {
	store storage.Store
}

// NewOrderService creates a new OrderService with the given storage backend.
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store}
}

// OrderView is the API projection of an order with decimal money.
type OrderView struct {
	ID           string               `json:"id"`
	GroupbuyID   string               `json:"groupbuyId"`
	UserID       string               `json:"userId"`
	Requests     []models.Request     `json:"requests"`
	Summary      []models.SummaryLine `json:"summary"`
	Subtotal     float64              `json:"subtotal"`
	ShippingCost float64              `json:"shippingCost"`
	OtherCosts   float64              `json:"otherCosts"`
	Total        float64              `json:"total"`
	UpdatedAt    int64                `json:"updatedAt"`
}

func orderView(o *models.Order) *OrderView {
	return &OrderView{
		ID:           o.ID,
		GroupbuyID:   o.GroupbuyID,
		UserID:       o.UserID,
		Requests:     o.Requests,
		Summary:      o.Summary,
		Subtotal:     o.Subtotal.Decimal(),
		ShippingCost: o.ShippingCost.Decimal(),
		OtherCosts:   o.OtherCosts.Decimal(),
		Total:        o.Total.Decimal(),
		UpdatedAt:    o.UpdatedAt,
	}
}

// Get retrieves the actor's order in the groupbuy. NotFound when the
// actor has not requested anything yet.
func (s *OrderService) Get(ctx context.Context, actor *models.User, groupbuyID string) (*OrderView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	if _, _, err := s.memberOf(ctx, actor, groupbuyID); err != nil {
		return nil, err
	}

	o, err := s.store.GetOrderForUser(ctx, groupbuyID, actor.ID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if o == nil {
		return nil, apperr.NotFound("order", groupbuyID+"/"+actor.ID)
	}
	return orderView(o), nil
}

// AddRequest appends a request to the actor's order in the groupbuy,
// creating the order on first use. Every referenced item must belong
// to the groupbuy.
func (s *OrderService) AddRequest(ctx context.Context, actor *models.User, groupbuyID string, payload groupbuy.RequestPayload) (*OrderView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, _, err := s.memberOf(ctx, actor, groupbuyID)
	if err != nil {
		return nil, err
	}
	if err := s.validateLines(ctx, g.ID, payload.Items); err != nil {
		return nil, err
	}

	o, err := s.store.GetOrderForUser(ctx, groupbuyID, actor.ID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	created := false
	if o == nil {
		o = &models.Order{GroupbuyID: groupbuyID, UserID: actor.ID}
		created = true
	}

	req, err := groupbuy.AddRequest(o, payload, actor.ID)
	if err != nil {
		return nil, err
	}

	if created {
		err = s.store.CreateOrder(ctx, o)
	} else {
		err = s.store.UpdateOrder(ctx, o)
	}
	if err != nil {
		slog.Error("persist order failed", "groupbuy_id", groupbuyID, "error", err)
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Request added",
		"groupbuy_id", groupbuyID, "order_id", o.ID, "request_id", req.ID, "user", req.UserID)
	return orderView(o), nil
}

// RemoveRequest deletes a request from the actor's order. The order
// owner and the groupbuy's managers may remove; absent IDs are a
// no-op.
func (s *OrderService) RemoveRequest(ctx context.Context, actor *models.User, groupbuyID, requestID string) (*OrderView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	_, _, err := s.memberOf(ctx, actor, groupbuyID)
	if err != nil {
		return nil, err
	}

	o, err := s.store.GetOrderForUser(ctx, groupbuyID, actor.ID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if o == nil {
		return nil, apperr.NotFound("order", groupbuyID+"/"+actor.ID)
	}

	groupbuy.RemoveRequest(o, requestID)
	if err := s.store.UpdateOrder(ctx, o); err != nil {
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Request removed", "groupbuy_id", groupbuyID, "order_id", o.ID, "request_id", requestID)
	return orderView(o), nil
}

// Calculate rebuilds the actor's order summary and then the monetary
// totals from current item prices. This is the explicit calculation
// callers batch requests towards; nothing else touches money.
func (s *OrderService) Calculate(ctx context.Context, actor *models.User, groupbuyID string) (*OrderView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, _, err := s.memberOf(ctx, actor, groupbuyID)
	if err != nil {
		return nil, err
	}

	o, err := s.store.GetOrderForUser(ctx, groupbuyID, actor.ID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if o == nil {
		return nil, apperr.NotFound("order", groupbuyID+"/"+actor.ID)
	}

	groupbuy.CalculateSummary(o)

	prices, err := s.itemPrices(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if err := groupbuy.CalculateTotals(o, prices); err != nil {
		return nil, err
	}

	if err := s.store.UpdateOrder(ctx, o); err != nil {
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Order calculated",
		"groupbuy_id", groupbuyID, "order_id", o.ID, "lines", len(o.Summary), "total", o.Total.Decimal())
	return orderView(o), nil
}

// ListByGroupbuy retrieves every order of the groupbuy for actors
// allowed to see per-member items.
func (s *OrderService) ListByGroupbuy(ctx context.Context, actor *models.User, groupbuyID string) ([]*OrderView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, role, err := s.memberOf(ctx, actor, groupbuyID)
	if err != nil {
		return nil, err
	}
	if !groupbuy.CanSee(g, groupbuy.FieldItemsByMember, role) {
		return nil, apperr.ErrNotAuthorized
	}

	orders, err := s.store.ListOrdersByGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	views := make([]*OrderView, len(orders))
	for i, o := range orders {
		views[i] = orderView(o)
	}
	return views, nil
}

// memberOf loads the groupbuy and requires the actor to be at least a
// member (admins pass).
func (s *OrderService) memberOf(ctx context.Context, actor *models.User, groupbuyID string) (*models.Groupbuy, roles.Role, error) {
	g, err := s.store.GetGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, roles.Stranger, apperr.Unexpected(err)
	}
	role := roles.Derive(actor, g)
	if !role.AtLeastMember() {
		return nil, role, apperr.ErrNotAuthorized
	}
	return g, role, nil
}

// validateLines checks that every request line references an item of
// this groupbuy.
func (s *OrderService) validateLines(ctx context.Context, groupbuyID string, lines []models.RequestLine) error {
	if len(lines) == 0 {
		return apperr.Validation("items", "at least one item required")
	}
	items, err := s.store.ListItemsByGroupbuy(ctx, groupbuyID)
	if err != nil {
		return apperr.Unexpected(err)
	}
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}
	for _, line := range lines {
		if !known[line.ItemID] {
			return apperr.Validation("items", "item not in groupbuy: "+line.ItemID)
		}
	}
	return nil
}

// itemPrices maps item ID to unit price for the groupbuy.
func (s *OrderService) itemPrices(ctx context.Context, groupbuyID string) (map[string]models.Cents, error) {
	items, err := s.store.ListItemsByGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	prices := make(map[string]models.Cents, len(items))
	for _, item := range items {
		prices[item.ID] = item.Price
	}
	return prices, nil
}
