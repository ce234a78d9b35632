// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/osgirl/groupbuyer/internal/models"
)

// Store defines the persistence collaborator the services talk to.
// This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer. Implementations
// surface duplicate-key violations as apperr.DuplicateError and missing
// aggregates as apperr.NotFoundError.
type Store interface {
	// CreateUser persists a new user; the ID field is populated by the
	// store. Fails with DuplicateError on an already-registered email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil)
	// when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no
	// such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroupbuy persists a new groupbuy with its manager/member
	// sets, visibility map and updates log.
	CreateGroupbuy(ctx context.Context, g *models.Groupbuy) error

	// GetGroupbuy retrieves a groupbuy with all sub-collections.
	GetGroupbuy(ctx context.Context, id string) (*models.Groupbuy, error)

	// UpdateGroupbuy replaces the stored groupbuy, sub-collections
	// included. Last write wins; no version check.
	UpdateGroupbuy(ctx context.Context, g *models.Groupbuy) error

	// ListGroupbuys retrieves all groupbuys, newest first.
	ListGroupbuys(ctx context.Context) ([]*models.Groupbuy, error)

	// CreateItem persists a new item. Fails with DuplicateError when
	// the title already exists within the groupbuy.
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem retrieves an item by ID.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// UpdateItem replaces the editable fields of an item. Fails with
	// DuplicateError when the new title collides within the groupbuy.
	UpdateItem(ctx context.Context, item *models.Item) error

	// ListItemsByGroupbuy retrieves a groupbuy's items in creation
	// order.
	ListItemsByGroupbuy(ctx context.Context, groupbuyID string) ([]*models.Item, error)

	// CreateOrder persists a new order with its requests and summary.
	CreateOrder(ctx context.Context, o *models.Order) error

	// GetOrder retrieves an order by ID.
	GetOrder(ctx context.Context, id string) (*models.Order, error)

	// GetOrderForUser retrieves the order a user holds in a groupbuy.
	// Returns (nil, nil) when the user has none yet.
	GetOrderForUser(ctx context.Context, groupbuyID, userID string) (*models.Order, error)

	// ListOrdersByGroupbuy retrieves all orders of a groupbuy.
	ListOrdersByGroupbuy(ctx context.Context, groupbuyID string) ([]*models.Order, error)

	// UpdateOrder replaces the stored order, requests and summary
	// included.
	UpdateOrder(ctx context.Context, o *models.Order) error

	// CreateMessage persists a new message.
	CreateMessage(ctx context.Context, msg *models.Message) error

	// ListMessagesByGroupbuy retrieves a groupbuy's messages, oldest
	// first.
	ListMessagesByGroupbuy(ctx context.Context, groupbuyID string) ([]*models.Message, error)

	// SetMessagesRead clears the unread flag on the given message IDs.
	SetMessagesRead(ctx context.Context, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}
