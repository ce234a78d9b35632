package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
)

// CreateItem inserts a new item. A duplicate title within the groupbuy
// surfaces as apperr.DuplicateError.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, groupbuy_id, owner_id, title, price, currency, max_quantity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.GroupbuyID, item.OwnerID, item.Title,
		int64(item.Price), item.Currency, item.MaxQuantity, item.CreatedAt,
	)
	if err != nil {
		if dup := asDuplicate(err); dup != err {
			return dup
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item := &models.Item{}
	var price int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, groupbuy_id, owner_id, title, price, currency, max_quantity, created_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.GroupbuyID, &item.OwnerID, &item.Title,
		&price, &item.Currency, &item.MaxQuantity, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	item.Price = models.Cents(price)
	return item, nil
}

// UpdateItem replaces the editable columns of an item. The groupbuy
// reference never changes.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET title = ?, price = ?, currency = ?, max_quantity = ? WHERE id = ?`,
		item.Title, int64(item.Price), item.Currency, item.MaxQuantity, item.ID,
	)
	if err != nil {
		if dup := asDuplicate(err); dup != err {
			return dup
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("item", item.ID)
	}
	return nil
}

// ListItemsByGroupbuy retrieves a groupbuy's items in creation order.
func (s *SQLiteStore) ListItemsByGroupbuy(ctx context.Context, groupbuyID string) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, groupbuy_id, owner_id, title, price, currency, max_quantity, created_at
		 FROM items WHERE groupbuy_id = ? ORDER BY created_at, id`, groupbuyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		var price int64
		if err := rows.Scan(&item.ID, &item.GroupbuyID, &item.OwnerID, &item.Title,
			&price, &item.Currency, &item.MaxQuantity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Price = models.Cents(price)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
