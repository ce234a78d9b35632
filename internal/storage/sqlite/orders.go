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

// CreateOrder persists a new order with its requests and summary.
func (s *SQLiteStore) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if o.CreatedAt == 0 {
		o.CreatedAt = now
	}
	if o.UpdatedAt == 0 {
		o.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, groupbuy_id, user_id, subtotal, shipping_cost, other_costs, total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.GroupbuyID, o.UserID,
		int64(o.Subtotal), int64(o.ShippingCost), int64(o.OtherCosts), int64(o.Total),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertOrderChildren(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID, requests and summary included.
func (s *SQLiteStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.scanOrderRow(s.db.QueryRowContext(ctx,
		`SELECT id, groupbuy_id, user_id, subtotal, shipping_cost, other_costs, total, created_at, updated_at
		 FROM orders WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if err := s.loadOrderChildren(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrderForUser retrieves the order a user holds in a groupbuy.
// Returns (nil, nil) when the user has no order yet. When several
// exist (uniqueness is not hard-enforced) the oldest wins.
func (s *SQLiteStore) GetOrderForUser(ctx context.Context, groupbuyID, userID string) (*models.Order, error) {
	o, err := s.scanOrderRow(s.db.QueryRowContext(ctx,
		`SELECT id, groupbuy_id, user_id, subtotal, shipping_cost, other_costs, total, created_at, updated_at
		 FROM orders WHERE groupbuy_id = ? AND user_id = ? ORDER BY created_at LIMIT 1`,
		groupbuyID, userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order for user: %w", err)
	}
	if err := s.loadOrderChildren(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrdersByGroupbuy retrieves all orders of a groupbuy.
func (s *SQLiteStore) ListOrdersByGroupbuy(ctx context.Context, groupbuyID string) ([]*models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, groupbuy_id, user_id, subtotal, shipping_cost, other_costs, total, created_at, updated_at
		 FROM orders WHERE groupbuy_id = ? ORDER BY created_at, id`, groupbuyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o := &models.Order{}
		var subtotal, shipping, other, total int64
		if err := rows.Scan(&o.ID, &o.GroupbuyID, &o.UserID,
			&subtotal, &shipping, &other, &total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Subtotal, o.ShippingCost, o.OtherCosts, o.Total =
			models.Cents(subtotal), models.Cents(shipping), models.Cents(other), models.Cents(total)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, o := range orders {
		if err := s.loadOrderChildren(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrder replaces the stored order, requests and summary included,
// inside one transaction. Last write wins.
func (s *SQLiteStore) UpdateOrder(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET subtotal = ?, shipping_cost = ?, other_costs = ?, total = ?, updated_at = ?
		 WHERE id = ?`,
		int64(o.Subtotal), int64(o.ShippingCost), int64(o.OtherCosts), int64(o.Total),
		o.UpdatedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("order", o.ID)
	}

	// Requests cascade-delete their lines.
	if _, err := tx.ExecContext(ctx, "DELETE FROM requests WHERE order_id = ?", o.ID); err != nil {
		return fmt.Errorf("failed to clear requests: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_summaries WHERE order_id = ?", o.ID); err != nil {
		return fmt.Errorf("failed to clear summary: %w", err)
	}
	if err := insertOrderChildren(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanOrderRow(row *sql.Row) (*models.Order, error) {
	o := &models.Order{}
	var subtotal, shipping, other, total int64
	err := row.Scan(&o.ID, &o.GroupbuyID, &o.UserID,
		&subtotal, &shipping, &other, &total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Subtotal, o.ShippingCost, o.OtherCosts, o.Total =
		models.Cents(subtotal), models.Cents(shipping), models.Cents(other), models.Cents(total)
	return o, nil
}

func insertOrderChildren(ctx context.Context, tx *sql.Tx, o *models.Order) error {
	for i := range o.Requests {
		req := &o.Requests[i]
		if req.ID == "" {
			req.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO requests (id, order_id, user_id, request_date, position) VALUES (?, ?, ?, ?, ?)",
			req.ID, o.ID, req.UserID, req.RequestDate, i,
		); err != nil {
			return fmt.Errorf("failed to insert request: %w", err)
		}
		for j, line := range req.Items {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO request_lines (request_id, position, item_id, quantity) VALUES (?, ?, ?, ?)",
				req.ID, j, line.ItemID, line.Quantity,
			); err != nil {
				return fmt.Errorf("failed to insert request line: %w", err)
			}
		}
	}
	for i, line := range o.Summary {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_summaries (order_id, position, item_id, quantity) VALUES (?, ?, ?, ?)",
			o.ID, i, line.ItemID, line.Quantity,
		); err != nil {
			return fmt.Errorf("failed to insert summary line: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadOrderChildren(ctx context.Context, o *models.Order) error {
	reqRows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, request_date FROM requests WHERE order_id = ? ORDER BY position", o.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get requests: %w", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var req models.Request
		if err := reqRows.Scan(&req.ID, &req.UserID, &req.RequestDate); err != nil {
			return fmt.Errorf("failed to scan request: %w", err)
		}
		o.Requests = append(o.Requests, req)
	}
	if err := reqRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate requests: %w", err)
	}

	for i := range o.Requests {
		req := &o.Requests[i]
		lineRows, err := s.db.QueryContext(ctx,
			"SELECT item_id, quantity FROM request_lines WHERE request_id = ? ORDER BY position", req.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get request lines: %w", err)
		}
		for lineRows.Next() {
			var line models.RequestLine
			if err := lineRows.Scan(&line.ItemID, &line.Quantity); err != nil {
				lineRows.Close()
				return fmt.Errorf("failed to scan request line: %w", err)
			}
			req.Items = append(req.Items, line)
		}
		if err := lineRows.Err(); err != nil {
			lineRows.Close()
			return fmt.Errorf("failed to iterate request lines: %w", err)
		}
		lineRows.Close()
	}

	sumRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, quantity FROM order_summaries WHERE order_id = ? ORDER BY position", o.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}
	defer sumRows.Close()
	for sumRows.Next() {
		var line models.SummaryLine
		if err := sumRows.Scan(&line.ItemID, &line.Quantity); err != nil {
			return fmt.Errorf("failed to scan summary line: %w", err)
		}
		o.Summary = append(o.Summary, line)
	}
	if err := sumRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate summary: %w", err)
	}

	return nil
}
