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

// CreateGroupbuy persists a new groupbuy with all sub-collections.
func (s *SQLiteStore) CreateGroupbuy(ctx context.Context, g *models.Groupbuy) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if g.CreatedAt == 0 {
		g.CreatedAt = now
	}
	if g.UpdatedAt == 0 {
		g.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groupbuys (id, title, description, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		g.ID, g.Title, g.Description, g.Status, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert groupbuy: %w", err)
	}

	if err := insertGroupbuyChildren(ctx, tx, g); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroupbuy retrieves a groupbuy by ID, including managers, members,
// visibility overrides and the updates log.
func (s *SQLiteStore) GetGroupbuy(ctx context.Context, id string) (*models.Groupbuy, error) {
	g := &models.Groupbuy{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, status, created_at, updated_at FROM groupbuys WHERE id = ?",
		id,
	).Scan(&g.ID, &g.Title, &g.Description, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("groupbuy", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get groupbuy: %w", err)
	}

	if err := s.loadGroupbuyChildren(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGroupbuy replaces the stored groupbuy and its sub-collections
// inside one transaction. Last write wins.
func (s *SQLiteStore) UpdateGroupbuy(ctx context.Context, g *models.Groupbuy) error {
	g.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE groupbuys SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?",
		g.Title, g.Description, g.Status, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update groupbuy: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("groupbuy", g.ID)
	}

	for _, table := range []string{"groupbuy_managers", "groupbuy_members", "groupbuy_visibility", "groupbuy_updates"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE groupbuy_id = ?", g.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertGroupbuyChildren(ctx, tx, g); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListGroupbuys retrieves all groupbuys, newest first.
func (s *SQLiteStore) ListGroupbuys(ctx context.Context) ([]*models.Groupbuy, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, status, created_at, updated_at FROM groupbuys ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groupbuys: %w", err)
	}
	defer rows.Close()

	var groupbuys []*models.Groupbuy
	for rows.Next() {
		g := &models.Groupbuy{}
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan groupbuy: %w", err)
		}
		groupbuys = append(groupbuys, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groupbuys: %w", err)
	}

	for _, g := range groupbuys {
		if err := s.loadGroupbuyChildren(ctx, g); err != nil {
			return nil, err
		}
	}
	return groupbuys, nil
}

func insertGroupbuyChildren(ctx context.Context, tx *sql.Tx, g *models.Groupbuy) error {
	for i, userID := range g.Managers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groupbuy_managers (groupbuy_id, user_id, position) VALUES (?, ?, ?)",
			g.ID, userID, i,
		); err != nil {
			return fmt.Errorf("failed to insert manager: %w", err)
		}
	}
	for i, userID := range g.Members {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groupbuy_members (groupbuy_id, user_id, position) VALUES (?, ?, ?)",
			g.ID, userID, i,
		); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	for field, level := range g.Visibility {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groupbuy_visibility (groupbuy_id, field, level) VALUES (?, ?, ?)",
			g.ID, field, level,
		); err != nil {
			return fmt.Errorf("failed to insert visibility: %w", err)
		}
	}
	for i, update := range g.Updates {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groupbuy_updates (groupbuy_id, position, publish_date, text_info) VALUES (?, ?, ?, ?)",
			g.ID, i, update.PublishDate, update.TextInfo,
		); err != nil {
			return fmt.Errorf("failed to insert update: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadGroupbuyChildren(ctx context.Context, g *models.Groupbuy) error {
	var err error
	if g.Managers, err = s.listUserIDs(ctx, "groupbuy_managers", g.ID); err != nil {
		return err
	}
	if g.Members, err = s.listUserIDs(ctx, "groupbuy_members", g.ID); err != nil {
		return err
	}

	visRows, err := s.db.QueryContext(ctx,
		"SELECT field, level FROM groupbuy_visibility WHERE groupbuy_id = ?", g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get visibility: %w", err)
	}
	defer visRows.Close()
	for visRows.Next() {
		var field, level string
		if err := visRows.Scan(&field, &level); err != nil {
			return fmt.Errorf("failed to scan visibility: %w", err)
		}
		if g.Visibility == nil {
			g.Visibility = make(map[string]string)
		}
		g.Visibility[field] = level
	}
	if err := visRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate visibility: %w", err)
	}

	updateRows, err := s.db.QueryContext(ctx,
		"SELECT publish_date, text_info FROM groupbuy_updates WHERE groupbuy_id = ? ORDER BY position", g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}
	defer updateRows.Close()
	for updateRows.Next() {
		var update models.Update
		if err := updateRows.Scan(&update.PublishDate, &update.TextInfo); err != nil {
			return fmt.Errorf("failed to scan update: %w", err)
		}
		g.Updates = append(g.Updates, update)
	}
	if err := updateRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate updates: %w", err)
	}

	return nil
}

func (s *SQLiteStore) listUserIDs(ctx context.Context, table, groupbuyID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM "+table+" WHERE groupbuy_id = ? ORDER BY position", groupbuyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return ids, nil
}
