package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osgirl/groupbuyer/internal/models"
)

// CreateMessage persists a new message. An empty recipient is stored as
// NULL (broadcast to managers).
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	var to interface{} = nil
	if msg.ToUserID != "" {
		to = msg.ToUserID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, groupbuy_id, from_user_id, to_user_id, text, unread, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.GroupbuyID, msg.FromUserID, to, msg.Text, boolToInt(msg.Unread), msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessagesByGroupbuy retrieves a groupbuy's messages, oldest first.
func (s *SQLiteStore) ListMessagesByGroupbuy(ctx context.Context, groupbuyID string) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, groupbuy_id, from_user_id, to_user_id, text, unread, created_at
		 FROM messages WHERE groupbuy_id = ? ORDER BY created_at, id`, groupbuyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		var to sql.NullString
		var unread int
		if err := rows.Scan(&msg.ID, &msg.GroupbuyID, &msg.FromUserID, &to,
			&msg.Text, &unread, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if to.Valid {
			msg.ToUserID = to.String
		}
		msg.Unread = unread != 0
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return msgs, nil
}

// SetMessagesRead clears the unread flag on the given message IDs.
func (s *SQLiteStore) SetMessagesRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := "UPDATE messages SET unread = 0 WHERE id IN (?" + repeatPlaceholder(len(ids)-1) + ")"
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
