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

// MessageService routes in-groupbuy mail between managers and members.
type MessageService struct {
	store storage.Store
}

// NewMessageService creates a new MessageService with the given storage backend.
func NewMessageService(store storage.Store) *MessageService {
	return &MessageService{store: store}
}

// MessageView is the API projection of a message.
type MessageView struct {
	ID         string `json:"id"`
	GroupbuyID string `json:"groupbuyId"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId,omitempty"`
	Broadcast  bool   `json:"broadcast"`
	Text       string `json:"text"`
	Unread     bool   `json:"unread"`
	CreatedAt  int64  `json:"createdAt"`
}

func messageView(msg *models.Message) *MessageView {
	return &MessageView{
		ID:         msg.ID,
		GroupbuyID: msg.GroupbuyID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Broadcast:  msg.Broadcast(),
		Text:       msg.Text,
		Unread:     msg.Unread,
		CreatedAt:  msg.CreatedAt,
	}
}

// Send creates a message from the actor within the groupbuy. Routing
// rules live in the groupbuy package; a named recipient must be a
// current user.
func (s *MessageService) Send(ctx context.Context, actor *models.User, groupbuyID, text, toUserID string) (*MessageView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, err := s.store.GetGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	if toUserID != "" {
		target, err := s.store.GetUserByID(ctx, toUserID)
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		if target == nil {
			return nil, apperr.NotFound("user", toUserID)
		}
	}

	msg, err := groupbuy.NewMessage(g, actor.ID, text, toUserID)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		slog.Error("CreateMessage failed", "groupbuy_id", groupbuyID, "error", err)
		return nil, apperr.Unexpected(err)
	}

	slog.Info("Message sent",
		"groupbuy_id", groupbuyID, "message_id", msg.ID, "from", msg.FromUserID, "broadcast", msg.Broadcast())
	return messageView(msg), nil
}

// Inbox retrieves the actor's mail in the groupbuy: messages addressed
// to them, broadcasts if they manage, and everything they sent.
func (s *MessageService) Inbox(ctx context.Context, actor *models.User, groupbuyID string) ([]*MessageView, error) {
	if actor == nil {
		return nil, apperr.ErrNotLogged
	}
	g, msgs, err := s.load(ctx, actor, groupbuyID)
	if err != nil {
		return nil, err
	}

	views := make([]*MessageView, 0, len(msgs))
	for _, msg := range msgs {
		if msg.FromUserID == actor.ID || groupbuy.AddressedTo(msg, g, actor.ID) {
			views = append(views, messageView(msg))
		}
	}
	return views, nil
}

// MarkRead clears the unread flag on every message addressed to the
// actor in the groupbuy and returns how many changed.
func (s *MessageService) MarkRead(ctx context.Context, actor *models.User, groupbuyID string) (int, error) {
	if actor == nil {
		return 0, apperr.ErrNotLogged
	}
	g, msgs, err := s.load(ctx, actor, groupbuyID)
	if err != nil {
		return 0, err
	}

	before := make(map[string]bool, len(msgs))
	for _, msg := range msgs {
		before[msg.ID] = msg.Unread
	}
	count := groupbuy.MarkAllRead(msgs, g, actor.ID)
	if count == 0 {
		return 0, nil
	}

	ids := make([]string, 0, count)
	for _, msg := range msgs {
		if before[msg.ID] && !msg.Unread {
			ids = append(ids, msg.ID)
		}
	}
	if err := s.store.SetMessagesRead(ctx, ids); err != nil {
		return 0, apperr.Unexpected(err)
	}

	slog.Info("Messages marked read", "groupbuy_id", groupbuyID, "user_id", actor.ID, "count", count)
	return count, nil
}

// load fetches the groupbuy and its messages for an actor that must be
// at least a member.
func (s *MessageService) load(ctx context.Context, actor *models.User, groupbuyID string) (*models.Groupbuy, []*models.Message, error) {
	g, err := s.store.GetGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, nil, apperr.Unexpected(err)
	}
	if !roles.Derive(actor, g).AtLeastMember() {
		return nil, nil, apperr.ErrNotAuthorized
	}

	msgs, err := s.store.ListMessagesByGroupbuy(ctx, groupbuyID)
	if err != nil {
		return nil, nil, apperr.Unexpected(err)
	}
	return g, msgs, nil
}
