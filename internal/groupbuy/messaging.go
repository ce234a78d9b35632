package groupbuy

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
)

// NewMessage builds a message from sender within g, enforcing the
// role-pair constraints: a manager writes to one current member, a
// plain member writes to all managers. When a plain member supplies a
// recipient anyway it is silently discarded and the message goes out as
// a broadcast; observed behavior of the upstream system, kept as is.
func NewMessage(g *models.Groupbuy, senderID, text, toUserID string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("text", "required")
	}

	switch {
	case g.IsManager(senderID):
		if toUserID == "" || !g.IsMember(toUserID) {
			return nil, apperr.ErrInvalidRecipient
		}
	case g.IsMember(senderID):
		toUserID = ""
	default:
		return nil, apperr.ErrInvalidSenderOrReceiver
	}

	return &models.Message{
		ID:         uuid.New().String(),
		GroupbuyID: g.ID,
		FromUserID: senderID,
		ToUserID:   toUserID,
		Text:       text,
		Unread:     true,
		CreatedAt:  time.Now().Unix(),
	}, nil
}

// AddressedTo reports whether msg is readable mail for userID within g:
// either directly addressed to them, or a broadcast and the user is a
// manager.
func AddressedTo(msg *models.Message, g *models.Groupbuy, userID string) bool {
	if msg.ToUserID == userID && userID != "" {
		return true
	}
	return msg.Broadcast() && g.IsManager(userID)
}

// MarkAllRead flips Unread off on every message in msgs addressed to
// userID and returns the number changed. Idempotent: already-read
// messages do not count.
func MarkAllRead(msgs []*models.Message, g *models.Groupbuy, userID string) int {
	count := 0
	for _, msg := range msgs {
		if msg.Unread && AddressedTo(msg, g, userID) {
			msg.Unread = false
			count++
		}
	}
	return count
}
