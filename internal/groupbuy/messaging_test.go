package groupbuy

import (
	"errors"
	"testing"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
)

func messagingGroupbuy() *models.Groupbuy {
	return &models.Groupbuy{
		ID:       "g1",
		Managers: []string{"mgr1", "mgr2"},
		Members:  []string{"mgr1", "mgr2", "mem1", "mem2"},
	}
}

func TestNewMessageManagerToMember(t *testing.T) {
	g := messagingGroupbuy()

	msg, err := NewMessage(g, "mgr1", "your payment cleared", "mem1")
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if msg.ToUserID != "mem1" || msg.FromUserID != "mgr1" {
		t.Errorf("routing = %s → %s", msg.FromUserID, msg.ToUserID)
	}
	if !msg.Unread {
		t.Error("new message should start unread")
	}
}

func TestNewMessageManagerNeedsMemberRecipient(t *testing.T) {
	g := messagingGroupbuy()

	tests := []struct {
		name string
		to   string
	}{
		{"missing recipient", ""},
		{"recipient outside groupbuy", "outsider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage(g, "mgr1", "hello", tt.to)
			if !errors.Is(err, apperr.ErrInvalidRecipient) {
				t.Errorf("error = %v, want InvalidRecipient", err)
			}
		})
	}
}

func TestNewMessageMemberBroadcasts(t *testing.T) {
	g := messagingGroupbuy()

	msg, err := NewMessage(g, "mem1", "when do payments open?", "")
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if !msg.Broadcast() {
		t.Errorf("member message should broadcast, to = %q", msg.ToUserID)
	}
}

// A plain member supplying a recipient gets a broadcast anyway. The
// upstream system silently discards the recipient rather than erroring;
// kept for compatibility.
func TestNewMessageMemberForcesBroadcast(t *testing.T) {
	g := messagingGroupbuy()

	msg, err := NewMessage(g, "mem1", "psst", "mem2")
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if !msg.Broadcast() {
		t.Errorf("supplied recipient should be discarded, to = %q", msg.ToUserID)
	}
}

func TestNewMessageOutsiderRejected(t *testing.T) {
	g := messagingGroupbuy()

	_, err := NewMessage(g, "outsider", "let me in", "")
	if !errors.Is(err, apperr.ErrInvalidSenderOrReceiver) {
		t.Errorf("error = %v, want InvalidSenderOrReceiver", err)
	}
}

func TestNewMessageEmptyText(t *testing.T) {
	g := messagingGroupbuy()

	var validation *apperr.ValidationError
	if _, err := NewMessage(g, "mem1", "   ", ""); !errors.As(err, &validation) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	g := messagingGroupbuy()

	direct, _ := NewMessage(g, "mgr1", "for mem1", "mem1")
	broadcast, _ := NewMessage(g, "mem2", "for managers", "")
	otherDirect, _ := NewMessage(g, "mgr1", "for mem2", "mem2")
	msgs := []*models.Message{direct, broadcast, otherDirect}

	t.Run("member reads only their mail", func(t *testing.T) {
		if got := MarkAllRead(msgs, g, "mem1"); got != 1 {
			t.Errorf("count = %d, want 1", got)
		}
		if direct.Unread {
			t.Error("direct message still unread")
		}
		if !broadcast.Unread || !otherDirect.Unread {
			t.Error("messages for others were touched")
		}
	})

	t.Run("manager reads broadcasts", func(t *testing.T) {
		if got := MarkAllRead(msgs, g, "mgr2"); got != 1 {
			t.Errorf("count = %d, want 1", got)
		}
		if broadcast.Unread {
			t.Error("broadcast still unread")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		if got := MarkAllRead(msgs, g, "mem1"); got != 0 {
			t.Errorf("second pass count = %d, want 0", got)
		}
	})
}
