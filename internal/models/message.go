package models

// Message is in-groupbuy mail. A manager writes to a specific member;
// a plain member writes to all managers (broadcast, empty ToUserID).
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string

	// GroupbuyID is the groupbuy the message belongs to.
	GroupbuyID string

	// FromUserID is the sender, always a member of the groupbuy.
	FromUserID string

	// ToUserID is the recipient. Empty means broadcast to all
	// managers.
	ToUserID string

	// Text is the message body, required non-empty.
	Text string

	// Unread is true until the recipient marks the message read.
	Unread bool

	// CreatedAt is the Unix timestamp when the message was sent.
	CreatedAt int64
}

// Broadcast reports whether the message is addressed to all managers.
func (m *Message) Broadcast() bool {
	return m.ToUserID == ""
}
