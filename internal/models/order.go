package models

// Order is the per-(groupbuy, user) aggregate of requests plus the
// derived summary and monetary totals. Orders are created lazily on a
// member's first request; uniqueness per (groupbuy, user) is a service
// convention, not a hard constraint.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// GroupbuyID is the owning groupbuy.
	GroupbuyID string

	// UserID is the order owner.
	UserID string

	// Requests is the ordered list of submitted requests. A request is
	// immutable once appended except for whole-request removal.
	Requests []Request

	// Summary is the derived net quantity per item across all current
	// requests, in first-seen item order. Rebuilt by the aggregation
	// engine, never hand-edited. Quantities may be negative
	// (corrections) and are not clamped here.
	Summary []SummaryLine

	// Monetary fields in minor units (cents).
	Subtotal     Cents
	ShippingCost Cents
	OtherCosts   Cents
	Total        Cents

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Request is one member's submitted set of (item, quantity) lines.
type Request struct {
	// ID is the unique identifier for the request (UUID format).
	ID string `json:"id"`

	// UserID is the requesting user. Resolved at append time:
	// payload user, else acting user, else the order owner.
	UserID string `json:"userId"`

	// RequestDate is the Unix timestamp the request was appended.
	RequestDate int64 `json:"requestDate"`

	// Items are the requested (item, quantity) lines. Quantities may
	// be negative to correct earlier requests.
	Items []RequestLine `json:"items"`
}

// RequestLine is a single (item, quantity) pair on a request.
type RequestLine struct {
	ItemID   string `json:"itemId"`
	Quantity int64  `json:"quantity"`
}

// SummaryLine is the net quantity for one item across an order's
// requests.
type SummaryLine struct {
	ItemID   string `json:"itemId"`
	Quantity int64  `json:"quantity"`
}
