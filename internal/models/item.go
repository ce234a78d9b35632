package models

// Item represents a purchasable entry inside one groupbuy.
// The groupbuy reference is immutable after creation and the title is
// unique within the groupbuy.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// GroupbuyID is the owning groupbuy. Set once, never changed.
	GroupbuyID string

	// OwnerID is the user who created the item.
	OwnerID string

	// Title is the item name, unique within the groupbuy.
	Title string

	// Price is the unit price in minor units (cents).
	Price Cents

	// Currency is an opaque ISO 4217 code resolved by the currency
	// catalog for display only.
	Currency string

	// MaxQuantity caps the orderable quantity. Zero means no cap.
	MaxQuantity int64

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64
}
