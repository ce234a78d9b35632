package groupbuy

import (
	"time"

	"github.com/google/uuid"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
)

// RequestPayload is the input for appending a request to an order.
// UserID is optional; resolution order is payload user, then the acting
// user, then the order owner.
type RequestPayload struct {
	UserID string               `json:"userId"`
	Items  []models.RequestLine `json:"items"`
}

// AddRequest appends a new request to o and returns it. Every call
// creates a new entry; duplicate items or users are never merged into
// an existing request. If the order already carries a computed summary
// the summary is recomputed immediately; if no summary exists yet it
// stays empty until an explicit CalculateSummary call, so callers may
// batch several AddRequests before computing.
func AddRequest(o *models.Order, payload RequestPayload, actingUserID string) (*models.Request, error) {
	if len(payload.Items) == 0 {
		return nil, apperr.Validation("items", "at least one item required")
	}
	for _, line := range payload.Items {
		if line.ItemID == "" {
			return nil, apperr.Validation("items", "item reference required")
		}
	}

	userID := payload.UserID
	if userID == "" {
		userID = actingUserID
	}
	if userID == "" {
		userID = o.UserID
	}

	req := models.Request{
		ID:          uuid.New().String(),
		UserID:      userID,
		RequestDate: time.Now().Unix(),
		Items:       append([]models.RequestLine(nil), payload.Items...),
	}
	o.Requests = append(o.Requests, req)

	if len(o.Summary) > 0 {
		CalculateSummary(o)
	}
	o.UpdatedAt = time.Now().Unix()
	return &o.Requests[len(o.Requests)-1], nil
}

// RemoveRequest deletes the request with the given id from o, a no-op
// when absent. A previously computed summary is recomputed; quantities
// may legitimately go to zero or below (correcting requests) and are
// not clamped.
func RemoveRequest(o *models.Order, requestID string) {
	kept := o.Requests[:0]
	removed := false
	for _, req := range o.Requests {
		if req.ID == requestID {
			removed = true
			continue
		}
		kept = append(kept, req)
	}
	o.Requests = kept
	if !removed {
		return
	}
	if len(o.Summary) > 0 {
		CalculateSummary(o)
	}
	o.UpdatedAt = time.Now().Unix()
}

// CalculateSummary rebuilds o.Summary from scratch as the per-item sum
// of quantities across all current requests, replacing any prior
// summary entirely. Items appear in first-occurrence order across
// requests in insertion order. Calling it twice in a row yields the
// same result.
func CalculateSummary(o *models.Order) {
	totals := make(map[string]int64)
	var order []string
	for _, req := range o.Requests {
		for _, line := range req.Items {
			if _, seen := totals[line.ItemID]; !seen {
				order = append(order, line.ItemID)
			}
			totals[line.ItemID] += line.Quantity
		}
	}

	summary := make([]models.SummaryLine, 0, len(order))
	for _, itemID := range order {
		summary = append(summary, models.SummaryLine{ItemID: itemID, Quantity: totals[itemID]})
	}
	o.Summary = summary
}

// CalculateTotals recomputes o's monetary fields from the summary and
// the given unit prices: subtotal is the sum of net quantity times
// price per summary line (negative nets subtract), total is subtotal
// plus shipping and other costs. This is deliberately a separate call
// from CalculateSummary; neither AddRequest nor RemoveRequest touches
// money. Summary lines whose item has no known price fail validation.
func CalculateTotals(o *models.Order, prices map[string]models.Cents) error {
	var subtotal models.Cents
	for _, line := range o.Summary {
		price, ok := prices[line.ItemID]
		if !ok {
			return apperr.Validation("items", "no price for item "+line.ItemID)
		}
		subtotal += price * models.Cents(line.Quantity)
	}
	o.Subtotal = subtotal
	o.Total = subtotal + o.ShippingCost + o.OtherCosts
	return nil
}
