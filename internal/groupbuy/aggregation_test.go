package groupbuy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
)

func mustAddRequest(t *testing.T, o *models.Order, payload RequestPayload, actingUser string) *models.Request {
	t.Helper()
	req, err := AddRequest(o, payload, actingUser)
	if err != nil {
		t.Fatalf("AddRequest failed: %v", err)
	}
	return req
}

// threeRequestOrder builds the canonical fixture: three requests over
// three items, the last one a correction with negative quantities.
func threeRequestOrder(t *testing.T) *models.Order {
	t.Helper()
	o := &models.Order{ID: "o1", GroupbuyID: "g1", UserID: "alice"}
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{
		{ItemID: "item1", Quantity: 1},
		{ItemID: "item2", Quantity: 1},
	}}, "alice")
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{
		{ItemID: "item1", Quantity: 4},
		{ItemID: "item2", Quantity: 4},
		{ItemID: "item3", Quantity: 5},
	}}, "alice")
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{
		{ItemID: "item1", Quantity: -3},
		{ItemID: "item2", Quantity: -3},
		{ItemID: "item3", Quantity: -3},
	}}, "alice")
	return o
}

func TestCalculateSummaryNetsQuantities(t *testing.T) {
	o := threeRequestOrder(t)

	if len(o.Summary) != 0 {
		t.Fatalf("summary computed before explicit call: %v", o.Summary)
	}

	CalculateSummary(o)

	want := []models.SummaryLine{
		{ItemID: "item1", Quantity: 2},
		{ItemID: "item2", Quantity: 2},
		{ItemID: "item3", Quantity: 2},
	}
	if !reflect.DeepEqual(o.Summary, want) {
		t.Errorf("summary = %v, want %v", o.Summary, want)
	}

	// Idempotent: a second call yields the identical result.
	CalculateSummary(o)
	if !reflect.DeepEqual(o.Summary, want) {
		t.Errorf("second CalculateSummary changed result: %v", o.Summary)
	}
}

func TestRemoveRequestRecomputes(t *testing.T) {
	o := threeRequestOrder(t)
	CalculateSummary(o)

	RemoveRequest(o, o.Requests[1].ID)

	if len(o.Requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(o.Requests))
	}
	// Net quantities may go to zero or below; lines are kept, never
	// clamped and never dropped.
	want := []models.SummaryLine{
		{ItemID: "item1", Quantity: -2},
		{ItemID: "item2", Quantity: -2},
		{ItemID: "item3", Quantity: -3},
	}
	if !reflect.DeepEqual(o.Summary, want) {
		t.Errorf("summary = %v, want %v", o.Summary, want)
	}
}

func TestRemoveRequestZeroNetKept(t *testing.T) {
	o := &models.Order{ID: "o1", UserID: "alice"}
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{{ItemID: "item1", Quantity: 2}}}, "alice")
	r2 := mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{{ItemID: "item1", Quantity: 3}}}, "alice")
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{{ItemID: "item1", Quantity: -2}}}, "alice")
	CalculateSummary(o)

	RemoveRequest(o, r2.ID)

	want := []models.SummaryLine{{ItemID: "item1", Quantity: 0}}
	if !reflect.DeepEqual(o.Summary, want) {
		t.Errorf("summary = %v, want zero line kept", o.Summary)
	}
}

func TestRemoveRequestAbsentIsNoop(t *testing.T) {
	o := threeRequestOrder(t)
	CalculateSummary(o)
	before := append([]models.SummaryLine(nil), o.Summary...)

	RemoveRequest(o, "no-such-request")

	if len(o.Requests) != 3 {
		t.Errorf("requests = %d, want 3", len(o.Requests))
	}
	if !reflect.DeepEqual(o.Summary, before) {
		t.Errorf("summary changed on no-op removal: %v", o.Summary)
	}
}

func TestAddRequestLazySummary(t *testing.T) {
	o := &models.Order{ID: "o1", UserID: "alice"}

	// No summary yet: appends must not compute one.
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{{ItemID: "item1", Quantity: 1}}}, "alice")
	if len(o.Summary) != 0 {
		t.Fatalf("summary computed eagerly: %v", o.Summary)
	}

	CalculateSummary(o)

	// With a summary in place, appends recompute immediately.
	mustAddRequest(t, o, RequestPayload{Items: []models.RequestLine{{ItemID: "item1", Quantity: 2}}}, "alice")
	want := []models.SummaryLine{{ItemID: "item1", Quantity: 3}}
	if !reflect.DeepEqual(o.Summary, want) {
		t.Errorf("summary = %v, want %v", o.Summary, want)
	}
}

func TestAddRequestNeverMerges(t *testing.T) {
	o := &models.Order{ID: "o1", UserID: "alice"}
	payload := RequestPayload{Items: []models.RequestLine{{ItemID: "item1", Quantity: 1}}}

	mustAddRequest(t, o, payload, "alice")
	mustAddRequest(t, o, payload, "alice")

	if len(o.Requests) != 2 {
		t.Errorf("requests = %d, want 2 separate entries for duplicate payloads", len(o.Requests))
	}
	if o.Requests[0].ID == o.Requests[1].ID {
		t.Error("requests share an ID")
	}
}

func TestAddRequestUserResolution(t *testing.T) {
	tests := []struct {
		name        string
		payloadUser string
		actingUser  string
		want        string
	}{
		{"payload user wins", "bob", "carol", "bob"},
		{"acting user when payload omits", "", "carol", "carol"},
		{"order owner as last resort", "", "", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &models.Order{ID: "o1", UserID: "alice"}
			req := mustAddRequest(t, o, RequestPayload{
				UserID: tt.payloadUser,
				Items:  []models.RequestLine{{ItemID: "item1", Quantity: 1}},
			}, tt.actingUser)
			if req.UserID != tt.want {
				t.Errorf("request user = %q, want %q", req.UserID, tt.want)
			}
			if req.RequestDate == 0 {
				t.Error("request date not stamped")
			}
		})
	}
}

func TestAddRequestValidation(t *testing.T) {
	o := &models.Order{ID: "o1", UserID: "alice"}

	var validation *apperr.ValidationError
	if _, err := AddRequest(o, RequestPayload{}, "alice"); !errors.As(err, &validation) {
		t.Errorf("empty items: error = %v, want ValidationError", err)
	}
	if _, err := AddRequest(o, RequestPayload{Items: []models.RequestLine{{Quantity: 1}}}, "alice"); !errors.As(err, &validation) {
		t.Errorf("missing item reference: error = %v, want ValidationError", err)
	}
}

func TestCalculateTotals(t *testing.T) {
	o := threeRequestOrder(t)
	CalculateSummary(o)
	o.ShippingCost = 500
	o.OtherCosts = 150

	prices := map[string]models.Cents{"item1": 1000, "item2": 250, "item3": 75}
	if err := CalculateTotals(o, prices); err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}

	// 2×10.00 + 2×2.50 + 2×0.75 = 26.50
	if o.Subtotal != 2650 {
		t.Errorf("subtotal = %d, want 2650", o.Subtotal)
	}
	if o.Total != 3300 {
		t.Errorf("total = %d, want 3300", o.Total)
	}

	t.Run("missing price fails", func(t *testing.T) {
		var validation *apperr.ValidationError
		err := CalculateTotals(o, map[string]models.Cents{"item1": 1000})
		if !errors.As(err, &validation) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})
}
