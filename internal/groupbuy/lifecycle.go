package groupbuy

import (
	"time"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/roles"
)

// Groupbuy lifecycle statuses. The happy path is totally ordered:
// new → published → acceptance → payments → paid → shipments → closed.
// "cancelled" branches off from acceptance, payments, paid or
// shipments. Both "closed" and "cancelled" are terminal, except that an
// admin may restore a cancelled groupbuy back to published.
const (
	StatusNew        = "new"
	StatusPublished  = "published"
	StatusAcceptance = "acceptance"
	StatusPayments   = "payments"
	StatusPaid       = "paid"
	StatusShipments  = "shipments"
	StatusClosed     = "closed"
	StatusCancelled  = "cancelled"
)

// forward maps each status to its single legal successor on the happy
// path. Terminal statuses have no entry.
var forward = map[string]string{
	StatusNew:        StatusPublished,
	StatusPublished:  StatusAcceptance,
	StatusAcceptance: StatusPayments,
	StatusPayments:   StatusPaid,
	StatusPaid:       StatusShipments,
	StatusShipments:  StatusClosed,
}

// source maps each non-initial happy-path status to its single legal
// source, derived from forward.
var source = func() map[string]string {
	m := make(map[string]string, len(forward))
	for from, to := range forward {
		m[to] = from
	}
	return m
}()

// cancellableFrom lists the statuses a groupbuy can be cancelled from.
var cancellableFrom = map[string]bool{
	StatusAcceptance: true,
	StatusPayments:   true,
	StatusPaid:       true,
	StatusShipments:  true,
}

// ValidStatus reports whether s names a lifecycle status.
func ValidStatus(s string) bool {
	if s == StatusNew || s == StatusCancelled {
		return true
	}
	_, ok := source[s]
	return ok
}

// NextStatus returns the single legal forward status from s, used by
// callers to render the next allowed action. ok is false when s is
// terminal or unknown.
func NextStatus(s string) (next string, ok bool) {
	next, ok = forward[s]
	return next, ok
}

// GoTo moves g to target on behalf of an actor with the given role.
//
// Forward transitions and cancellation require a manager or admin;
// restoring a cancelled groupbuy to published requires an admin. On any
// status mismatch the returned InvalidStateTransitionError names the
// one valid source status. On success only the status and updated
// timestamp change; items and orders are untouched.
func GoTo(g *models.Groupbuy, target string, role roles.Role) error {
	if !ValidStatus(target) {
		return apperr.Validation("status", "unknown status: "+target)
	}
	if target == StatusNew {
		// Nothing transitions back to new.
		return &apperr.InvalidStateTransitionError{Current: g.Status, Target: target}
	}

	if target == StatusCancelled {
		if !role.AtLeastManager() {
			return apperr.ErrNotAuthorized
		}
		if !cancellableFrom[g.Status] {
			return &apperr.InvalidStateTransitionError{Current: g.Status, Target: target}
		}
		return apply(g, target)
	}

	// Admin-only restore path: cancelled → published.
	if g.Status == StatusCancelled && target == StatusPublished {
		if role != roles.Admin {
			return apperr.ErrNotAuthorized
		}
		return apply(g, target)
	}

	if !role.AtLeastManager() {
		return apperr.ErrNotAuthorized
	}
	if from := source[target]; g.Status != from {
		return &apperr.InvalidStateTransitionError{Current: g.Status, Target: target, ValidSource: from}
	}
	return apply(g, target)
}

func apply(g *models.Groupbuy, target string) error {
	g.Status = target
	g.UpdatedAt = time.Now().Unix()
	return nil
}
