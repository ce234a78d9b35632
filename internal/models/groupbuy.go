package models

// Groupbuy represents a coordinated group purchase.
//
// Managers and Members are ordered sets of user IDs. Every manager is
// also a member; internal/groupbuy enforces the invariant on every
// mutation. A groupbuy is never hard-deleted: the "closed" and
// "cancelled" statuses act as logical deletion.
type Groupbuy struct {
	// ID is the unique identifier for the groupbuy (UUID format).
	ID string

	// Title is the display name of the groupbuy.
	Title string

	// Description is free-form text shown to visitors.
	Description string

	// Status is the current lifecycle state. Transitions go through
	// the state machine in internal/groupbuy, never by assignment.
	Status string

	// Managers is the ordered set of user IDs with administrative
	// rights over this groupbuy. Non-empty while the groupbuy lives.
	Managers []string

	// Members is the set of user IDs who joined. Superset of Managers.
	Members []string

	// Visibility maps a field name to "public", "restricted" or
	// "private". Unset fields fall back to per-field defaults.
	Visibility map[string]string

	// Updates is the manager-authored announcement log, append-only,
	// shown only to members.
	Updates []Update

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Update is one entry in a groupbuy's announcement log.
type Update struct {
	// PublishDate is the Unix timestamp the entry was posted.
	PublishDate int64 `json:"publishDate"`

	// TextInfo is the announcement body.
	TextInfo string `json:"textInfo"`
}

// IsManager reports whether userID is in the manager set.
func (g *Groupbuy) IsManager(userID string) bool {
	for _, id := range g.Managers {
		if id == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether userID is in the member set.
func (g *Groupbuy) IsMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}
