package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Recipient represents one digest subscriber. Email is the natural key:
// re-ingesting a recipient with the same email overwrites name and
// preferences in place (last write wins), unlike deals.
type Recipient struct {
	ID                 uuid.UUID // The stable surrogate identifier.
	Name               string    // The recipient's display name used in the digest greeting.
	Email              string    // The recipient's address. Natural key.
	PreferredRetailers []string  // Retailer names this recipient cares about. Empty means all.
	CreatedAt          time.Time // Timestamp of first upsert.
	UpdatedAt          time.Time // Timestamp of the last upsert.
}

// WantsRetailer reports whether a deal from the named retailer is eligible
// for this recipient. An empty preference list means "no preference", which
// makes the recipient eligible for every deal.
func (r *Recipient) WantsRetailer(name string) bool {
	if len(r.PreferredRetailers) == 0 {
		return true
	}

	return slices.Contains(r.PreferredRetailers, name)
}
