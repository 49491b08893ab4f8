// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Retailer represents one store chain whose weekly circular feeds the pipeline.
// Name is the natural key; the ID is a stable surrogate assigned on first
// resolution and never reassigned afterwards.
type Retailer struct {
	ID        uuid.UUID // The stable surrogate identifier assigned on first sight.
	Name      string    // The retailer's display name, e.g. "Smart & Final". Natural key.
	CreatedAt time.Time // Timestamp of when this retailer was first resolved.
}
