// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRetailerNotFound is a domain-specific error returned when a retailer is not found.
var ErrRetailerNotFound = errors.New("retailer not found")

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// CatalogRepository resolves raw retailer and product names to stable
// identifiers, creating entities on first sight. The implementation must
// make create-if-absent atomic per natural key: two resolutions racing on
// the same new name yield exactly one created row, and the loser resolves
// to the winner's id.
type CatalogRepository interface {
	// ResolveRetailer returns the id for the retailer with the given name,
	// creating it if it does not exist yet.
	ResolveRetailer(ctx context.Context, name string) (uuid.UUID, error)

	// ResolveProduct returns the id for the product with the given
	// (name, size) natural key, creating it with the supplied category if
	// it does not exist yet. The stored category of an existing product is
	// not rewritten.
	ResolveProduct(ctx context.Context, name, size, category string) (uuid.UUID, error)
}
