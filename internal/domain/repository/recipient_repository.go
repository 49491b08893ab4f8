package repository

import (
	"context"
	"errors"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
)

// ErrRecipientNotFound is a domain-specific error returned when a recipient is not found.
var ErrRecipientNotFound = errors.New("recipient not found")

// RecipientRepository persists digest subscribers keyed by email.
type RecipientRepository interface {
	// Upsert creates the recipient or, when the email already exists,
	// overwrites name and preferences in place (last write wins).
	Upsert(ctx context.Context, recipient *entity.Recipient) error

	// FindByEmail retrieves a single recipient by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.Recipient, error)

	// ListAll returns every recipient, ordered by email for deterministic
	// send passes.
	ListAll(ctx context.Context) ([]*entity.Recipient, error)
}
