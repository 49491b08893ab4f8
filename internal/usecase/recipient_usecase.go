package usecase

import (
	"context"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
)

// RecipientUsecase defines the interface for recipient management
type RecipientUsecase interface {
	// UpsertRecipient creates the recipient or replaces name and
	// preferences for an existing email (last write wins).
	UpsertRecipient(ctx context.Context, name, email string, preferredRetailers []string) (*entity.Recipient, error)

	// ListRecipients returns every recipient ordered by email.
	ListRecipients(ctx context.Context) ([]*entity.Recipient, error)
}
