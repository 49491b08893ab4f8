package impl

import (
	"context"
	"strings"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase"

	"github.com/go-playground/validator/v10"
)

type recipientService struct {
	recipientRepo repository.RecipientRepository
	validate      *validator.Validate
}

// NewRecipientService creates a new recipient management service instance
func NewRecipientService(recipientRepo repository.RecipientRepository) usecase.RecipientUsecase {
	return &recipientService{
		recipientRepo: recipientRepo,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

type recipientInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// UpsertRecipient creates the recipient or replaces name and preferences
// for an existing email.
func (s *recipientService) UpsertRecipient(ctx context.Context, name, email string, preferredRetailers []string) (*entity.Recipient, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if err := s.validate.Struct(&recipientInput{Name: name, Email: email}); err != nil {
		return nil, domainerrors.ErrRecipientUpsertFailed.Wrap(err)
	}

	// Blank preference entries would never match a retailer name; drop them.
	cleaned := make([]string, 0, len(preferredRetailers))
	for _, retailer := range preferredRetailers {
		if retailer = strings.TrimSpace(retailer); retailer != "" {
			cleaned = append(cleaned, retailer)
		}
	}

	recipient := &entity.Recipient{
		Name:               name,
		Email:              email,
		PreferredRetailers: cleaned,
	}
	if err := s.recipientRepo.Upsert(ctx, recipient); err != nil {
		return nil, err
	}

	return recipient, nil
}

// ListRecipients returns every recipient ordered by email.
func (s *recipientService) ListRecipients(ctx context.Context) ([]*entity.Recipient, error) {
	return s.recipientRepo.ListAll(ctx)
}
