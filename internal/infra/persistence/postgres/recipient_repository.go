package postgres

import (
	"context"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recipientRepository implements the repository.RecipientRepository interface.
type recipientRepository struct {
	db *gorm.DB
}

// NewRecipientRepository is the constructor for recipientRepository.
func NewRecipientRepository(db *gorm.DB) repository.RecipientRepository {
	return &recipientRepository{
		db: db,
	}
}

// Upsert creates the recipient or overwrites name and preferences for an
// existing email (last write wins, unlike deals).
func (repo *recipientRepository) Upsert(ctx context.Context, recipient *entity.Recipient) error {
	recipientM := fromRecipientDomain(recipient)

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "preferred_retailers", "updated_at"}),
		}).
		Create(recipientM)

	if result.Error != nil {
		if isNotNullConstraintViolation(result.Error) {
			return domainerrors.ErrRecipientUpsertFailed.WrapMessage("missing required recipient information")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to upsert recipient")
	}

	recipient.ID = recipientM.ID
	recipient.CreatedAt = recipientM.CreatedAt
	recipient.UpdatedAt = recipientM.UpdatedAt

	return nil
}

// FindByEmail retrieves a single recipient by their email address.
func (repo *recipientRepository) FindByEmail(ctx context.Context, email string) (*entity.Recipient, error) {
	var recipientM model.RecipientModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&recipientM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRecipientNotFound
		}

		return nil, errors.Wrap(err, "failed to find recipient by email")
	}

	return toRecipientDomain(&recipientM), nil
}

// ListAll returns every recipient ordered by email so send passes visit
// recipients in a deterministic order.
func (repo *recipientRepository) ListAll(ctx context.Context) ([]*entity.Recipient, error) {
	var recipientModels []*model.RecipientModel

	if err := repo.db.WithContext(ctx).
		Order("email ASC").
		Find(&recipientModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recipients")
	}

	recipients := make([]*entity.Recipient, 0, len(recipientModels))
	for _, recipientM := range recipientModels {
		recipients = append(recipients, toRecipientDomain(recipientM))
	}

	return recipients, nil
}

// --- Mapper Functions ---

// toRecipientDomain converts a GORM RecipientModel to a domain Recipient entity.
func toRecipientDomain(data *model.RecipientModel) *entity.Recipient {
	if data == nil {
		return nil
	}

	return &entity.Recipient{
		ID:                 data.ID,
		Name:               data.Name,
		Email:              data.Email,
		PreferredRetailers: []string(data.PreferredRetailers),
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

// fromRecipientDomain converts a domain Recipient entity to a GORM RecipientModel.
func fromRecipientDomain(data *entity.Recipient) *model.RecipientModel {
	if data == nil {
		return nil
	}

	return &model.RecipientModel{
		ID:                 data.ID,
		Name:               data.Name,
		Email:              data.Email,
		PreferredRetailers: data.PreferredRetailers,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
