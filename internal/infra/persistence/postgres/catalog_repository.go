// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogRepository implements the repository.CatalogRepository interface.
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository is the constructor for catalogRepository.
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

// ResolveRetailer looks the retailer up by name and creates it on first
// sight. Creation uses INSERT ... ON CONFLICT DO NOTHING so that two
// resolutions racing on the same new name still yield exactly one row; the
// loser re-reads and returns the winner's id.
func (repo *catalogRepository) ResolveRetailer(ctx context.Context, name string) (uuid.UUID, error) {
	var retailerM model.RetailerModel

	err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&retailerM).Error
	if err == nil {
		return retailerM.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, errors.Wrap(err, "failed to find retailer by name")
	}

	retailerM = model.RetailerModel{Name: name}
	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&retailerM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repo.findRetailerID(ctx, name)
		}

		return uuid.Nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to create retailer")
	}

	// Zero rows affected means another resolver won the insert race.
	if result.RowsAffected == 0 {
		return repo.findRetailerID(ctx, name)
	}

	return retailerM.ID, nil
}

// ResolveProduct looks the product up by its (name, size) natural key and
// creates it with the supplied category on first sight. An existing
// product's stored category is left untouched.
func (repo *catalogRepository) ResolveProduct(ctx context.Context, name, size, category string) (uuid.UUID, error) {
	var productM model.ProductModel

	err := repo.db.WithContext(ctx).
		Where("name = ? AND size = ?", name, size).
		First(&productM).Error
	if err == nil {
		return productM.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, errors.Wrap(err, "failed to find product by name and size")
	}

	productM = model.ProductModel{Name: name, Size: size, Category: category}
	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "size"}},
			DoNothing: true,
		}).
		Create(&productM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repo.findProductID(ctx, name, size)
		}

		return uuid.Nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to create product")
	}

	if result.RowsAffected == 0 {
		return repo.findProductID(ctx, name, size)
	}

	return productM.ID, nil
}

func (repo *catalogRepository) findRetailerID(ctx context.Context, name string) (uuid.UUID, error) {
	var retailerM model.RetailerModel

	if err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&retailerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, repository.ErrRetailerNotFound
		}

		return uuid.Nil, errors.Wrap(err, "failed to re-read retailer after insert race")
	}

	return retailerM.ID, nil
}

func (repo *catalogRepository) findProductID(ctx context.Context, name, size string) (uuid.UUID, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("name = ? AND size = ?", name, size).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, repository.ErrProductNotFound
		}

		return uuid.Nil, errors.Wrap(err, "failed to re-read product after insert race")
	}

	return productM.ID, nil
}
