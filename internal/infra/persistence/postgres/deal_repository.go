package postgres

import (
	"context"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dealRepository implements the repository.DealRepository interface.
type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository is the constructor for dealRepository.
func NewDealRepository(db *gorm.DB) repository.DealRepository {
	return &dealRepository{
		db: db,
	}
}

// PutDeal inserts the deal under the (retailer_id, product_id, start_date)
// uniqueness constraint. The constraint lives in the database, not in a
// read-then-write check, so a duplicate arriving from a concurrent run is
// still reported as PutDuplicate rather than raised as an error.
func (repo *dealRepository) PutDeal(ctx context.Context, deal *entity.Deal) (repository.PutOutcome, error) {
	dealM := fromDealDomain(deal)

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "retailer_id"}, {Name: "product_id"}, {Name: "start_date"}},
			DoNothing: true,
		}).
		Create(dealM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.PutDuplicate, nil
		}
		if isForeignKeyConstraintViolation(result.Error) {
			return repository.PutInserted, domainerrors.NewDatabaseExecuteError(result.Error, "deal references unknown retailer or product")
		}

		return repository.PutInserted, domainerrors.NewDatabaseExecuteError(result.Error, "failed to insert deal")
	}

	// Zero rows affected means the key tuple already exists: first write
	// wins and the stored row stays untouched.
	if result.RowsAffected == 0 {
		return repository.PutDuplicate, nil
	}

	deal.ID = dealM.ID
	deal.CreatedAt = dealM.CreatedAt

	return repository.PutInserted, nil
}

// activeDealRow is the flat scan target for the active-deals join.
type activeDealRow struct {
	RetailerName string
	ProductName  string
	Size         string
	Category     string
	Price        float64
	StartDate    time.Time
	EndDate      time.Time
}

// ListActiveDeals returns every deal whose window has not ended as of the
// given date, joined with retailer and product, ordered by price ascending.
// The ORDER BY here is the ordering contract consumers rely on; nothing
// downstream re-sorts.
func (repo *dealRepository) ListActiveDeals(ctx context.Context, asOf time.Time) ([]entity.DealView, error) {
	var rows []activeDealRow

	query := `
		SELECT r.name AS retailer_name,
		       p.name AS product_name,
		       p.size,
		       p.category,
		       d.price,
		       d.start_date,
		       d.end_date
		FROM deals d
		JOIN retailers r ON r.id = d.retailer_id
		JOIN products p ON p.id = d.product_id
		WHERE d.end_date >= ?
		ORDER BY d.price ASC
	`

	if err := repo.db.WithContext(ctx).
		Raw(query, asOf).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active deals")
	}

	views := make([]entity.DealView, 0, len(rows))
	for _, row := range rows {
		views = append(views, entity.DealView{
			RetailerName: row.RetailerName,
			ProductName:  row.ProductName,
			Size:         row.Size,
			Category:     row.Category,
			Price:        row.Price,
			StartDate:    row.StartDate,
			EndDate:      row.EndDate,
		})
	}

	return views, nil
}

// --- Mapper Functions ---

// fromDealDomain converts a domain Deal entity to a GORM DealModel for persistence.
func fromDealDomain(data *entity.Deal) *model.DealModel {
	if data == nil {
		return nil
	}

	return &model.DealModel{
		ID:         data.ID,
		RetailerID: data.RetailerID,
		ProductID:  data.ProductID,
		Price:      data.Price,
		StartDate:  data.StartDate,
		EndDate:    data.EndDate,
	}
}
