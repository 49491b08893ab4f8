package model

import (
	"time"

	"github.com/google/uuid"
)

// DealModel mirrors the 'deals' table. The composite unique index on
// (retailer_id, product_id, start_date) enforces the deduplication
// invariant in the database itself, so overlapping ingestion runs cannot
// insert the same deal twice.
type DealModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	RetailerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_deals_retailer_product_start"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_deals_retailer_product_start"`
	Price      float64   `gorm:"type:numeric(10,2);not null;check:price >= 0"`
	StartDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_deals_retailer_product_start"`
	EndDate    time.Time `gorm:"type:date;not null"`
	CreatedAt  time.Time

	Retailer *RetailerModel `gorm:"foreignKey:RetailerID"`
	Product  *ProductModel  `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (DealModel) TableName() string {
	return "deals"
}
