package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. The natural key (name, size)
// carries a composite unique index: the same name in a different size is a
// distinct product.
type ProductModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_name_size"`
	Size      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_products_name_size"`
	Category  string    `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
