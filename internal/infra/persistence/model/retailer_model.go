// Package model contains the GORM persistence models mirroring the database
// schema. PostgreSQL generates UUIDs via uuid_generate_v7().
package model

import (
	"time"

	"github.com/google/uuid"
)

// RetailerModel mirrors the 'retailers' table. Name carries the unique
// constraint that makes create-if-absent race-safe at the storage layer.
type RetailerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(255);unique;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RetailerModel) TableName() string {
	return "retailers"
}
