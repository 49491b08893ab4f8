package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RecipientModel mirrors the 'recipients' table. Email is the natural key;
// upserts by email overwrite name and preferences in place.
type RecipientModel struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name               string         `gorm:"type:varchar(100)"`
	Email              string         `gorm:"type:varchar(255);unique;not null"`
	PreferredRetailers pq.StringArray `gorm:"type:text[]"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (RecipientModel) TableName() string {
	return "recipients"
}
