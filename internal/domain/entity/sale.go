package entity

import (
	"time"

	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale records goods delivered to a customer
type Sale struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	ItemID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"item_id"`
	CustomerID uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id"`
	Quantity   int           `gorm:"not null" json:"quantity"`
	Rate       int64         `gorm:"not null" json:"rate"`  // Stored in cents
	Total      int64         `gorm:"not null" json:"total"` // Stored in cents
	Date       datetime.Date `gorm:"not null;index" json:"date"`
	CreatedBy  *uuid.UUID    `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relationships
	Item     *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"item,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}
