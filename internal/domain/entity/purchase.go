package entity

import (
	"time"

	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase records goods received from a supplier
type Purchase struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	ItemID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"item_id"`
	SupplierID uuid.UUID     `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Quantity   int           `gorm:"not null" json:"quantity"`
	Rate       int64         `gorm:"not null" json:"rate"`  // Stored in cents
	Total      int64         `gorm:"not null" json:"total"` // Stored in cents
	Date       datetime.Date `gorm:"not null;index" json:"date"`
	CreatedBy  *uuid.UUID    `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relationships
	Item     *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"item,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
