package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Suppliers and customers share one shape. Names are not unique; two
// parties may trade under the same name.

// Supplier is someone goods are purchased from.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Contact   *string   `gorm:"size:255" json:"contact,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer is someone goods are sold to.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Contact   *string   `gorm:"size:255" json:"contact,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *Supplier) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (Supplier) TableName() string { return "suppliers" }
func (Customer) TableName() string { return "customers" }
