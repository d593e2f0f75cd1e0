package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is a physical retail location. Owned by the settings collaborator;
// the ledger core references it read-only.
type Store struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"store_id"`
	StoreName   string    `gorm:"uniqueIndex;not null" json:"store_name"`
	Address     string    `gorm:"not null" json:"address"`
	PhoneNumber *string   `json:"phone_number"`
	Email       *string   `json:"email"`
	City        *string   `json:"city"`
	Province    *string   `json:"province"`
	PostalCode  *string   `json:"postal_code"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Store) TableName() string { return "stores" }
