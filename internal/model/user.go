package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a cashier/supervisor account. Credentials and sessions are handled
// by the auth collaborator; the core only records user identity on movements.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	FirstName   string     `gorm:"not null" json:"first_name"`
	LastName    string     `gorm:"not null" json:"last_name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber *string    `json:"phone_number"`
	StoreID     *uuid.UUID `gorm:"type:uuid;index" json:"store_id"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
