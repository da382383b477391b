package models

import (
	"time"

	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email            string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	FirstName        string     `gorm:"column:first_name;not null"`
	LastName         string     `gorm:"column:last_name;not null"`
	Phone            *string    `gorm:"column:phone"`
	Role             enums.Role `gorm:"column:role;type:text;not null;default:CUSTOMER"`
	StoreName        *string    `gorm:"column:store_name"`
	CompanyName      *string    `gorm:"column:company_name"`
	CatalogID        *uuid.UUID `gorm:"column:catalog_id;type:uuid"`
	HasResetPassword bool       `gorm:"column:has_reset_password;not null;default:false"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
