package models

import (
	"time"

	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog groups inventory items owned by a supplier or a retail inventory.
type Catalog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name      string            `gorm:"column:name;not null"`
	Slug      string            `gorm:"column:slug;not null;uniqueIndex"`
	Image     *string           `gorm:"column:image"`
	Kind      enums.CatalogKind `gorm:"column:kind;type:text;not null;index"`
	Items     []InventoryItem   `gorm:"foreignKey:CatalogID"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Catalog) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
