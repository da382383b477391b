package inventory

import (
	"time"

	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is the API projection of an inventory item.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	CatalogID   uuid.UUID       `json:"catalog_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Image       *string         `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CatalogDTO is a catalog with its items.
type CatalogDTO struct {
	ID    uuid.UUID         `json:"id"`
	Name  string            `json:"name"`
	Slug  string            `json:"slug"`
	Image *string           `json:"image,omitempty"`
	Kind  enums.CatalogKind `json:"kind"`
	Items []ItemDTO         `json:"items"`
}

// CreateItemInput captures a new product for a catalog.
type CreateItemInput struct {
	CatalogID   uuid.UUID       `json:"catalog_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       *string         `json:"image,omitempty" validate:"omitempty,url"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

// RestockInput adds units to an existing item.
type RestockInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func ItemFromModel(m *models.InventoryItem) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:          m.ID,
		CatalogID:   m.CatalogID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Image:       m.Image,
		Price:       m.Price,
		Quantity:    m.Quantity,
		UpdatedAt:   m.UpdatedAt,
	}
}

func itemsFromModels(rows []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ItemFromModel(&rows[i]))
	}
	return out
}

func catalogFromModel(m models.Catalog) CatalogDTO {
	return CatalogDTO{
		ID:    m.ID,
		Name:  m.Name,
		Slug:  m.Slug,
		Image: m.Image,
		Kind:  m.Kind,
		Items: itemsFromModels(m.Items),
	}
}
