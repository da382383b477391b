package orders

import (
	"context"

	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for sales, sale items and invoices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSale(ctx context.Context, sale *models.Sale) error
	CreateSaleItems(ctx context.Context, items []models.SaleItem) error
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	FindSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSalesByUser(ctx context.Context, userID uuid.UUID) ([]models.Sale, error)
	UpdateSaleStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// InventoryStore decrements and reads stock inside the caller's transaction.
type InventoryStore interface {
	Decrement(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
	FindByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.InventoryItem, error)
}

// UserLookup resolves the ordering user inside the caller's transaction.
type UserLookup interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
