package orders

import (
	"context"

	"github.com/angelmondragon/ims-backend/internal/inventory"
	"github.com/angelmondragon/ims-backend/internal/users"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type inventoryStore struct {
	repo *inventory.Repository
}

// NewInventoryStore binds the inventory repository to order transactions.
func NewInventoryStore(repo *inventory.Repository) InventoryStore {
	return inventoryStore{repo: repo}
}

func (s inventoryStore) Decrement(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error {
	return s.repo.WithTx(tx).Decrement(ctx, itemID, qty)
}

func (s inventoryStore) FindByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.InventoryItem, error) {
	return s.repo.WithTx(tx).FindByID(ctx, itemID)
}

type userLookup struct {
	repo *users.Repository
}

// NewUserLookup binds the users repository to order transactions.
func NewUserLookup(repo *users.Repository) UserLookup {
	return userLookup{repo: repo}
}

func (l userLookup) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	return l.repo.WithTx(tx).FindByID(ctx, id)
}
