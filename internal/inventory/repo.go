package inventory

import (
	"context"
	"time"

	"github.com/angelmondragon/ims-backend/internal/repo"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catalogs and inventory items.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository that runs on the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.Bind(tx)}
}

// ListCatalogs returns catalogs with their items, optionally filtered by kind.
func (r *Repository) ListCatalogs(ctx context.Context, kind *enums.CatalogKind) ([]models.Catalog, error) {
	q := r.base.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC").Order("id ASC")
		}).
		Order("name ASC").
		Order("id ASC")
	if kind != nil {
		q = q.Where("kind = ?", *kind)
	}

	var rows []models.Catalog
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCatalogByID loads a catalog without its items.
func (r *Repository) FindCatalogByID(ctx context.Context, id uuid.UUID) (*models.Catalog, error) {
	var row models.Catalog
	if err := r.base.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, repo.NotFound(err, "catalog not found")
	}
	return &row, nil
}

// ListAvailable returns every item with stock on hand.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.base.DB(ctx).
		Where("quantity > 0").
		Order("name ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var row models.InventoryItem
	if err := r.base.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, repo.NotFound(err, "inventory item not found")
	}
	return &row, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.InventoryItem, error) {
	var row models.InventoryItem
	if err := r.base.DB(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return nil, repo.NotFound(err, "inventory item not found")
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.base.DB(ctx).Create(item).Error
}

// Increment adds qty units to the item.
func (r *Repository) Increment(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.base.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return nil
}

// Decrement removes qty units only when at least qty are on hand. The check
// and the write are one statement; a missing item yields NOT_FOUND and a short
// one INSUFFICIENT_STOCK with the observed quantity.
func (r *Repository) Decrement(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.base.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	item, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
		"item_id":   id.String(),
		"requested": qty,
		"available": item.Quantity,
	})
}
