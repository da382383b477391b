package orders

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

type repository struct {
	base repo.Base
}

// NewRepository binds the orders repository to a GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.Bind(tx)}
}

func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.base.DB(ctx).Omit("Items", "Invoice").Create(sale).Error
}

func (r *repository) CreateSaleItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.base.DB(ctx).Omit("Item").Create(&items).Error
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.base.DB(ctx).Create(invoice).Error
}

func (r *repository) FindSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.withDetail(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, repo.NotFound(err, "order not found")
	}
	return &sale, nil
}

func (r *repository) ListSalesByUser(ctx context.Context, userID uuid.UUID) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.withDetail(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateSaleStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	res := r.base.DB(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (r *repository) withDetail(ctx context.Context) *gorm.DB {
	return r.base.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Preload("Items.Item").
		Preload("Invoice").
		Preload("User")
}
