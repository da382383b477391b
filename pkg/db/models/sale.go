package models

import (
	"time"

	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a placed order.
type Sale struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:idx_sales_user_created,priority:1"`
	User      *User             `gorm:"foreignKey:UserID"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:PENDING"`
	Items     []SaleItem        `gorm:"foreignKey:SaleID"`
	Invoice   *Invoice          `gorm:"foreignKey:SaleID"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_sales_user_created,priority:2"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// SaleItem is an immutable order line.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index"`
	Item      *InventoryItem  `gorm:"foreignKey:ItemID"`
	LineNo    int             `gorm:"column:line_no;not null"`
	Quantity  int             `gorm:"column:quantity;not null;check:chk_sale_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (s *SaleItem) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Invoice records the payment for a sale. Exactly one exists per sale.
type Invoice struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	SaleID        uuid.UUID           `gorm:"column:sale_id;type:uuid;not null;uniqueIndex"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
