package orders

import (
	"time"

	"github.com/angelmondragon/ims-backend/internal/inventory"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one requested item in an order submission.
type CartLine struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

// PlaceOrderInput carries an order submission for a user.
type PlaceOrderInput struct {
	UserID        uuid.UUID
	Lines         []CartLine
	TotalAmount   decimal.Decimal
	PaymentMethod enums.PaymentMethod
}

// SaleDTO is the full projection of a sale with its invoice and items.
type SaleDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    enums.OrderStatus `json:"status"`
	Buyer     *BuyerDTO         `json:"buyer,omitempty"`
	Invoice   *InvoiceDTO       `json:"invoice,omitempty"`
	Items     []SaleItemDTO     `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BuyerDTO is the public summary of the user who placed a sale.
type BuyerDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      enums.Role `json:"role"`
	StoreName *string    `json:"store_name,omitempty"`
}

type SaleItemDTO struct {
	ID        uuid.UUID          `json:"id"`
	ItemID    uuid.UUID          `json:"item_id"`
	Quantity  int                `json:"quantity"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
	LineTotal decimal.Decimal    `json:"line_total"`
	Item      *inventory.ItemDTO `json:"item,omitempty"`
}

type InvoiceDTO struct {
	ID            uuid.UUID           `json:"id"`
	Amount        decimal.Decimal     `json:"amount"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

func saleFromModel(m *models.Sale) *SaleDTO {
	if m == nil {
		return nil
	}
	dto := &SaleDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    m.Status,
		Items:     make([]SaleItemDTO, 0, len(m.Items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ID:        item.ID,
			ItemID:    item.ItemID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			Item:      inventory.ItemFromModel(item.Item),
		})
	}
	if u := m.User; u != nil {
		dto.Buyer = &BuyerDTO{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
			StoreName: u.StoreName,
		}
	}
	if m.Invoice != nil {
		dto.Invoice = &InvoiceDTO{
			ID:            m.Invoice.ID,
			Amount:        m.Invoice.Amount,
			TotalAmount:   m.Invoice.TotalAmount,
			PaymentMethod: m.Invoice.PaymentMethod,
			CreatedAt:     m.Invoice.CreatedAt,
		}
	}
	return dto
}

func salesFromModels(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *saleFromModel(&rows[i]))
	}
	return out
}
