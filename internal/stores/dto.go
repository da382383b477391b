package stores

import (
	"time"

	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/google/uuid"
)

// StoreDTO is a store manager account as exposed to admins.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreName string    `json:"store_name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStoreInput captures the admin form for onboarding a store.
type CreateStoreInput struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	StoreName string  `json:"store_name" validate:"required,max=150"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

func fromModel(u models.User) StoreDTO {
	dto := StoreDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
	if u.StoreName != nil {
		dto.StoreName = *u.StoreName
	}
	return dto
}
