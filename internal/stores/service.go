package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/ims-backend/internal/users"
	"github.com/angelmondragon/ims-backend/pkg/auth"
	"github.com/angelmondragon/ims-backend/pkg/db"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
)

const minPasswordLength = 8

type usersRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service exposes admin store management.
type Service interface {
	ListStores(ctx context.Context, actor auth.Context) ([]StoreDTO, error)
	CreateStore(ctx context.Context, actor auth.Context, input CreateStoreInput) (*StoreDTO, error)
}

type service struct {
	users  usersRepository
	hasher passwordHasher
}

// NewService builds a store service with the provided dependencies.
func NewService(usersRepo usersRepository, hasher passwordHasher) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &service{users: usersRepo, hasher: hasher}, nil
}

func (s *service) ListStores(ctx context.Context, actor auth.Context) ([]StoreDTO, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	rows, err := s.users.ListByRole(ctx, enums.RoleStoreManager)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}

	out := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) CreateStore(ctx context.Context, actor auth.Context, input CreateStoreInput) (*StoreDTO, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	email := users.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	case err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	storeName := strings.TrimSpace(input.StoreName)
	created, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         enums.RoleStoreManager,
		StoreName:    &storeName,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}

	dto := fromModel(*created)
	return &dto, nil
}

func validateCreate(input CreateStoreInput) error {
	switch {
	case strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	case strings.TrimSpace(input.StoreName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	case !strings.Contains(input.Email, "@"):
		return pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	case len(input.Password) < minPasswordLength:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}
