package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/ims-backend/pkg/auth"
	"github.com/angelmondragon/ims-backend/pkg/db"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type inventoryRepository interface {
	ListCatalogs(ctx context.Context, kind *enums.CatalogKind) ([]models.Catalog, error)
	FindCatalogByID(ctx context.Context, id uuid.UUID) (*models.Catalog, error)
	ListAvailable(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindBySlug(ctx context.Context, slug string) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Increment(ctx context.Context, id uuid.UUID, qty int) error
}

// Service exposes catalog browsing and supplier stock management.
type Service interface {
	ListCatalogs(ctx context.Context, kind string) ([]CatalogDTO, error)
	ListAvailableItems(ctx context.Context) ([]ItemDTO, error)
	GetItemBySlug(ctx context.Context, slug string) (*ItemDTO, error)
	CreateItem(ctx context.Context, actor auth.Context, input CreateItemInput) (*ItemDTO, error)
	Restock(ctx context.Context, actor auth.Context, itemID uuid.UUID, qty int) (*ItemDTO, error)
}

type service struct {
	repo inventoryRepository
}

func NewService(repo inventoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCatalogs(ctx context.Context, kind string) ([]CatalogDTO, error) {
	var filter *enums.CatalogKind
	if kind = strings.ToUpper(strings.TrimSpace(kind)); kind != "" {
		parsed, err := enums.ParseCatalogKind(kind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog kind")
		}
		filter = &parsed
	}

	rows, err := s.repo.ListCatalogs(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalogs")
	}
	out := make([]CatalogDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalogFromModel(row))
	}
	return out, nil
}

func (s *service) ListAvailableItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return itemsFromModels(rows), nil
}

func (s *service) GetItemBySlug(ctx context.Context, itemSlug string) (*ItemDTO, error) {
	itemSlug = strings.TrimSpace(itemSlug)
	if itemSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	row, err := s.repo.FindBySlug(ctx, itemSlug)
	if err != nil {
		return nil, wrapLookup(err, "get item")
	}
	return ItemFromModel(row), nil
}

func (s *service) CreateItem(ctx context.Context, actor auth.Context, input CreateItemInput) (*ItemDTO, error) {
	if err := authorizeCatalog(actor, input.CatalogID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case !input.Price.IsPositive():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	case input.Quantity < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}

	if _, err := s.repo.FindCatalogByID(ctx, input.CatalogID); err != nil {
		return nil, wrapLookup(err, "load catalog")
	}

	item := &models.InventoryItem{
		ID:          uuid.New(),
		CatalogID:   input.CatalogID,
		Name:        name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price.Round(2),
		Quantity:    input.Quantity,
	}
	item.Slug = itemSlug(name, item.ID)

	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return ItemFromModel(item), nil
}

func (s *service) Restock(ctx context.Context, actor auth.Context, itemID uuid.UUID, qty int) (*ItemDTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, wrapLookup(err, "load item")
	}
	if err := authorizeCatalog(actor, item.CatalogID); err != nil {
		return nil, err
	}

	if err := s.repo.Increment(ctx, itemID, qty); err != nil {
		return nil, wrapLookup(err, "restock item")
	}
	updated, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, wrapLookup(err, "reload item")
	}
	return ItemFromModel(updated), nil
}

// authorizeCatalog allows admins anywhere and supplier staff only on their own catalog.
func authorizeCatalog(actor auth.Context, catalogID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != enums.RoleStaff {
		return pkgerrors.New(pkgerrors.CodeForbidden, "supplier staff role required")
	}
	if actor.CatalogID == nil || *actor.CatalogID != catalogID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "catalog belongs to another supplier")
	}
	return nil
}

func itemSlug(name string, id uuid.UUID) string {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}
	return base + "-" + strings.SplitN(id.String(), "-", 2)[0]
}

func wrapLookup(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
