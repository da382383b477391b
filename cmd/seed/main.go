package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/ims-backend/internal/users"
	"github.com/angelmondragon/ims-backend/pkg/auth"
	"github.com/angelmondragon/ims-backend/pkg/config"
	"github.com/angelmondragon/ims-backend/pkg/db"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/angelmondragon/ims-backend/pkg/env"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
	"github.com/angelmondragon/ims-backend/pkg/logger"
	"github.com/angelmondragon/ims-backend/pkg/migrate"
	"github.com/angelmondragon/ims-backend/pkg/security"
)

const seedQuantity = 100

type seedUser struct {
	email     string
	firstName string
	lastName  string
	role      enums.Role
	storeName *string
}

var supplierItems = []struct {
	name  string
	price string
}{
	{name: "Arabica Coffee Beans 1kg", price: "18.50"},
	{name: "Oat Milk 1L", price: "2.75"},
	{name: "Paper Cups 12oz (50)", price: "6.20"},
	{name: "Cane Sugar Sticks (200)", price: "4.10"},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production environment", errors.New("seed disabled in production"))
		os.Exit(1)
	}

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	if err := migrate.Apply(ctx, client.DB()); err != nil {
		return err
	}

	password := env.String("IMS_SEED_PASSWORD", "")
	if password == "" {
		if password, err = security.GenerateTempPassword(16); err != nil {
			return err
		}
		fmt.Printf("generated seed password: %s\n", password)
	}
	hash, err := security.NewHasher(cfg.Password).Hash(password)
	if err != nil {
		return err
	}

	var catalog *models.Catalog
	seeded := make([]*models.User, 0, 3)
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		catalog, err = seedCatalog(ctx, tx)
		if err != nil {
			return err
		}

		storeName := "Corner Cafe"
		people := []seedUser{
			{email: "admin@ims.local", firstName: "Ada", lastName: "Admin", role: enums.RoleAdmin},
			{email: "staff@ims.local", firstName: "Sam", lastName: "Supplier", role: enums.RoleStaff},
			{email: "store@ims.local", firstName: "Sol", lastName: "Store", role: enums.RoleStoreManager, storeName: &storeName},
		}
		repo := users.NewRepository(tx)
		for _, p := range people {
			user, err := ensureUser(ctx, repo, p, hash, catalog.ID)
			if err != nil {
				return err
			}
			seeded = append(seeded, user)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logg.Info(logg.WithField(ctx, "catalog_id", catalog.ID.String()), "seed complete")
	for _, u := range seeded {
		token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
			UserID:    u.ID,
			Role:      u.Role,
			CatalogID: u.CatalogID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%-16s %-22s %s\n", u.Role, u.Email, token)
	}
	return nil
}

func seedCatalog(ctx context.Context, tx *gorm.DB) (*models.Catalog, error) {
	const name = "House Supplier"
	catalog := models.Catalog{}
	err := tx.WithContext(ctx).
		Where(models.Catalog{Slug: slug.Make(name)}).
		Attrs(models.Catalog{Name: name, Kind: enums.CatalogKindSupplier}).
		FirstOrCreate(&catalog).Error
	if err != nil {
		return nil, err
	}

	for _, item := range supplierItems {
		row := models.InventoryItem{}
		err := tx.WithContext(ctx).
			Where(models.InventoryItem{Slug: slug.Make(item.name)}).
			Attrs(models.InventoryItem{
				CatalogID: catalog.ID,
				Name:      item.name,
				Price:     decimal.RequireFromString(item.price),
			}).
			Assign(models.InventoryItem{Quantity: seedQuantity}).
			FirstOrCreate(&row).Error
		if err != nil {
			return nil, err
		}
	}
	return &catalog, nil
}

func ensureUser(ctx context.Context, repo *users.Repository, p seedUser, hash string, catalogID uuid.UUID) (*models.User, error) {
	existing, err := repo.FindByEmail(ctx, p.email)
	if err == nil {
		return existing, nil
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	dto := users.CreateUserDTO{
		Email:        p.email,
		PasswordHash: hash,
		FirstName:    p.firstName,
		LastName:     p.lastName,
		Role:         p.role,
		StoreName:    p.storeName,
	}
	if p.role == enums.RoleStaff {
		dto.CatalogID = &catalogID
	}
	return repo.Create(ctx, dto)
}
