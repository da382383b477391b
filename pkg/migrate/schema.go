package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Apply creates or extends the tables backing every persisted model.
// Columns are never dropped.
func Apply(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
