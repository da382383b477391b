//go:build integration

package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/ims-backend/internal/repo/repotest"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
)

func TestPostgresConcurrentBuyersDrainStockExactly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := newFixtureOn(t, repotest.OpenPostgres(t))
	const (
		stock   = 5
		buyers  = 12
		perLine = 1
	)
	itemID := f.addItem(t, stock, "2.50")

	var (
		wg   sync.WaitGroup
		errs = make([]error, buyers)
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(context.Background(), customer(f.user),
				f.order([]CartLine{{ItemID: itemID, Quantity: perLine}}, "2.50", enums.PaymentMethodCard))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "unexpected error %v", err)
	}

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, f.quantity(t, itemID))
	assert.EqualValues(t, stock, f.count(t, &models.Sale{}))
	assert.EqualValues(t, stock, f.count(t, &models.Invoice{}))
}

func TestPostgresCheckConstraintRejectsNegativeStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := newFixtureOn(t, repotest.OpenPostgres(t))
	itemID := f.addItem(t, 1, "1.00")

	err := f.client.DB().Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Update("quantity", -1).Error
	require.Error(t, err)
	assert.Equal(t, "23514", pkgerrors.Dump(err).PGCode)
}
