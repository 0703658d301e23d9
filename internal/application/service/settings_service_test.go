package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/tablepos-api/internal/infrastructure/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/sangkips/tablepos-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_SnapshotIsACopy(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.settings.Snapshot(ctx)
	require.NoError(t, err)
	first.StockUpdate = false
	first.StoreName = "changed"

	second, err := f.settings.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, second.StockUpdate)
	assert.Equal(t, "Saravana Bhavan", second.StoreName)
}

func TestSettingsService_Update(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	updated, err := f.settings.UpdateSettings(ctx, &UpdateSettingsInput{
		StoreName:   "Saravana Bhavan",
		StockUpdate: false,
		TaxStatus:   true,
		IGST:        dec("5"),
	})
	require.NoError(t, err)
	assert.False(t, updated.StockUpdate)

	snap, err := f.settings.Snapshot(ctx)
	require.NoError(t, err)
	assertDec(t, "5", snap.IGST)
	assert.False(t, snap.AutoPrintBill)

	// A fresh service reads what was persisted.
	fresh := NewSettingsService(infraRepo.NewSettingsRepository(f.db), logger.Discard())
	stored, err := fresh.Snapshot(ctx)
	require.NoError(t, err)
	assertDec(t, "5", stored.IGST)
	assert.False(t, stored.StockUpdate)

	// New orders pick up the change.
	res, err := f.svc.CreateOrUpdateOrder(ctx, f.takeaway(nil, ItemInput{ProductID: f.vada.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 20, f.stock(t, f.vada.ID))
	assertDec(t, "2.5", res.Bill.Charges.IGST)
}

func TestSettingsService_Validation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.settings.UpdateSettings(context.Background(), &UpdateSettingsInput{
		SGST: dec("-1"),
		IGST: dec("101"),
	})
	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	require.Len(t, appErr.Errors, 3)
	assert.Equal(t, "igst", appErr.Errors[0].Field)
	assert.Equal(t, "sgst", appErr.Errors[1].Field)
	assert.Equal(t, "storeName", appErr.Errors[2].Field)
}

func TestSettingsService_MissingRow(t *testing.T) {
	log := logger.Discard()
	db, err := database.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))

	_, err = NewSettingsService(infraRepo.NewSettingsRepository(db), log).Snapshot(context.Background())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
