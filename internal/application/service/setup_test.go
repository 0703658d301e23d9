package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/tablepos-api/internal/infrastructure/repository"
	"github.com/sangkips/tablepos-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 15, 13, 5, 0, 0, time.UTC)

type recordingDispatcher struct {
	mu   sync.Mutex
	reqs []PrintRequest
	fail map[string]bool
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, reqs []PrintRequest) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reqs = append(d.reqs, reqs...)
	var warnings []string
	for _, r := range reqs {
		if d.fail[r.Target] {
			warnings = append(warnings, "Failed to print to "+r.Target)
		}
	}
	return warnings
}

func (d *recordingDispatcher) targets() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.reqs))
	for i, r := range d.reqs {
		out[i] = r.Target
	}
	return out
}

type fixture struct {
	db         *gorm.DB
	store      repository.Store
	settings   *SettingsService
	dispatcher *recordingDispatcher
	svc        *OrderService

	kitchen entity.Kitchen
	table   entity.DiningTable
	dosa    entity.Product // 100, kitchen station
	vada    entity.Product // 50, no station
	tea     entity.Product // 15, stock 3
}

func newFixture(t *testing.T, mutate func(s *entity.StoreSettings)) *fixture {
	t.Helper()
	log := logger.Discard()

	db, err := database.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	settings := &entity.StoreSettings{
		StoreName:      "Saravana Bhavan",
		StoreAddress:   "12 Anna Salai, Chennai",
		StoreContact:   "044 2345 6789",
		StockUpdate:    true,
		TaxStatus:      true,
		SGST:           decimal.RequireFromString("2.5"),
		CGST:           decimal.RequireFromString("2.5"),
		IGST:           decimal.Zero,
		AutoPrintBill:  true,
		AutoPrintKOT:   true,
		AutoPrintToken: true,
	}
	if mutate != nil {
		mutate(settings)
	}
	settingsRepo := infraRepo.NewSettingsRepository(db)
	require.NoError(t, settingsRepo.Save(context.Background(), settings))

	f := &fixture{
		db:         db,
		store:      infraRepo.NewStore(db),
		settings:   NewSettingsService(settingsRepo, log),
		dispatcher: &recordingDispatcher{fail: map[string]bool{}},
	}

	f.kitchen = entity.Kitchen{Name: "South Indian", Status: true}
	require.NoError(t, db.Create(&f.kitchen).Error)
	f.table = entity.DiningTable{No: 4, Name: "T4"}
	require.NoError(t, db.Create(&f.table).Error)

	f.dosa = entity.Product{Name: "Masala Dosa", Price: decimal.NewFromInt(100), Qty: 20, KitchenID: &f.kitchen.ID, Status: true}
	f.vada = entity.Product{Name: "Medu Vada", Price: decimal.NewFromInt(50), Qty: 20, Status: true}
	f.tea = entity.Product{Name: "Filter Coffee", Price: decimal.NewFromInt(15), Qty: 3, Status: true}
	for _, p := range []*entity.Product{&f.dosa, &f.vada, &f.tea} {
		require.NoError(t, db.Create(p).Error)
	}

	f.svc = NewOrderService(f.store, f.settings, NewSequencer(log), NewFormatter(40), f.dispatcher, log)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var p entity.Product
	require.NoError(t, f.db.Unscoped().First(&p, "id = ?", id).Error)
	return p.Qty
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Unscoped().Model(&entity.Order{}).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
