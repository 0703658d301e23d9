package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	"github.com/sangkips/tablepos-api/pkg/logger"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSequence_NextAndRollback(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	next := func() int64 {
		var n int64
		require.NoError(t, store.Transaction(ctx, func(tx domainRepo.Store) error {
			var err error
			n, err = tx.Sequences().Next(ctx, entity.SequenceBill)
			return err
		}))
		return n
	}

	assert.Equal(t, int64(1001), next(), "missing counter starts at its seed")
	assert.Equal(t, int64(1002), next())

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx domainRepo.Store) error {
		n, err := tx.Sequences().Next(ctx, entity.SequenceBill)
		require.NoError(t, err)
		assert.Equal(t, int64(1003), n)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1003), next(), "rolled back number is handed out again")

	require.NoError(t, store.Sequences().EnsureAtLeast(ctx, entity.SequenceBill, 2000))
	require.NoError(t, store.Sequences().EnsureAtLeast(ctx, entity.SequenceBill, 10))
	assert.Equal(t, int64(2001), next())
}

func TestOrderRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	table := entity.DiningTable{No: 4, Name: "T4"}
	require.NoError(t, db.Create(&table).Error)
	productID := uuid.New()

	order := &entity.Order{
		OrderNumber: "ORD-0009",
		OrderType:   enum.OrderTypeDineIn,
		TableID:     &table.ID,
		Items: []entity.OrderItem{
			{ProductID: productID, Quantity: 1, UnitPrice: dec("80"), TotalPrice: dec("80")},
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: dec("20"), TotalPrice: dec("40"),
				Addons: []entity.Addon{{Name: "Extra Chutney", Qty: 1, Price: dec("5")}}},
		},
	}
	require.NoError(t, store.Orders().Create(ctx, order))

	pending, err := store.Orders().FindPendingByTable(ctx, table.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, order.ID, pending.ID)
	require.Len(t, pending.Items, 2)
	assert.Equal(t, productID, pending.Items[0].ProductID)
	assert.Equal(t, "Extra Chutney", pending.Items[1].Addons[0].Name)

	pending.Items[0].Quantity = 3
	pending.Items = append(pending.Items, entity.OrderItem{OrderID: order.ID, Position: 2, ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("10"), TotalPrice: dec("10")})
	require.NoError(t, store.Orders().SaveItems(ctx, pending.Items))

	loaded, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 3)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
	assert.Equal(t, "T4", loaded.Table.Name)

	require.NoError(t, store.Orders().ReplaceItems(ctx, order.ID, []entity.OrderItem{
		{ProductID: productID, Quantity: 5, UnitPrice: dec("80"), TotalPrice: dec("400")},
	}))
	loaded, err = store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 5, loaded.Items[0].Quantity)

	loaded.Status = enum.OrderStatusCompleted
	require.NoError(t, store.Orders().Update(ctx, loaded))
	pending, err = store.Orders().FindPendingByTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	by := uuid.New()
	require.NoError(t, store.Orders().SoftDelete(ctx, order.ID, &by))
	gone, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var deleted entity.Order
	require.NoError(t, db.Unscoped().First(&deleted, "id = ?", order.ID).Error)
	assert.Equal(t, by, *deleted.DeletedBy)

	max, err := store.Orders().MaxOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), max, "soft-deleted orders still count")
}

func TestOrderRepository_MaxOrderNumberPastFourDigits(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	for _, n := range []string{"ORD-9999", "ORD-10000", "ORD-0002"} {
		require.NoError(t, store.Orders().Create(ctx, &entity.Order{OrderNumber: n, OrderType: enum.OrderTypeBill}))
	}
	max, err := store.Orders().MaxOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), max)
}

func TestBillRepository(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	order := &entity.Order{OrderNumber: "ORD-0001", OrderType: enum.OrderTypeTakeaway, Status: enum.OrderStatusCompleted}
	require.NoError(t, store.Orders().Create(ctx, order))

	bill := &entity.Bill{
		BillNumber:  1001,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Type:        enum.OrderTypeTakeaway,
		PaymentType: enum.PaymentCash,
		Items:       []entity.BillItem{{ProductID: uuid.New(), Name: "Tea", Quantity: 2, UnitPrice: dec("15"), TotalPrice: dec("30")}},
		Charges:     entity.Charges{TotalAmount: dec("30"), GrandTotal: dec("30")},
	}
	require.NoError(t, store.Bills().Create(ctx, bill))

	dup := &entity.Bill{BillNumber: 1001, OrderID: uuid.New(), OrderNumber: "ORD-0002", Type: enum.OrderTypeBill}
	err := store.Bills().Create(ctx, dup)
	assert.ErrorIs(t, err, domainRepo.ErrDuplicate)

	got, err := store.Bills().GetByNumber(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, got.Order)
	assert.Equal(t, "ORD-0001", got.Order.OrderNumber)
	assert.Equal(t, "Tea", got.Items[0].Name)
	assert.True(t, got.Charges.GrandTotal.Equal(dec("30")))

	bills, total, err := store.Bills().List(ctx, &domainRepo.BillFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, bills, 1)

	require.NoError(t, store.Bills().SoftDelete(ctx, got.ID, nil))
	missing, err := store.Bills().GetByNumber(ctx, 1001)
	require.NoError(t, err)
	assert.Nil(t, missing)

	max, err := store.Bills().MaxBillNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), max)
}

func TestOrderHistory_AppendOnly(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	h := &entity.OrderHistory{OrderID: uuid.New(), BillNumber: 1001, PreviousData: []byte(`{"a":1}`), UpdatedData: []byte(`{"a":2}`), EditedAt: time.Now()}
	require.NoError(t, store.Histories().Create(ctx, h))

	h.UpdatedData = []byte(`{"a":3}`)
	assert.ErrorIs(t, db.Save(h).Error, entity.ErrHistoryImmutable)
	assert.ErrorIs(t, db.Delete(h).Error, entity.ErrHistoryImmutable)

	list, err := store.Histories().ListByBillNumber(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.JSONEq(t, `{"a":2}`, string(list[0].UpdatedData))
}

func TestProductRepository_Stock(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	p := entity.Product{Name: "Idli", Price: dec("30"), Qty: 5, Status: true}
	require.NoError(t, db.Create(&p).Error)

	ok, err := store.Products().DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Products().DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok, "only 2 left")

	require.NoError(t, store.Products().IncrementStock(ctx, p.ID, 4))

	products, err := store.Products().GetByIDs(ctx, []uuid.UUID{p.ID})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 6, products[0].Qty)
}

func TestPrinterConfigRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPrinterConfigRepository(db)
	ctx := context.Background()

	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Version)
	assert.NotNil(t, cfg.Kitchens)

	first := &entity.PrinterConfig{Billing: "192.168.1.20", Kitchens: map[string]string{"k1": "192.168.1.21:9100"}}
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 1, first.Version)

	cfg, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.21:9100", cfg.Kitchens["k1"])

	require.NoError(t, repo.Save(ctx, &entity.PrinterConfig{Billing: "192.168.1.22"}))

	cfg, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, "192.168.1.22", cfg.Billing)
	assert.Empty(t, cfg.Kitchens)

	var rows int64
	require.NoError(t, db.Model(&entity.PrinterConfig{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestIdempotencyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	missing, err := repo.GetByKey(ctx, "abc", user)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "abc", UserID: user, Endpoint: "POST /order/create", ResponseCode: 201, ResponseBody: "{}", ExpiresAt: time.Now().Add(time.Hour)}))

	got, err := repo.GetByKey(ctx, "abc", user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	other, err := repo.GetByKey(ctx, "abc", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other)

	err = repo.Create(ctx, &entity.IdempotencyKey{Key: "abc", UserID: user, Endpoint: "POST /order/create", ResponseCode: 201, ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicate)
}

func TestIdempotencyRepository_ExpiredKeyIsReplaced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "abc", UserID: user, Endpoint: "POST /order/create", ResponseCode: 201, ResponseBody: "{}", ExpiresAt: time.Now().Add(-time.Minute)}))

	stale, err := repo.GetByKey(ctx, "abc", user)
	require.NoError(t, err)
	assert.Nil(t, stale)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "abc", UserID: user, Endpoint: "POST /order/create", ResponseCode: 200, ResponseBody: "{}", ExpiresAt: time.Now().Add(time.Hour)}))

	got, err := repo.GetByKey(ctx, "abc", user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.ResponseCode)
}
