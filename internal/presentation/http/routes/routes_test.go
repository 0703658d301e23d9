package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/config"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	"github.com/sangkips/tablepos-api/internal/infrastructure/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/handler"
	"github.com/sangkips/tablepos-api/pkg/logger"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/sangkips/tablepos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  []map[string]string    `json:"errors"`
	Details map[string]interface{} `json:"details"`
}

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	cashier string
	manager string

	table entity.DiningTable
	dosa  entity.Product
	tea   entity.Product
}

func newTestServer(t *testing.T, rateLimit *config.RateLimitConfig) *testServer {
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

	cfg := &config.Config{App: config.AppConfig{Name: "tablepos-api"}}
	require.NoError(t, database.SeedDefaultData(db, &config.StoreConfig{
		Name:          "Saravana Bhavan",
		StockUpdate:   true,
		TaxEnabled:    true,
		SGST:          "2.5",
		CGST:          "2.5",
		IGST:          "0",
		AutoPrintBill: true,
		AutoPrintKOT:  true,
	}, log))

	s := &testServer{t: t, db: db}
	kitchen := entity.Kitchen{Name: "South Indian", Status: true}
	require.NoError(t, db.Create(&kitchen).Error)
	s.table = entity.DiningTable{No: 4, Name: "T4"}
	require.NoError(t, db.Create(&s.table).Error)
	s.dosa = entity.Product{Name: "Masala Dosa", Price: decimal.NewFromInt(100), Qty: 20, KitchenID: &kitchen.ID, Status: true}
	s.tea = entity.Product{Name: "Filter Coffee", Price: decimal.NewFromInt(15), Qty: 3, Status: true}
	require.NoError(t, db.Create(&s.dosa).Error)
	require.NoError(t, db.Create(&s.tea).Error)

	store := repository.NewStore(db)
	sequencer := service.NewSequencer(log)
	require.NoError(t, sequencer.Sync(context.Background(), store))

	settingsService := service.NewSettingsService(repository.NewSettingsRepository(db), log)
	formatter := service.NewFormatter(40)
	printerService := service.NewPrinterService(
		repository.NewPrintJobRepository(db),
		repository.NewPrinterConfigRepository(db),
		func(printer.Endpoint) (printer.Printer, error) { return printer.NewNullPrinter(), nil },
		formatter,
		time.Second,
		log,
	)

	handlers := &Handlers{
		Order:    handler.NewOrderHandler(service.NewOrderService(store, settingsService, sequencer, formatter, printerService, log)),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService),
		Catalog:  handler.NewCatalogHandler(service.NewCatalogService(repository.NewCatalogRepository(db))),
	}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	deps := &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Log:             log,
	}
	if rateLimit != nil {
		deps.RateLimiter = NewRateLimiter(rateLimit)
		t.Cleanup(deps.RateLimiter.Stop)
	}
	s.router = Setup(handlers, deps)

	s.cashier, err = jwtManager.GenerateAccessToken(uuid.New(), "cashier@example.com", []string{"cashier"})
	require.NoError(t, err)
	s.manager, err = jwtManager.GenerateAccessToken(uuid.New(), "manager@example.com", []string{"manager"})
	require.NoError(t, err)
	return s
}

func (s *testServer) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (s *testServer) stock(id uuid.UUID) int {
	s.t.Helper()
	var p entity.Product
	require.NoError(s.t, s.db.First(&p, "id = ?", id).Error)
	return p.Qty
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type orderResult struct {
	Order        entity.Order        `json:"order"`
	Bill         *entity.Bill        `json:"bill"`
	PrintContent entity.PrintContent `json:"printContent"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &config.RateLimitConfig{Requests: 100, Duration: 60})
	w, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rateLimiter"`)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodGet, "/api/v1/order", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)

	w, _ = s.do(http.MethodGet, "/api/v1/order", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTakeawayBillLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, gin.H{
		"orderType":   "Takeaway",
		"paymentType": "Cash",
		"items":       []gin.H{{"productId": s.dosa.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[orderResult](t, resp.Data)
	assert.Equal(t, "ORD-0001", created.Order.OrderNumber)
	require.NotNil(t, created.Bill)
	assert.Equal(t, int64(1001), created.Bill.BillNumber)
	assert.True(t, created.Bill.Charges.GrandTotal.Equal(decimal.NewFromInt(210)), created.Bill.Charges.GrandTotal.String())
	assert.Contains(t, created.PrintContent.Receipt, "Rupees Two Hundred Ten Only")
	assert.Len(t, created.PrintContent.KOT, 1)
	assert.Equal(t, 18, s.stock(s.dosa.ID))

	w, resp = s.do(http.MethodGet, "/api/v1/order/1001", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bill := decode[entity.Bill](t, resp.Data)
	require.NotNil(t, bill.Order)
	assert.Equal(t, "ORD-0001", bill.Order.OrderNumber)

	w, resp = s.do(http.MethodPut, "/api/v1/order/1001/update", s.cashier, gin.H{
		"items":       []gin.H{{"productId": s.dosa.ID, "quantity": 1}},
		"paymentType": "Card",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[struct {
		Bill entity.Bill `json:"bill"`
	}](t, resp.Data)
	assert.True(t, edited.Bill.BillEditStatus)
	assert.True(t, edited.Bill.Charges.GrandTotal.Equal(decimal.NewFromInt(105)))
	assert.Equal(t, 19, s.stock(s.dosa.ID))

	w, resp = s.do(http.MethodGet, "/api/v1/order/1001/history", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entity.OrderHistory](t, resp.Data), 1)

	w, resp = s.do(http.MethodGet, "/api/v1/order?edited=true", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Items []entity.Bill `json:"items"`
	}](t, resp.Data)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(1001), list.Items[0].BillNumber)

	w, _ = s.do(http.MethodDelete, "/api/v1/order/1001/delete", s.cashier, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/order/1001/delete", s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 20, s.stock(s.dosa.ID))

	w, resp = s.do(http.MethodGet, "/api/v1/order/1001", s.cashier, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
}

func TestUpdateBill_BodyNumberWins(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, gin.H{
		"orderType": "Bill", "paymentType": "Cash",
		"items": []gin.H{{"productId": s.tea.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPut, "/api/v1/order/not-a-number/update", s.cashier, gin.H{
		"billNumber": 1001,
		"items":      []gin.H{{"productId": s.tea.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, s.stock(s.tea.ID))

	w, _ = s.do(http.MethodPut, "/api/v1/order/abc/update", s.cashier, gin.H{
		"items": []gin.H{{"productId": s.tea.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBill_DiscountNoneClears(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, gin.H{
		"orderType": "Takeaway", "paymentType": "Cash",
		"discountType": "amount", "discountValue": "10",
		"items": []gin.H{{"productId": s.dosa.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[orderResult](t, resp.Data)
	assert.True(t, created.Bill.Charges.DiscountAmount.Equal(decimal.NewFromInt(10)))

	w, resp = s.do(http.MethodPut, "/api/v1/order/1001/update", s.cashier, gin.H{
		"discountType": "none",
		"items":        []gin.H{{"productId": s.dosa.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[struct {
		Bill entity.Bill `json:"bill"`
	}](t, resp.Data)
	assert.True(t, edited.Bill.Charges.DiscountAmount.IsZero())
	assert.Empty(t, edited.Bill.Charges.DiscountType)
	assert.True(t, edited.Bill.Charges.GrandTotal.Equal(decimal.NewFromInt(210)), edited.Bill.Charges.GrandTotal.String())
}

func TestDineInFlow(t *testing.T) {
	s := newTestServer(t, nil)
	body := gin.H{
		"tableId":   s.table.ID,
		"orderType": "Dine-in",
		"items":     []gin.H{{"productId": s.dosa.ID, "quantity": 1}},
	}

	w, resp := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[orderResult](t, resp.Data).Order

	w, resp = s.do(http.MethodPost, "/api/v1/order/create", s.cashier, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Items added to order", resp.Message)
	assert.Equal(t, order.ID, decode[orderResult](t, resp.Data).Order.ID)

	w, resp = s.do(http.MethodGet, "/api/v1/tables", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tables := decode[[]service.TableView](t, resp.Data)
	require.Len(t, tables, 1)
	assert.True(t, tables[0].Occupied)

	w, resp = s.do(http.MethodPost, "/api/v1/order/"+order.ID.String()+"/kot", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	kot := decode[struct {
		PrintContent entity.PrintContent `json:"printContent"`
	}](t, resp.Data)
	require.Len(t, kot.PrintContent.KOT, 1)
	assert.Contains(t, kot.PrintContent.KOT[0].Content, "2    Masala Dosa")

	w, _ = s.do(http.MethodPut, "/api/v1/order/"+order.ID.String()+"/complete", s.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "payment type is required to settle")

	w, resp = s.do(http.MethodPut, "/api/v1/order/"+order.ID.String()+"/complete", s.cashier, gin.H{
		"paymentType": "UPI", "discountType": "amount", "discountValue": "10",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	completed := decode[orderResult](t, resp.Data)
	require.NotNil(t, completed.Bill)
	assert.Equal(t, int64(1001), completed.Bill.BillNumber)
	assert.True(t, completed.Bill.Charges.DiscountAmount.Equal(decimal.NewFromInt(10)))
	assert.Contains(t, completed.PrintContent.Receipt, "Table: T4")

	w, _ = s.do(http.MethodPut, "/api/v1/order/"+uuid.NewString()+"/complete", s.cashier, gin.H{"paymentType": "Cash"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, gin.H{
		"orderType": "Takeaway", "paymentType": "Cash",
		"items": []gin.H{{"productId": s.tea.ID, "quantity": 5}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient stock for Filter Coffee", resp.Message)
	assert.EqualValues(t, 3, resp.Details["available"])
	assert.EqualValues(t, 5, resp.Details["requested"])
	assert.Equal(t, 3, s.stock(s.tea.ID))

	w, _ = s.do(http.MethodPost, "/api/v1/order/create", s.cashier, gin.H{
		"orderType": "Delivery", "items": []gin.H{{"productId": s.tea.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/order/create", s.cashier, gin.H{
		"orderType": "Takeaway", "paymentType": "Cash",
		"items": []gin.H{{"productId": uuid.New(), "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	s := newTestServer(t, nil)
	body := gin.H{
		"orderType": "Takeaway", "paymentType": "Cash",
		"items": []gin.H{{"productId": s.tea.ID, "quantity": 1}},
	}

	w1, resp1 := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

	w2, resp2 := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusCreated, w2.Code)
	assert.Equal(t, "true", w2.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, string(resp1.Data), string(resp2.Data))
	assert.Equal(t, 2, s.stock(s.tea.ID))

	w3, _ := s.do(http.MethodPost, "/api/v1/order/create", s.cashier, body, "Idempotency-Key", "till-1-0002")
	require.Equal(t, http.StatusCreated, w3.Code)
	assert.Empty(t, w3.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, s.stock(s.tea.ID))
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodGet, "/api/v1/settings", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Saravana Bhavan", decode[entity.StoreSettings](t, resp.Data).StoreName)

	update := gin.H{"storeName": "Saravana Bhavan", "taxStatus": true, "igst": "5", "sgst": "0", "cgst": "0", "stockUpdate": true}
	w, _ = s.do(http.MethodPut, "/api/v1/settings", s.cashier, update)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(http.MethodPut, "/api/v1/settings", s.manager, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[entity.StoreSettings](t, resp.Data).IGST.Equal(decimal.NewFromInt(5)))

	w, _ = s.do(http.MethodPut, "/api/v1/settings", s.manager, gin.H{"taxStatus": true})
	assert.Equal(t, http.StatusBadRequest, w.Code, "store name is required")
}

func TestPrinterRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodGet, "/api/v1/printer/config", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[entity.PrinterConfig](t, resp.Data).Version)

	cfg := gin.H{"billing": "10.0.0.5", "kitchens": gin.H{"grill": "10.0.0.7"}}
	w, _ = s.do(http.MethodPut, "/api/v1/printer/config", s.cashier, cfg)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = s.do(http.MethodPut, "/api/v1/printer/config", s.manager, cfg)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[entity.PrinterConfig](t, resp.Data).Version)

	w, resp = s.do(http.MethodGet, "/api/v1/printer/status", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]service.TargetStatus](t, resp.Data), 2)

	w, resp = s.do(http.MethodPost, "/api/v1/printer/test", s.cashier, gin.H{"target": "billing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	job := decode[entity.PrintJob](t, resp.Data)
	assert.Equal(t, "billing", job.Target)

	w, _ = s.do(http.MethodPost, "/api/v1/printer/test", s.cashier, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.do(http.MethodGet, "/api/v1/printer/jobs?status=printed", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decode[struct {
		Items []entity.PrintJob `json:"items"`
	}](t, resp.Data)
	assert.Len(t, jobs.Items, 1)

	w, _ = s.do(http.MethodGet, "/api/v1/printer/jobs?status=lost", s.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/printer/jobs/"+job.ID.String()+"/retry", s.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "printed jobs are not retried")

	w, _ = s.do(http.MethodPost, "/api/v1/printer/jobs/nope/retry", s.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodGet, "/api/v1/products?search=dosa", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[struct {
		Items []entity.Product `json:"items"`
	}](t, resp.Data)
	require.Len(t, products.Items, 1)
	assert.Equal(t, "Masala Dosa", products.Items[0].Name)

	w, _ = s.do(http.MethodGet, "/api/v1/products?kitchen_id=bad", s.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.do(http.MethodGet, "/api/v1/kitchens", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entity.Kitchen](t, resp.Data), 1)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &config.RateLimitConfig{Requests: 1, Duration: 60})

	w, _ := s.do(http.MethodGet, "/api/v1/kitchens", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/kitchens", s.cashier, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
