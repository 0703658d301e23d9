package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PrintDispatcher sends rendered payloads to printers and reports advisory
// failures. *PrinterService implements it.
type PrintDispatcher interface {
	Dispatch(ctx context.Context, reqs []PrintRequest) []string
}

// OrderService coordinates the order-to-bill pipeline. Every money or stock
// change runs in one transaction; printing starts only after commit.
type OrderService struct {
	store     repository.Store
	settings  *SettingsService
	sequencer *Sequencer
	formatter *Formatter
	printer   PrintDispatcher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	store repository.Store,
	settings *SettingsService,
	sequencer *Sequencer,
	formatter *Formatter,
	printer PrintDispatcher,
	log logrus.FieldLogger,
) *OrderService {
	return &OrderService{
		store:     store,
		settings:  settings,
		sequencer: sequencer,
		formatter: formatter,
		printer:   printer,
		log:       log,
		now:       time.Now,
	}
}

// ItemInput is one requested order line. UnitPrice overrides the catalog
// price when set.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
	Addons    []entity.Addon
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID      *uuid.UUID
	TableID     *uuid.UUID
	OrderType   enum.OrderType
	PaymentType enum.PaymentType
	Discount    *Discount
	Items       []ItemInput
}

// OrderResult is what the create and complete operations hand back.
type OrderResult struct {
	Order *entity.Order `json:"order"`
	Bill  *entity.Bill  `json:"bill,omitempty"`
	// Merged is set when the items were added to an open Dine-in order.
	Merged       bool                 `json:"-"`
	PrintContent *entity.PrintContent `json:"printContent,omitempty"`
}

// CreateOrUpdateOrder adds items to the open order of a Dine-in table, or
// creates a new order. Takeaway and Bill orders are settled on the spot.
func (s *OrderService) CreateOrUpdateOrder(ctx context.Context, input *CreateOrderInput) (*OrderResult, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := &OrderResult{}
	var products map[uuid.UUID]*entity.Product
	var tableName string

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var table *entity.DiningTable
		if input.OrderType == enum.OrderTypeDineIn {
			table, err = tx.Tables().GetByIDForUpdate(ctx, *input.TableID)
			if err != nil {
				return err
			}
			if table == nil {
				return apperror.NewNotFoundError("Table").WithDetail("table_id", input.TableID.String())
			}
			tableName = table.DisplayName()
		}

		products, err = s.resolveProducts(ctx, tx, productIDs(input.Items), true)
		if err != nil {
			return err
		}
		lines := buildLines(input.Items, products)

		if settings.StockUpdate {
			if err := s.deductStock(ctx, tx, lines, products); err != nil {
				return err
			}
		}

		if table != nil {
			pending, err := tx.Orders().FindPendingByTable(ctx, table.ID)
			if err != nil {
				return err
			}
			if pending != nil {
				result.Merged = true
				result.Order = pending
				return s.mergeInto(ctx, tx, pending, lines, input.Discount, settings)
			}
		}

		discount := Discount{}
		if input.Discount != nil {
			discount = *input.Discount
		}
		charges, err := Price(lines, discount, TaxConfigFrom(settings))
		if err != nil {
			return err
		}

		order := &entity.Order{
			OrderType:   input.OrderType,
			PaymentType: input.PaymentType,
			Status:      enum.OrderStatusPending,
			Charges:     charges,
			CreatedBy:   input.UserID,
			Items:       lines,
		}
		if table != nil {
			order.TableID = &table.ID
		}
		if input.OrderType.CompletesImmediately() {
			now := s.now()
			order.Status = enum.OrderStatusCompleted
			order.CompletedAt = &now
		}
		if err := s.sequencer.CreateOrder(ctx, tx, order); err != nil {
			return err
		}
		result.Order = order

		if order.Status == enum.OrderStatusCompleted {
			bill := newBill(order, products, input.UserID)
			if err := s.sequencer.CreateBill(ctx, tx, bill); err != nil {
				return err
			}
			result.Bill = bill
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("create order", err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"order_number": result.Order.OrderNumber,
		"order_type":   result.Order.OrderType,
	})
	if result.Merged {
		entry.WithField("items", len(input.Items)).Info("items added to open order")
		return result, nil
	}
	entry.WithField("grand_total", result.Order.Charges.GrandTotal.String()).Info("order created")

	if result.Bill != nil {
		pctx := s.printContext(ctx, products, tableName)
		content := &entity.PrintContent{
			KOT:     s.formatter.KitchenTickets(result.Order, pctx),
			Token:   s.formatter.Token(result.Order, pctx),
			Receipt: s.formatter.Receipt(result.Bill, settings, pctx),
		}
		content.Warnings = s.printer.Dispatch(ctx, settlementJobs(content, result.Order, result.Bill, settings, true))
		result.PrintContent = content
	}
	return result, nil
}

// mergeInto folds new lines into an open order. Lines with the same
// signature are combined, the rest are appended.
func (s *OrderService) mergeInto(ctx context.Context, tx repository.Store, order *entity.Order, lines []entity.OrderItem, discount *Discount, settings *entity.StoreSettings) error {
	index := make(map[string]int, len(order.Items))
	for i, item := range order.Items {
		index[entity.Signature(item.ProductID, item.UnitPrice, item.Addons)] = i
	}

	for _, line := range lines {
		sig := entity.Signature(line.ProductID, line.UnitPrice, line.Addons)
		if i, ok := index[sig]; ok {
			existing := &order.Items[i]
			existing.Quantity += line.Quantity
			existing.StockQty += line.StockQty
			existing.Addons = entity.MergeAddons(existing.Addons, line.Addons)
			existing.TotalPrice = entity.LineTotal(existing.UnitPrice, existing.Quantity, existing.Addons)
			continue
		}
		line.OrderID = order.ID
		line.Position = len(order.Items)
		index[sig] = len(order.Items)
		order.Items = append(order.Items, line)
	}

	d := Discount{Type: order.Charges.DiscountType, Value: order.Charges.DiscountValue}
	if discount != nil {
		d = *discount
	}
	charges, err := Price(order.Items, d, TaxConfigFrom(settings))
	if err != nil {
		return err
	}
	order.Charges = charges

	if err := tx.Orders().SaveItems(ctx, order.Items); err != nil {
		return err
	}
	return tx.Orders().Update(ctx, order)
}

// CompleteOrderInput represents the input for settling an open order
type CompleteOrderInput struct {
	OrderID     uuid.UUID
	UserID      *uuid.UUID
	PaymentType enum.PaymentType
	Discount    *Discount
}

// CompleteOrder settles an open Dine-in order and produces its bill.
func (s *OrderService) CompleteOrder(ctx context.Context, input *CompleteOrderInput) (*OrderResult, error) {
	if input.PaymentType != "" && !input.PaymentType.IsValid() {
		return nil, invalidPaymentType()
	}
	if input.Discount != nil {
		if err := ValidateDiscount(*input.Discount); err != nil {
			return nil, err
		}
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := &OrderResult{}
	var products map[uuid.UUID]*entity.Product
	var tableName string

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order").WithDetail("order_id", input.OrderID.String())
		}
		if !order.IsPending() {
			return apperror.NewValidationError("Order is already completed").
				WithDetail("order_number", order.OrderNumber)
		}
		if len(order.Items) == 0 {
			return apperror.NewValidationError("Order has no items")
		}

		if input.PaymentType != "" {
			order.PaymentType = input.PaymentType
		}
		if order.PaymentType == "" {
			return apperror.NewValidationError("Payment type is required",
				apperror.FieldError{Field: "paymentType", Message: "is required to complete an order"})
		}

		d := Discount{Type: order.Charges.DiscountType, Value: order.Charges.DiscountValue}
		if input.Discount != nil {
			d = *input.Discount
		}
		if order.Charges, err = Price(order.Items, d, TaxConfigFrom(settings)); err != nil {
			return err
		}

		now := s.now()
		order.Status = enum.OrderStatusCompleted
		order.CompletedAt = &now
		if order.OrderNumber == "" {
			if err := s.sequencer.AssignOrderNumber(ctx, tx, order); err != nil {
				return err
			}
		} else if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}

		if order.TableID != nil {
			table, err := tx.Tables().GetByID(ctx, *order.TableID)
			if err != nil {
				return err
			}
			if table != nil {
				tableName = table.DisplayName()
			}
		}

		if products, err = s.resolveProducts(ctx, tx, orderProductIDs(order.Items), false); err != nil {
			return err
		}
		bill := newBill(order, products, input.UserID)
		if err := s.sequencer.CreateBill(ctx, tx, bill); err != nil {
			return err
		}
		result.Order = order
		result.Bill = bill
		return nil
	})
	if err != nil {
		return nil, s.fail("complete order", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number": result.Order.OrderNumber,
		"bill_number":  result.Bill.BillNumber,
		"grand_total":  result.Bill.Charges.GrandTotal.String(),
	}).Info("order completed")

	pctx := s.printContext(ctx, products, tableName)
	content := &entity.PrintContent{
		Receipt: s.formatter.Receipt(result.Bill, settings, pctx),
	}
	content.Warnings = s.printer.Dispatch(ctx, settlementJobs(content, result.Order, result.Bill, settings, false))
	result.PrintContent = content
	return result, nil
}

// EditBillInput represents the input for correcting a settled bill
type EditBillInput struct {
	BillNumber  int64
	UserID      *uuid.UUID
	Items       []ItemInput
	PaymentType enum.PaymentType
	Discount    *Discount
}

// EditSettledBill replaces the items and money of a settled bill and
// records the before and after state in the order history.
func (s *OrderService) EditSettledBill(ctx context.Context, input *EditBillInput) (*entity.Bill, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if input.PaymentType != "" && !input.PaymentType.IsValid() {
		return nil, invalidPaymentType()
	}
	if input.Discount != nil {
		if err := ValidateDiscount(*input.Discount); err != nil {
			return nil, err
		}
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var bill *entity.Bill
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		bill, err = tx.Bills().GetByNumberForUpdate(ctx, input.BillNumber)
		if err != nil {
			return err
		}
		if bill == nil {
			return billNotFound(input.BillNumber)
		}
		order, err := tx.Orders().GetByIDForUpdate(ctx, bill.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order").WithDetail("bill_number", input.BillNumber)
		}

		previous, err := json.Marshal(bill.Snapshot())
		if err != nil {
			return err
		}

		// Old lines may point at products since removed from the catalog
		products, err := s.resolveProducts(ctx, tx, orderProductIDs(order.Items), false)
		if err != nil {
			return err
		}
		added, err := s.resolveProducts(ctx, tx, productIDs(input.Items), true)
		if err != nil {
			return err
		}
		for id, p := range added {
			products[id] = p
		}
		lines := buildLines(input.Items, products)
		if err := s.restockDelta(ctx, tx, order.Items, lines, products, settings.StockUpdate); err != nil {
			return err
		}
		if err := tx.Orders().ReplaceItems(ctx, order.ID, lines); err != nil {
			return err
		}

		if input.PaymentType != "" {
			bill.PaymentType = input.PaymentType
		}
		d := Discount{Type: bill.Charges.DiscountType, Value: bill.Charges.DiscountValue}
		if input.Discount != nil {
			d = *input.Discount
		}
		charges, err := Price(lines, d, TaxConfigFrom(settings))
		if err != nil {
			return err
		}

		order.Items = lines
		order.Charges = charges
		order.PaymentType = bill.PaymentType
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}

		now := s.now()
		bill.Items = billItems(lines, products)
		bill.Charges = charges
		bill.BillEditStatus = true
		bill.EditDate = &now
		if err := tx.Bills().Update(ctx, bill); err != nil {
			return err
		}

		updated, err := json.Marshal(bill.Snapshot())
		if err != nil {
			return err
		}
		return tx.Histories().Create(ctx, &entity.OrderHistory{
			OrderID:      order.ID,
			BillNumber:   bill.BillNumber,
			PreviousData: previous,
			UpdatedData:  updated,
			EditedBy:     input.UserID,
			EditedAt:     now,
		})
	})
	if err != nil {
		return nil, s.fail("edit bill", err)
	}

	s.log.WithFields(logrus.Fields{
		"bill_number": bill.BillNumber,
		"grand_total": bill.Charges.GrandTotal.String(),
	}).Info("settled bill edited")
	return bill, nil
}

// SoftDeleteBill hides a bill and its order and gives back the stock the
// order took.
func (s *OrderService) SoftDeleteBill(ctx context.Context, billNumber int64, deletedBy *uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		bill, err := tx.Bills().GetByNumberForUpdate(ctx, billNumber)
		if err != nil {
			return err
		}
		if bill == nil {
			return billNotFound(billNumber)
		}

		order, err := tx.Orders().GetByIDForUpdate(ctx, bill.OrderID)
		if err != nil {
			return err
		}
		if order != nil {
			if err := s.restockDelta(ctx, tx, order.Items, nil, nil, false); err != nil {
				return err
			}
			for i := range order.Items {
				order.Items[i].StockQty = 0
			}
			if err := tx.Orders().SaveItems(ctx, order.Items); err != nil {
				return err
			}
			if err := tx.Orders().SoftDelete(ctx, order.ID, deletedBy); err != nil {
				return err
			}
		}
		return tx.Bills().SoftDelete(ctx, bill.ID, deletedBy)
	})
	if err != nil {
		return s.fail("delete bill", err)
	}

	s.log.WithField("bill_number", billNumber).Info("bill deleted")
	return nil
}

// GetBill returns an active bill with its order.
func (s *OrderService) GetBill(ctx context.Context, billNumber int64) (*entity.Bill, error) {
	bill, err := s.store.Bills().GetByNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billNotFound(billNumber)
	}
	return bill, nil
}

// ListBills lists active bills, newest first.
func (s *OrderService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.store.Bills().List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(bills, params.Pagination, total), nil
}

// ListHistory returns the edit records of a bill, oldest first.
func (s *OrderService) ListHistory(ctx context.Context, billNumber int64) ([]entity.OrderHistory, error) {
	histories, err := s.store.Histories().ListByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if len(histories) == 0 {
		bill, err := s.store.Bills().GetByNumber(ctx, billNumber)
		if err != nil {
			return nil, err
		}
		if bill == nil {
			return nil, billNotFound(billNumber)
		}
	}
	return histories, nil
}

// PrintKitchenTickets renders the kitchen tickets of an order and sends
// each station its own.
func (s *OrderService) PrintKitchenTickets(ctx context.Context, orderID uuid.UUID) (*entity.PrintContent, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order").WithDetail("order_id", orderID.String())
	}

	products, err := s.resolveProducts(ctx, s.store, orderProductIDs(order.Items), false)
	if err != nil {
		return nil, err
	}
	tableName := ""
	if order.Table != nil {
		tableName = order.Table.DisplayName()
	}

	content := &entity.PrintContent{
		KOT: s.formatter.KitchenTickets(order, s.printContext(ctx, products, tableName)),
	}
	reqs := make([]PrintRequest, 0, len(content.KOT))
	for _, t := range content.KOT {
		reqs = append(reqs, PrintRequest{Target: t.StationID, Kind: enum.PrintKindKOT, Reference: order.OrderNumber, Content: t.Content})
	}
	content.Warnings = s.printer.Dispatch(ctx, reqs)
	return content, nil
}

// resolveProducts loads the products behind ids. With forSale set, unknown
// and disabled products are rejected; otherwise missing products are
// tolerated so old bills can still be edited and printed.
func (s *OrderService) resolveProducts(ctx context.Context, store repository.Store, ids []uuid.UUID, forSale bool) (map[uuid.UUID]*entity.Product, error) {
	list, err := store.Products().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*entity.Product, len(list))
	for i := range list {
		products[list[i].ID] = &list[i]
	}
	if !forSale {
		return products, nil
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return nil, apperror.NewNotFoundError("Product").WithDetail("product_id", id.String())
		}
		if !p.Status {
			return nil, apperror.NewValidationError(p.Name+" is not available").WithDetail("product_id", id.String())
		}
	}
	return products, nil
}

// deductStock takes every line's quantity from stock and records it on the
// line. Products are locked in id order.
func (s *OrderService) deductStock(ctx context.Context, tx repository.Store, lines []entity.OrderItem, products map[uuid.UUID]*entity.Product) error {
	wanted := make(map[uuid.UUID]int)
	for _, l := range lines {
		wanted[l.ProductID] += l.Quantity
	}
	for _, id := range sortedIDs(wanted) {
		if err := s.take(ctx, tx, id, wanted[id], products); err != nil {
			return err
		}
	}
	for i := range lines {
		lines[i].StockQty = lines[i].Quantity
	}
	return nil
}

// restockDelta gives back what prev took from stock and, when deduct is
// set, takes what next needs, as one net change per product.
func (s *OrderService) restockDelta(ctx context.Context, tx repository.Store, prev, next []entity.OrderItem, products map[uuid.UUID]*entity.Product, deduct bool) error {
	delta := make(map[uuid.UUID]int)
	for _, l := range prev {
		delta[l.ProductID] -= l.StockQty
	}
	if deduct {
		for i := range next {
			delta[next[i].ProductID] += next[i].Quantity
			next[i].StockQty = next[i].Quantity
		}
	}

	for _, id := range sortedIDs(delta) {
		switch n := delta[id]; {
		case n > 0:
			if err := s.take(ctx, tx, id, n, products); err != nil {
				return err
			}
		case n < 0:
			if err := tx.Products().IncrementStock(ctx, id, -n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *OrderService) take(ctx context.Context, tx repository.Store, id uuid.UUID, qty int, products map[uuid.UUID]*entity.Product) error {
	ok, err := tx.Products().DecrementStock(ctx, id, qty)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	name, available := id.String(), 0
	if p, found := products[id]; found {
		name, available = p.Name, p.Qty
	}
	return apperror.NewInsufficientStockError(name, available, qty).WithDetail("product_id", id.String())
}

// printContext resolves kitchen names for rendering. A lookup failure only
// degrades station names to Unknown.
func (s *OrderService) printContext(ctx context.Context, products map[uuid.UUID]*entity.Product, tableName string) *PrintContext {
	pctx := &PrintContext{
		Products:  products,
		Kitchens:  make(map[uuid.UUID]*entity.Kitchen),
		TableName: tableName,
		PrintedAt: s.now(),
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, p := range products {
		if p.KitchenID != nil && !seen[*p.KitchenID] {
			seen[*p.KitchenID] = true
			ids = append(ids, *p.KitchenID)
		}
	}
	if len(ids) == 0 {
		return pctx
	}
	kitchens, err := s.store.Kitchens().GetByIDs(ctx, ids)
	if err != nil {
		s.log.WithError(err).Warn("failed to load kitchens for printing")
		return pctx
	}
	for i := range kitchens {
		pctx.Kitchens[kitchens[i].ID] = &kitchens[i]
	}
	return pctx
}

// fail passes application errors through and wraps everything else as a
// transaction failure after logging it.
func (s *OrderService) fail(operation string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	s.log.WithError(err).WithField("operation", operation).Error("order transaction failed")
	return apperror.NewTransactionError(err)
}

// settlementJobs builds the dispatch list for a settled order, honouring
// the auto print flags.
func settlementJobs(content *entity.PrintContent, order *entity.Order, bill *entity.Bill, settings *entity.StoreSettings, withKitchen bool) []PrintRequest {
	var reqs []PrintRequest
	if withKitchen && settings.AutoPrintKOT {
		for _, t := range content.KOT {
			reqs = append(reqs, PrintRequest{Target: t.StationID, Kind: enum.PrintKindKOT, Reference: order.OrderNumber, Content: t.Content})
		}
	}
	if withKitchen && settings.AutoPrintToken && content.Token != "" {
		reqs = append(reqs, PrintRequest{Target: entity.TargetToken, Kind: enum.PrintKindToken, Reference: order.OrderNumber, Content: content.Token})
	}
	if settings.AutoPrintBill && content.Receipt != "" {
		reqs = append(reqs, PrintRequest{Target: entity.TargetBilling, Kind: enum.PrintKindReceipt, Reference: strconv.FormatInt(bill.BillNumber, 10), Content: content.Receipt})
	}
	return reqs
}

func validateCreate(input *CreateOrderInput) error {
	if !input.OrderType.IsValid() {
		return apperror.NewValidationError("Invalid order type",
			apperror.FieldError{Field: "orderType", Message: "must be Dine-in, Takeaway or Bill"})
	}
	if input.OrderType == enum.OrderTypeDineIn {
		if input.TableID == nil || *input.TableID == uuid.Nil {
			return apperror.NewValidationError("Table is required for Dine-in orders",
				apperror.FieldError{Field: "tableId", Message: "is required for Dine-in orders"})
		}
		if input.PaymentType != "" && !input.PaymentType.IsValid() {
			return invalidPaymentType()
		}
	} else {
		if input.PaymentType == "" {
			return apperror.NewValidationError("Payment type is required",
				apperror.FieldError{Field: "paymentType", Message: "is required for " + string(input.OrderType) + " orders"})
		}
		if !input.PaymentType.IsValid() {
			return invalidPaymentType()
		}
		input.TableID = nil
	}
	if input.Discount != nil {
		if err := ValidateDiscount(*input.Discount); err != nil {
			return err
		}
	}
	return validateItems(input.Items)
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return apperror.NewValidationError("At least one item is required",
			apperror.FieldError{Field: "items", Message: "must not be empty"})
	}
	var fieldErrors []apperror.FieldError
	for i, item := range items {
		field := "items[" + strconv.Itoa(i) + "]"
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".productId", Message: "is required"})
		}
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".quantity", Message: "must be at least 1"})
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".unitPrice", Message: "must not be negative"})
		}
		for j, a := range item.Addons {
			af := field + ".addons[" + strconv.Itoa(j) + "]"
			if a.Name == "" {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: af + ".name", Message: "is required"})
			}
			if a.Qty <= 0 {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: af + ".qty", Message: "must be at least 1"})
			}
			if a.Price.IsNegative() {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: af + ".price", Message: "must not be negative"})
			}
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError("", fieldErrors...)
	}
	return nil
}

func invalidPaymentType() error {
	return apperror.NewValidationError("Invalid payment type",
		apperror.FieldError{Field: "paymentType", Message: "must be one of Cash, UPI, Card, Swiggy, Zomato, Other"})
}

func billNotFound(billNumber int64) error {
	return apperror.NewNotFoundError("Bill").WithDetail("bill_number", billNumber)
}

// buildLines prices the requested items. Catalog prices apply unless the
// line carries its own.
func buildLines(items []ItemInput, products map[uuid.UUID]*entity.Product) []entity.OrderItem {
	lines := make([]entity.OrderItem, 0, len(items))
	for i, item := range items {
		price := decimal.Zero
		if p, ok := products[item.ProductID]; ok {
			price = p.Price
		}
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		addons := make([]entity.Addon, len(item.Addons))
		for j, a := range item.Addons {
			addons[j] = entity.Addon{Name: a.Name, Qty: a.Qty, Price: a.Price}
		}
		lines = append(lines, entity.OrderItem{
			Position:   i,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  price,
			TotalPrice: entity.LineTotal(price, item.Quantity, addons),
			Addons:     addons,
		})
	}
	return lines
}

func newBill(order *entity.Order, products map[uuid.UUID]*entity.Product, createdBy *uuid.UUID) *entity.Bill {
	return &entity.Bill{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableID:     order.TableID,
		Type:        order.OrderType,
		PaymentType: order.PaymentType,
		Items:       billItems(order.Items, products),
		Charges:     order.Charges,
		CreatedBy:   createdBy,
	}
}

func billItems(lines []entity.OrderItem, products map[uuid.UUID]*entity.Product) []entity.BillItem {
	items := make([]entity.BillItem, 0, len(lines))
	for _, l := range lines {
		name := "Item " + l.ProductID.String()[:8]
		if p, ok := products[l.ProductID]; ok {
			name = p.Name
		}
		addons := make([]entity.Addon, len(l.Addons))
		copy(addons, l.Addons)
		items = append(items, entity.BillItem{
			ProductID:  l.ProductID,
			Name:       name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
			Addons:     addons,
		})
	}
	return items
}

func productIDs(items []ItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func orderProductIDs(items []entity.OrderItem) []uuid.UUID {
	in := make([]ItemInput, len(items))
	for i, item := range items {
		in[i].ProductID = item.ProductID
	}
	return productIDs(in)
}

func sortedIDs(m map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}
