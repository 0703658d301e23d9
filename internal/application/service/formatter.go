package service

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/pkg/money"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/shopspring/decimal"
)

const (
	unknownStationID   = "unknown"
	unknownStationName = "Unknown"
	timeLayout         = "02/01/2006 15:04"
)

// PrintContext carries the lookups a renderer needs besides the order
// itself. It is resolved by the caller so rendering stays pure.
type PrintContext struct {
	Products  map[uuid.UUID]*entity.Product
	Kitchens  map[uuid.UUID]*entity.Kitchen
	TableName string
	PrintedAt time.Time
}

func (p *PrintContext) productName(id uuid.UUID) string {
	if prod, ok := p.Products[id]; ok {
		return prod.Name
	}
	return "Item " + id.String()[:8]
}

func (p *PrintContext) station(productID uuid.UUID) (string, string) {
	prod, ok := p.Products[productID]
	if !ok || prod.KitchenID == nil {
		return unknownStationID, unknownStationName
	}
	name := unknownStationName
	if k, ok := p.Kitchens[*prod.KitchenID]; ok && k.Name != "" {
		name = k.Name
	}
	return prod.KitchenID.String(), name
}

// Formatter renders kitchen tickets, tokens and receipts as fixed-width text.
type Formatter struct {
	width int
}

// NewFormatter creates a formatter for paper of the given character width.
func NewFormatter(width int) *Formatter {
	if width < 32 {
		width = 40
	}
	return &Formatter{width: width}
}

type ticketLine struct {
	name   string
	qty    int
	addons []entity.Addon
}

type stationBlock struct {
	id    string
	name  string
	lines []*ticketLine
	index map[string]*ticketLine
}

// KitchenTickets renders one ticket per kitchen station. Lines with the
// same product and add-ons are printed once with their quantities summed.
func (f *Formatter) KitchenTickets(order *entity.Order, pctx *PrintContext) []entity.KitchenTicket {
	var blocks []*stationBlock
	byStation := make(map[string]*stationBlock)

	for _, item := range order.Items {
		id, name := pctx.station(item.ProductID)
		block, ok := byStation[id]
		if !ok {
			block = &stationBlock{id: id, name: name, index: make(map[string]*ticketLine)}
			byStation[id] = block
			blocks = append(blocks, block)
		}

		sig := entity.Signature(item.ProductID, item.UnitPrice, item.Addons)
		if line, ok := block.index[sig]; ok {
			line.qty += item.Quantity
			line.addons = entity.MergeAddons(line.addons, item.Addons)
			continue
		}
		line := &ticketLine{
			name:   pctx.productName(item.ProductID),
			qty:    item.Quantity,
			addons: entity.MergeAddons(nil, item.Addons),
		}
		block.index[sig] = line
		block.lines = append(block.lines, line)
	}

	where := "Takeaway Order"
	if pctx.TableName != "" {
		where = "Table: " + pctx.TableName
	}

	tickets := make([]entity.KitchenTicket, 0, len(blocks))
	for _, block := range blocks {
		l := printer.NewLayout(f.width).
			Center("KITCHEN ORDER TICKET").
			Center(block.name).
			Separator('-').
			Line("Order: " + order.OrderNumber).
			Line(where).
			Line("Time: " + pctx.PrintedAt.Format(timeLayout)).
			Separator('-')
		cols := []printer.Column{{Width: 5}, {Width: f.width - 5}}
		l.Row(cols, "Qty", "Item")
		for _, line := range block.lines {
			l.Row(cols, strconv.Itoa(line.qty), line.name)
			for _, a := range line.addons {
				l.Row(cols, "", "+ "+a.Name+" x"+strconv.Itoa(a.Qty))
			}
		}
		l.Separator('-')
		tickets = append(tickets, entity.KitchenTicket{
			StationID:   block.id,
			StationName: block.name,
			Content:     l.String(),
		})
	}
	return tickets
}

// Token renders the customer slip: order number, time and quantities only.
func (f *Formatter) Token(order *entity.Order, pctx *PrintContext) string {
	l := printer.NewLayout(f.width).
		Center("TOKEN").
		Center(order.OrderNumber).
		Line("Time: " + pctx.PrintedAt.Format(timeLayout)).
		Separator('-')
	for _, item := range order.Items {
		l.Line(strconv.Itoa(item.Quantity) + " x " + pctx.productName(item.ProductID))
		for _, a := range item.Addons {
			l.Line("  + " + a.Name + " x" + strconv.Itoa(a.Qty))
		}
	}
	return l.Separator('-').String()
}

// Receipt renders the customer bill.
func (f *Formatter) Receipt(bill *entity.Bill, settings *entity.StoreSettings, pctx *PrintContext) string {
	l := printer.NewLayout(f.width)

	if settings != nil {
		l.Center(settings.StoreName).
			Center(settings.StoreAddress)
		if settings.StoreContact != "" {
			l.Center("Ph: " + settings.StoreContact)
		}
		if settings.GSTAvailable && settings.GSTNumber != "" {
			l.Center("GSTIN: " + settings.GSTNumber)
		}
		if settings.FSSAIAvailable && settings.FSSAINumber != "" {
			l.Center("FSSAI: " + settings.FSSAINumber)
		}
	}

	printedAt := bill.CreatedAt
	if printedAt.IsZero() {
		printedAt = pctx.PrintedAt
	}

	l.Separator('=').
		KeyValue("Bill No: "+strconv.FormatInt(bill.BillNumber, 10), bill.OrderNumber).
		KeyValue("Date: "+printedAt.Format(timeLayout), string(bill.Type))
	if pctx.TableName != "" {
		l.Line("Table: " + pctx.TableName)
	}
	if bill.PaymentType != "" {
		l.Line("Payment: " + string(bill.PaymentType))
	}
	l.Separator('-')

	cols := []printer.Column{
		{Width: f.width - 22},
		{Width: 4, Right: true},
		{Width: 8, Right: true},
		{Width: 10, Right: true},
	}
	l.Row(cols, "Item", "Qty", "Rate", "Total")
	l.Separator('-')
	for _, item := range bill.Items {
		base := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		l.Row(cols, item.Name, strconv.Itoa(item.Quantity), amount(item.UnitPrice), amount(base))
		for _, a := range item.Addons {
			addonTotal := a.Price.Mul(decimal.NewFromInt(int64(a.Qty)))
			l.Row(cols, " + "+a.Name, strconv.Itoa(a.Qty), amount(a.Price), amount(addonTotal))
		}
	}
	l.Separator('-')

	c := bill.Charges
	l.KeyValue("Subtotal", amount(c.TotalAmount))
	if !c.DiscountAmount.IsZero() {
		label := "Discount"
		if c.DiscountType == enum.DiscountPercentage {
			label += " (" + c.DiscountValue.String() + "%)"
		}
		l.KeyValue(label, "-"+amount(c.DiscountAmount))
	}
	if c.TaxStatus && !c.TaxAmount.IsZero() {
		if !c.IGST.IsZero() {
			l.KeyValue("IGST @ "+c.IGSTRate.String()+"%", amount(c.IGST))
		} else {
			l.KeyValue("SGST @ "+c.SGSTRate.String()+"%", amount(c.SGST))
			l.KeyValue("CGST @ "+c.CGSTRate.String()+"%", amount(c.CGST))
		}
	}
	if !c.RoundOff.IsZero() {
		sign := "+"
		if c.RoundOff.IsNegative() {
			sign = ""
		}
		l.KeyValue("Round Off", sign+amount(c.RoundOff))
	}
	l.Separator('=').
		KeyValue("GRAND TOTAL", amount(c.GrandTotal)).
		Separator('=').
		Wrap("Rupees " + money.InWords(c.GrandTotal) + " Only")
	if bill.PaymentType.CollectedAtCounter() {
		l.KeyValue("Received ("+string(bill.PaymentType)+")", amount(c.GrandTotal))
	}
	return l.Blank().
		Center("Thank you! Visit again").
		String()
}

// TestSlip is printed by the printer test endpoint.
func (f *Formatter) TestSlip(target, endpoint string, at time.Time) string {
	return printer.NewLayout(f.width).
		Center("PRINTER TEST").
		Separator('-').
		KeyValue("Target", target).
		KeyValue("Endpoint", endpoint).
		KeyValue("Time", at.Format(timeLayout)).
		Separator('-').
		String()
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
