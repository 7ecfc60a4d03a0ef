// Package orders implements the order lifecycle: checkout with stock
// reconciliation, payment and delivery marking, and status transitions.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sportsgear/internal/models"
	"sportsgear/internal/notify"
	"sportsgear/internal/repository"
)

var tracer = otel.Tracer("sportsgear/internal/orders")

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	UserID  primitive.ObjectID
	IsAdmin bool
	Email   string
	Name    string
}

func (a Actor) authenticated() bool { return !a.UserID.IsZero() }

func (a Actor) canAccess(order models.Order) bool {
	return a.IsAdmin || order.User == a.UserID
}

type Catalog interface {
	Find(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	// ReserveStock decrements only when the stock covers qty.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error
	// DeductStock decrements and clamps at zero.
	DeductStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	Replace(ctx context.Context, order models.Order) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Invalidator drops derived data that depends on the order collection.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Deps struct {
	Orders   OrderStore
	Catalog  Catalog
	Notifier notify.Sender
	Stats    Invalidator
	// Tx is optional. Without it checkout falls back to sequential
	// best-effort stock deduction.
	Tx                Transactor
	Pricing           Pricing
	StrictTransitions bool
	Logger            *zap.Logger
	Now               func() time.Time
}

type Engine struct {
	orders   OrderStore
	catalog  Catalog
	notifier notify.Sender
	stats    Invalidator
	tx       Transactor
	pricing  Pricing
	strict   bool
	logger   *zap.Logger
	now      func() time.Time
}

func NewEngine(d Deps) *Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Engine{
		orders:   d.Orders,
		catalog:  d.Catalog,
		notifier: d.Notifier,
		stats:    d.Stats,
		tx:       d.Tx,
		pricing:  d.Pricing,
		strict:   d.StrictTransitions,
		logger:   d.Logger,
		now:      d.Now,
	}
}

// Outcome is a committed order plus the best-effort steps that failed after
// the commit.
type Outcome struct {
	Order    models.Order
	Deferred []SideEffectError
}

type PlaceOrderRequest struct {
	Items           []LineItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	// ClientTotals are the amounts the client displayed. They are compared
	// against the server quote and never stored.
	ClientTotals *Totals
}

var paymentMethods = map[string]struct{}{
	models.PaymentCashOnDelivery: {},
	models.PaymentPayPal:         {},
	models.PaymentCard:           {},
}

// demand is the total quantity requested for one product across line items.
type demand struct {
	product models.Product
	qty     int
}

func (e *Engine) PlaceOrder(ctx context.Context, actor Actor, req PlaceOrderRequest) (out Outcome, err error) {
	ctx, span := tracer.Start(ctx, "orders.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", actor.UserID.Hex()),
		attribute.Int("order.items", len(req.Items)),
	))
	defer func() { endSpan(span, err) }()

	if !actor.authenticated() {
		return Outcome{}, ErrUnauthenticated
	}
	if err := validatePlaceOrder(req); err != nil {
		return Outcome{}, err
	}

	demands, err := e.collectDemand(ctx, req.Items)
	if err != nil {
		return Outcome{}, err
	}

	now := e.now().UTC()
	order := models.Order{
		User:            actor.UserID,
		OrderItems:      snapshotItems(req.Items, demands),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	quote := e.pricing.Quote(order.OrderItems)
	quote.applyTo(&order)
	if req.ClientTotals != nil && !quote.Matches(*req.ClientTotals) {
		e.logger.Warn("client totals differ from server quote",
			zap.String("userId", actor.UserID.Hex()),
			zap.String("clientTotal", req.ClientTotals.Total.StringFixed(2)),
			zap.String("serverTotal", quote.Total.StringFixed(2)),
		)
	}

	if e.tx != nil {
		out, err = e.commitAtomic(ctx, order, demands)
	} else {
		out, err = e.commitBestEffort(ctx, order, demands)
	}
	if err != nil {
		return Outcome{}, err
	}

	if err := e.sendConfirmation(ctx, actor, out.Order); err != nil {
		out.Deferred = append(out.Deferred, SideEffectError{Effect: "notify", Err: err})
	}
	out.Deferred = append(out.Deferred, e.invalidateStats(ctx)...)
	e.logDeferred(out)

	span.SetAttributes(attribute.String("order.id", out.Order.ID.Hex()))
	return out, nil
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyOrder
	}
	if _, ok := paymentMethods[req.PaymentMethod]; !ok {
		return validationError("unsupported payment method %q", req.PaymentMethod)
	}

	addr := req.ShippingAddress
	for _, f := range []struct{ name, value string }{
		{"address", addr.Address},
		{"city", addr.City},
		{"postalCode", addr.PostalCode},
		{"country", addr.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			return validationError("shipping %s is required", f.name)
		}
	}

	for _, item := range req.Items {
		if item.Ref.ProductID.IsZero() {
			return validationError("line item is missing a product")
		}
		if item.Qty < 1 {
			return validationError("quantity must be at least 1")
		}
	}
	return nil
}

// collectDemand resolves every referenced product and checks the summed
// quantity per product against its stock before anything is written.
func (e *Engine) collectDemand(ctx context.Context, items []LineItem) ([]*demand, error) {
	byID := make(map[primitive.ObjectID]*demand, len(items))
	ordered := make([]*demand, 0, len(items))

	for _, item := range items {
		id := item.Ref.ProductID
		if d, ok := byID[id]; ok {
			d.qty += item.Qty
			continue
		}

		product, err := e.catalog.Find(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id.Hex())
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", id.Hex(), err)
		}

		d := &demand{product: product, qty: item.Qty}
		byID[id] = d
		ordered = append(ordered, d)
	}

	for _, d := range ordered {
		if d.qty > d.product.CountInStock {
			return nil, &StockError{
				ProductID: d.product.ID,
				Name:      d.product.Name,
				Available: d.product.CountInStock,
				Requested: d.qty,
			}
		}
	}
	return ordered, nil
}

func snapshotItems(items []LineItem, demands []*demand) []models.OrderItem {
	products := make(map[primitive.ObjectID]models.Product, len(demands))
	for _, d := range demands {
		products[d.product.ID] = d.product
	}

	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		p := products[item.Ref.ProductID]
		out = append(out, models.OrderItem{
			Product: p.ID,
			Name:    p.Name,
			Qty:     item.Qty,
			Image:   p.ImageFor(item.Ref.Color),
			Price:   p.Price,
			Color:   item.Ref.Color,
			Size:    item.Ref.Size,
		})
	}
	return out
}

// commitAtomic reserves stock with conditional decrements and inserts the
// order in one transaction. A concurrent checkout that drained a product
// aborts the whole order.
func (e *Engine) commitAtomic(ctx context.Context, order models.Order, demands []*demand) (Outcome, error) {
	var committed models.Order
	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o := order
		for _, d := range demands {
			err := e.catalog.ReserveStock(ctx, d.product.ID, d.qty)
			switch {
			case errors.Is(err, repository.ErrInsufficientStock):
				return e.stockError(ctx, d)
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%w: %s", ErrProductNotFound, d.product.ID.Hex())
			case err != nil:
				return fmt.Errorf("failed to reserve stock: %w", err)
			}
		}

		o.StockReduced = true
		if err := e.orders.Insert(ctx, &o); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		committed = o
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Order: committed}, nil
}

func (e *Engine) stockError(ctx context.Context, d *demand) error {
	available := 0
	if current, err := e.catalog.Find(ctx, d.product.ID); err == nil {
		available = current.CountInStock
	}
	return &StockError{
		ProductID: d.product.ID,
		Name:      d.product.Name,
		Available: available,
		Requested: d.qty,
	}
}

// commitBestEffort persists the order first and then deducts stock product
// by product. Only the insert can fail the checkout; later failures leave
// stockReduced unset for reconciliation.
func (e *Engine) commitBestEffort(ctx context.Context, order models.Order, demands []*demand) (Outcome, error) {
	order.StockReduced = false
	if err := e.orders.Insert(ctx, &order); err != nil {
		return Outcome{}, fmt.Errorf("failed to create order: %w", err)
	}

	out := Outcome{Order: order}
	if err := e.deductAll(ctx, order.ID, demands); err != nil {
		out.Deferred = append(out.Deferred, SideEffectError{Effect: "stock", Err: err})
		return out, nil
	}

	order.StockReduced = true
	order.UpdatedAt = e.now().UTC()
	if err := e.orders.Replace(ctx, order); err != nil {
		out.Deferred = append(out.Deferred, SideEffectError{Effect: "stock flag", Err: err})
		return out, nil
	}
	out.Order = order
	return out, nil
}

// deductAll applies clamped decrements. Products deleted since the order was
// placed are skipped.
func (e *Engine) deductAll(ctx context.Context, orderID primitive.ObjectID, demands []*demand) error {
	for _, d := range demands {
		err := e.catalog.DeductStock(ctx, d.product.ID, d.qty)
		if errors.Is(err, repository.ErrNotFound) {
			e.logger.Warn("product gone, stock not deducted",
				zap.String("orderId", orderID.Hex()),
				zap.String("productId", d.product.ID.Hex()),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to deduct stock for %s: %w", d.product.ID.Hex(), err)
		}
	}
	return nil
}

func demandsFromItems(items []models.OrderItem) []*demand {
	byID := make(map[primitive.ObjectID]*demand, len(items))
	out := make([]*demand, 0, len(items))
	for _, item := range items {
		if d, ok := byID[item.Product]; ok {
			d.qty += item.Qty
			continue
		}
		d := &demand{product: models.Product{ID: item.Product, Name: item.Name}, qty: item.Qty}
		byID[item.Product] = d
		out = append(out, d)
	}
	return out
}

func (e *Engine) sendConfirmation(ctx context.Context, actor Actor, order models.Order) error {
	if e.notifier == nil || actor.Email == "" {
		return nil
	}

	items := make([]map[string]any, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, map[string]any{
			"name":  item.Name,
			"qty":   item.Qty,
			"price": item.Price,
			"color": item.Color,
			"size":  item.Size,
		})
	}

	msg := notify.NewMessage(notify.KindOrderConfirmation, actor.Email, actor.Name,
		"Order Confirmation - SportsGear",
		map[string]any{
			"orderId":       order.ID.Hex(),
			"items":         items,
			"totalPrice":    order.TotalPrice,
			"paymentMethod": order.PaymentMethod,
		},
	)
	return e.notifier.Send(ctx, msg)
}

func (e *Engine) invalidateStats(ctx context.Context) []SideEffectError {
	if e.stats == nil {
		return nil
	}
	if err := e.stats.Invalidate(ctx); err != nil {
		return []SideEffectError{{Effect: "stats cache", Err: err}}
	}
	return nil
}

func (e *Engine) logDeferred(out Outcome) {
	for _, d := range out.Deferred {
		e.logger.Warn("order side effect failed",
			zap.String("orderId", out.Order.ID.Hex()),
			zap.String("effect", d.Effect),
			zap.Error(d.Err),
		)
	}
}

// MarkPaid records the payment receipt. Stock is deducted here when the
// order has not had it deducted yet; repeated calls overwrite the receipt
// but never deduct twice.
func (e *Engine) MarkPaid(ctx context.Context, actor Actor, id primitive.ObjectID, receipt models.PaymentResult) (order models.Order, err error) {
	ctx, span := tracer.Start(ctx, "orders.MarkPaid", trace.WithAttributes(attribute.String("order.id", id.Hex())))
	defer func() { endSpan(span, err) }()

	if !actor.authenticated() {
		return models.Order{}, ErrUnauthenticated
	}

	err = e.inTx(ctx, func(ctx context.Context) error {
		o, err := e.load(ctx, id)
		if err != nil {
			return err
		}
		if !actor.canAccess(o) {
			return ErrForbidden
		}
		if o.Status == models.OrderStatusCancelled {
			return fmt.Errorf("%w: cannot mark as paid", ErrOrderCancelled)
		}

		now := e.now().UTC()
		o.IsPaid = true
		o.PaidAt = &now
		o.PaymentResult = &receipt

		if !o.StockReduced {
			if err := e.deductAll(ctx, o.ID, demandsFromItems(o.OrderItems)); err != nil {
				return err
			}
			o.StockReduced = true
		}

		o.UpdatedAt = now
		if err := e.orders.Replace(ctx, o); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// MarkDelivered flags the order delivered without touching status or
// payment.
func (e *Engine) MarkDelivered(ctx context.Context, actor Actor, id primitive.ObjectID) (order models.Order, err error) {
	ctx, span := tracer.Start(ctx, "orders.MarkDelivered", trace.WithAttributes(attribute.String("order.id", id.Hex())))
	defer func() { endSpan(span, err) }()

	if err := requireAdmin(actor); err != nil {
		return models.Order{}, err
	}

	order, err = e.load(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status == models.OrderStatusCancelled {
		return models.Order{}, fmt.Errorf("%w: cannot mark as delivered", ErrOrderCancelled)
	}

	now := e.now().UTC()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.UpdatedAt = now
	if err := e.orders.Replace(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// UpdateStatus moves the order to target and applies the payment and
// delivery effects of that status.
func (e *Engine) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, target string) (out Outcome, err error) {
	ctx, span := tracer.Start(ctx, "orders.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id.Hex()),
		attribute.String("order.status", target),
	))
	defer func() { endSpan(span, err) }()

	if err := requireAdmin(actor); err != nil {
		return Outcome{}, err
	}
	to, err := ParseStatus(target)
	if err != nil {
		return Outcome{}, err
	}

	order, err := e.load(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	effect, err := Transition(order.Status, to, e.strict)
	if err != nil {
		return Outcome{}, err
	}

	now := e.now().UTC()
	effect.Apply(&order, now)
	order.UpdatedAt = now
	if err := e.orders.Replace(ctx, order); err != nil {
		return Outcome{}, fmt.Errorf("failed to save order: %w", err)
	}

	out = Outcome{Order: order, Deferred: e.invalidateStats(ctx)}
	e.logDeferred(out)
	return out, nil
}

func (e *Engine) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (models.Order, error) {
	if !actor.authenticated() {
		return models.Order{}, ErrUnauthenticated
	}
	order, err := e.load(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !actor.canAccess(order) {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

func (e *Engine) ListMine(ctx context.Context, actor Actor) ([]models.Order, error) {
	if !actor.authenticated() {
		return nil, ErrUnauthenticated
	}
	orders, err := e.orders.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return normalizeAll(orders), nil
}

func (e *Engine) ListAll(ctx context.Context, actor Actor) ([]models.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	orders, err := e.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return normalizeAll(orders), nil
}

func (e *Engine) load(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	order, err := e.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	order.Status = NormalizeStatus(order.Status)
	return order, nil
}

func (e *Engine) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.tx == nil {
		return fn(ctx)
	}
	return e.tx.WithTransaction(ctx, fn)
}

func requireAdmin(actor Actor) error {
	if !actor.authenticated() {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func normalizeAll(orders []models.Order) []models.Order {
	for i := range orders {
		orders[i].Status = NormalizeStatus(orders[i].Status)
	}
	return orders
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
