package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/notify"
	"sportsgear/internal/repository"
)

type fakeCatalog struct {
	mu        sync.Mutex
	products  map[primitive.ObjectID]models.Product
	deductErr error
	// drain simulates a concurrent checkout emptying a product between the
	// pre-check and the reservation.
	drain map[primitive.ObjectID]bool
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	c := &fakeCatalog{products: map[primitive.ObjectID]models.Product{}, drain: map[primitive.ObjectID]bool{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) Find(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (c *fakeCatalog) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if c.drain[id] {
		p.CountInStock = 0
		c.products[id] = p
	}
	if p.CountInStock < qty {
		return repository.ErrInsufficientStock
	}
	p.CountInStock -= qty
	c.products[id] = p
	return nil
}

func (c *fakeCatalog) DeductStock(_ context.Context, id primitive.ObjectID, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deductErr != nil {
		return c.deductErr
	}
	p, ok := c.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.CountInStock = max(0, p.CountInStock-qty)
	c.products[id] = p
	return nil
}

func (c *fakeCatalog) stock(id primitive.ObjectID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[id].CountInStock
}

func (c *fakeCatalog) remove(id primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	insertErr error
	replaces  int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[primitive.ObjectID]models.Order{}}
}

func (s *fakeOrders) Insert(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	order.ID = primitive.NewObjectID()
	s.orders[order.ID] = *order
	return nil
}

func (s *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (s *fakeOrders) Replace(_ context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	s.replaces++
	s.orders[order.ID] = order
	return nil
}

func (s *fakeOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.User == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrders) List(context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeOrders) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *fakeOrders) put(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.orders[o.ID] = o
	return o
}

// fakeTx restores the catalog and order store when fn fails.
type fakeTx struct {
	catalog *fakeCatalog
	orders  *fakeOrders
	calls   int
}

func (tx *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++

	tx.catalog.mu.Lock()
	products := make(map[primitive.ObjectID]models.Product, len(tx.catalog.products))
	for k, v := range tx.catalog.products {
		products[k] = v
	}
	tx.catalog.mu.Unlock()

	tx.orders.mu.Lock()
	orders := make(map[primitive.ObjectID]models.Order, len(tx.orders.orders))
	for k, v := range tx.orders.orders {
		orders[k] = v
	}
	tx.orders.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.catalog.mu.Lock()
		tx.catalog.products = products
		tx.catalog.mu.Unlock()
		tx.orders.mu.Lock()
		tx.orders.orders = orders
		tx.orders.mu.Unlock()
		return err
	}
	return nil
}

type fakeNotifier struct {
	sent []notify.Message
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fakeStats struct {
	calls int
	err   error
}

func (s *fakeStats) Invalidate(context.Context) error {
	s.calls++
	return s.err
}

var errStore = errors.New("store unavailable")

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func product(name string, price float64, stock int) models.Product {
	return models.Product{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Image:        "/images/" + name + ".jpg",
		Price:        price,
		CountInStock: stock,
		Colors: []models.ColorVariant{
			{Name: "Red", Images: []string{"/images/" + name + "-red.jpg"}},
		},
	}
}
