package catalog

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/repository"
)

type fakeProducts struct {
	products map[primitive.ObjectID]models.Product
	lastList struct {
		keyword    string
		page, size int64
	}
	total int64
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range ps {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Find(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) List(_ context.Context, keyword string, page, size int64) ([]models.Product, int64, error) {
	f.lastList.keyword, f.lastList.page, f.lastList.size = keyword, page, size
	out := []models.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) {
			out = append(out, p)
		}
	}
	return out, f.total, nil
}

func (f *fakeProducts) Top(_ context.Context, limit int64) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if int64(len(out)) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Insert(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, c repository.ProductChanges) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.CountInStock != nil {
		p.CountInStock = *c.CountInStock
	}
	if c.Brand != nil {
		p.Brand = *c.Brand
	}
	f.products[id] = p
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProducts) AddReview(_ context.Context, id primitive.ObjectID, r models.Review) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	for _, existing := range p.Reviews {
		if existing.User == r.User {
			return models.Product{}, repository.ErrDuplicate
		}
	}
	p.Reviews = append(p.Reviews, r)
	sum := 0
	for _, existing := range p.Reviews {
		sum += existing.Rating
	}
	p.NumReviews = len(p.Reviews)
	p.Rating = float64(sum) / float64(len(p.Reviews))
	f.products[id] = p
	return p, nil
}

type fakeCategories struct {
	items map[primitive.ObjectID]models.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{items: map[primitive.ObjectID]models.Category{}}
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategories) Find(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return models.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategories) nameTaken(name string, except primitive.ObjectID) bool {
	for id, c := range f.items {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (f *fakeCategories) Insert(_ context.Context, c *models.Category) error {
	if f.nameTaken(c.Name, primitive.NilObjectID) {
		return repository.ErrDuplicate
	}
	c.ID = primitive.NewObjectID()
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCategories) Replace(_ context.Context, c models.Category) error {
	if _, ok := f.items[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if f.nameTaken(c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	f.items[c.ID] = c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeBanners struct {
	items []models.Banner
}

func (f *fakeBanners) List(context.Context) ([]models.Banner, error) { return f.items, nil }

func (f *fakeBanners) Insert(_ context.Context, b *models.Banner) error {
	b.ID = primitive.NewObjectID()
	f.items = append(f.items, *b)
	return nil
}

func (f *fakeBanners) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, b := range f.items {
		if b.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
