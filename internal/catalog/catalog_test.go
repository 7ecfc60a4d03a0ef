package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestService_ListPagination(t *testing.T) {
	store := newFakeProducts(models.Product{ID: primitive.NewObjectID(), Name: "Football"})
	store.total = 41
	svc := NewService(store, nil)

	page, err := svc.List(context.Background(), "  foot ", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(3), page.Pages)
	assert.Equal(t, "foot", store.lastList.keyword)
	assert.Equal(t, int64(PageSize), store.lastList.size)
	assert.Len(t, page.Products, 1)
}

func TestService_CreateDefaults(t *testing.T) {
	svc := NewService(newFakeProducts(), nil)
	owner := primitive.NewObjectID()

	p, err := svc.Create(context.Background(), owner, repository.ProductChanges{Name: ptr("Racket"), CountInStock: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, "Racket", p.Name)
	assert.Equal(t, "none", p.Brand)
	assert.Equal(t, "Sample Category", p.Category)
	assert.Equal(t, "/images/sample.jpg", p.Image)
	assert.Equal(t, 7, p.CountInStock)
	assert.Equal(t, owner, *p.User)

	_, err = svc.Create(context.Background(), owner, repository.ProductChanges{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), owner, repository.ProductChanges{Price: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_UpdateAcceptsExplicitZero(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID(), Name: "Racket", Price: 40, CountInStock: 3, Brand: "Yonex"}
	store := newFakeProducts(p)
	svc := NewService(store, nil)

	updated, err := svc.Update(context.Background(), p.ID, repository.ProductChanges{
		Name:         ptr(""),
		Brand:        ptr("  "),
		Price:        ptr(0.0),
		CountInStock: ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Racket", updated.Name)
	assert.Equal(t, "Yonex", updated.Brand)
	assert.Equal(t, 0.0, updated.Price)
	assert.Equal(t, 0, updated.CountInStock)

	_, err = svc.Update(context.Background(), primitive.NewObjectID(), repository.ProductChanges{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_ReviewUniqueness(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID(), Name: "Racket"}
	store := newFakeProducts(p)
	svc := NewService(store, nil)
	ann := Reviewer{UserID: primitive.NewObjectID(), Name: "Ann"}

	reviewed, err := svc.AddReview(context.Background(), p.ID, ann, 4, "Great grip")
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.NumReviews)
	assert.Equal(t, 4.0, reviewed.Rating)

	_, err = svc.AddReview(context.Background(), p.ID, ann, 1, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	after, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.NumReviews)
	assert.Equal(t, 4.0, after.Rating)
}

func TestService_ReviewValidationAndSanitising(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID()}
	svc := NewService(newFakeProducts(p), nil)
	bob := Reviewer{UserID: primitive.NewObjectID(), Name: "Bob"}

	for _, rating := range []int{0, 6} {
		_, err := svc.AddReview(context.Background(), p.ID, bob, rating, "")
		assert.ErrorIs(t, err, ErrValidation)
	}

	reviewed, err := svc.AddReview(context.Background(), p.ID, bob, 5, `<script>alert(1)</script><b>Solid</b> bat`)
	require.NoError(t, err)
	assert.Equal(t, "Solid bat", reviewed.Reviews[0].Comment)

	_, err = svc.AddReview(context.Background(), primitive.NewObjectID(), bob, 5, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_ReviewKeepsPlainTextCharacters(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID()}
	svc := NewService(newFakeProducts(p), nil)
	cara := Reviewer{UserID: primitive.NewObjectID(), Name: "Cara"}

	reviewed, err := svc.AddReview(context.Background(), p.ID, cara, 5, `Great for Tom & Jerry's "5-a-side" <3`)
	require.NoError(t, err)
	assert.Equal(t, `Great for Tom & Jerry's "5-a-side" <3`, reviewed.Reviews[0].Comment)
}

func TestService_Delete(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID()}
	svc := NewService(newFakeProducts(p), nil)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID), ErrProductNotFound)
}

func TestCategories(t *testing.T) {
	svc := NewCategories(newFakeCategories())
	ctx := context.Background()

	shoes, err := svc.Create(ctx, CategoryInput{Name: "  Shoes "})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", shoes.Name)

	_, err = svc.Create(ctx, CategoryInput{Name: "Shoes"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = svc.Create(ctx, CategoryInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidation)

	balls, err := svc.Create(ctx, CategoryInput{Name: "Balls"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, balls.ID, CategoryInput{Name: "Shoes"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	updated, err := svc.Update(ctx, balls.ID, CategoryInput{Description: "Round things"})
	require.NoError(t, err)
	assert.Equal(t, "Balls", updated.Name)
	assert.Equal(t, "Round things", updated.Description)

	require.NoError(t, svc.Delete(ctx, shoes.ID))
	_, err = svc.Get(ctx, shoes.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestBanners(t *testing.T) {
	store := &fakeBanners{}
	svc := NewBanners(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "Sale", "/sale")
	assert.ErrorIs(t, err, ErrValidation)

	b, err := svc.Create(ctx, "/images/hero.jpg", "Sale", "/sale")
	require.NoError(t, err)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), ErrBannerNotFound)
}
