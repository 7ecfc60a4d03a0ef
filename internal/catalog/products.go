// Package catalog manages products, reviews, categories and homepage
// banners.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"sportsgear/internal/models"
	"sportsgear/internal/repository"
)

const (
	PageSize    = 20
	topProducts = 3
)

type ProductStore interface {
	Find(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	List(ctx context.Context, keyword string, page, size int64) ([]models.Product, int64, error)
	Top(ctx context.Context, limit int64) ([]models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, changes repository.ProductChanges) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Product, error)
}

// Page is one page of the product listing.
type Page struct {
	Products []models.Product `json:"products"`
	Page     int64            `json:"page"`
	Pages    int64            `json:"pages"`
}

// Reviewer is the signed-in user submitting a review.
type Reviewer struct {
	UserID primitive.ObjectID
	Name   string
}

type Service struct {
	store     ProductStore
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(store ProductStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, keyword string, page int64) (Page, error) {
	if page < 1 {
		page = 1
	}
	products, total, err := s.store.List(ctx, strings.TrimSpace(keyword), page, PageSize)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Products: products,
		Page:     page,
		Pages:    int64(math.Ceil(float64(total) / PageSize)),
	}, nil
}

func (s *Service) Top(ctx context.Context) ([]models.Product, error) {
	return s.store.Top(ctx, topProducts)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	p, err := s.store.Find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

// Create stores a new product owned by the admin, filling placeholder
// values for anything the form left out.
func (s *Service) Create(ctx context.Context, owner primitive.ObjectID, in repository.ProductChanges) (models.Product, error) {
	if in.Empty() {
		return models.Product{}, fmt.Errorf("%w: no data received in request body", ErrValidation)
	}
	if err := validateChanges(in); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	p := models.Product{
		User:           &owner,
		Name:           orDefault(in.Name, "Sample Name"),
		Image:          orDefault(in.Image, "/images/sample.jpg"),
		Brand:          orDefault(in.Brand, "none"),
		Category:       orDefault(in.Category, "Sample Category"),
		Description:    orDefault(in.Description, "Sample description"),
		Colors:         []models.ColorVariant{},
		AvailableSizes: models.StringList{},
		Reviews:        []models.Review{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CountInStock != nil {
		p.CountInStock = *in.CountInStock
	}
	if in.Colors != nil {
		p.Colors = *in.Colors
	}
	if in.AvailableSizes != nil {
		p.AvailableSizes = *in.AvailableSizes
	}

	if err := s.store.Insert(ctx, &p); err != nil {
		return models.Product{}, err
	}
	s.logger.Info("product created", zap.String("productId", p.ID.Hex()), zap.String("name", p.Name))
	return p, nil
}

// Update applies a partial edit. Blank strings keep the stored value while
// price and stock accept an explicit zero.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in repository.ProductChanges) (models.Product, error) {
	in.Name = nonBlank(in.Name)
	in.Description = nonBlank(in.Description)
	in.Image = nonBlank(in.Image)
	in.Brand = nonBlank(in.Brand)
	in.Category = nonBlank(in.Category)
	if err := validateChanges(in); err != nil {
		return models.Product{}, err
	}

	p, err := s.store.Update(ctx, id, in)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

// AddReview records one review per user and product. The comment is
// stripped of markup before it is stored.
func (s *Service) AddReview(ctx context.Context, id primitive.ObjectID, by Reviewer, rating int, comment string) (models.Product, error) {
	if by.UserID.IsZero() {
		return models.Product{}, fmt.Errorf("%w: reviewer is required", ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return models.Product{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		User:      by.UserID,
		Name:      by.Name,
		Rating:    rating,
		Comment:   s.plainText(comment),
		CreatedAt: s.now().UTC(),
	}

	p, err := s.store.AddReview(ctx, id, review)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.Product{}, ErrProductNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return models.Product{}, ErrAlreadyReviewed
	case err != nil:
		return models.Product{}, err
	}
	return p, nil
}

func validateChanges(in repository.ProductChanges) error {
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.CountInStock != nil && *in.CountInStock < 0 {
		return fmt.Errorf("%w: countInStock must not be negative", ErrValidation)
	}
	return nil
}

func orDefault(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

func nonBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// plainText strips markup from a review comment. Comments are rendered as
// text by clients, so the entities the sanitizer emits are decoded again.
func (s *Service) plainText(comment string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(comment)))
}
