package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/repository"
)

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Find(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	Insert(ctx context.Context, category *models.Category) error
	Replace(ctx context.Context, category models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryInput struct {
	Name        string
	Image       string
	Description string
}

type Categories struct {
	store CategoryStore
	now   func() time.Time
}

func NewCategories(store CategoryStore) *Categories {
	return &Categories{store: store, now: time.Now}
}

func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	return s.store.List(ctx)
}

func (s *Categories) Get(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	c, err := s.store.Find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (s *Categories) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	now := s.now().UTC()
	c := models.Category{
		Name:        name,
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.store.Insert(ctx, &c)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Category{}, ErrCategoryExists
	}
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Update overwrites the fields that are not blank.
func (s *Categories) Update(ctx context.Context, id primitive.ObjectID, in CategoryInput) (models.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if image := strings.TrimSpace(in.Image); image != "" {
		c.Image = image
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		c.Description = desc
	}
	c.UpdatedAt = s.now().UTC()

	err = s.store.Replace(ctx, c)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return models.Category{}, ErrCategoryExists
	case errors.Is(err, repository.ErrNotFound):
		return models.Category{}, ErrCategoryNotFound
	case err != nil:
		return models.Category{}, err
	}
	return c, nil
}

func (s *Categories) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
