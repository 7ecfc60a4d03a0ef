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

type BannerStore interface {
	List(ctx context.Context) ([]models.Banner, error)
	Insert(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Banners struct {
	store BannerStore
	now   func() time.Time
}

func NewBanners(store BannerStore) *Banners {
	return &Banners{store: store, now: time.Now}
}

func (s *Banners) List(ctx context.Context) ([]models.Banner, error) {
	return s.store.List(ctx)
}

func (s *Banners) Create(ctx context.Context, image, title, link string) (models.Banner, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return models.Banner{}, fmt.Errorf("%w: image is required", ErrValidation)
	}

	b := models.Banner{
		Image:     image,
		Title:     strings.TrimSpace(title),
		Link:      strings.TrimSpace(link),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, &b); err != nil {
		return models.Banner{}, err
	}
	return b, nil
}

func (s *Banners) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBannerNotFound
	}
	return err
}
