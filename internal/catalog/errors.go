package catalog

import "errors"

var (
	ErrValidation       = errors.New("invalid input")
	ErrProductNotFound  = errors.New("product not found")
	ErrAlreadyReviewed  = errors.New("product already reviewed")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrBannerNotFound   = errors.New("banner not found")
)
