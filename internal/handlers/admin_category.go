package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/catalog"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (r categoryRequest) input() catalog.CategoryInput {
	return catalog.CategoryInput{Name: r.Name, Image: r.Image, Description: r.Description}
}

func CreateCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/categories"
		defer handlePanic(c, route)

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category, err := svc.Create(c.Request.Context(), req.input())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/categories/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrCategoryNotFound)
		if !ok {
			return
		}

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category, err := svc.Update(c.Request.Context(), id, req.input())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/categories/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrCategoryNotFound)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
	}
}
