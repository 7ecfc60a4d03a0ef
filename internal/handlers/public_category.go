package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/catalog"
)

func GetCategories(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/categories"
		defer handlePanic(c, route)

		categories, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategoryByID(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/categories/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrCategoryNotFound)
		if !ok {
			return
		}

		category, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}
