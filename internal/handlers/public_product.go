package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/catalog"
)

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

/*
GET /api/products
- keyword: case-insensitive name match
- pageNumber: 1-based, pages of catalog.PageSize
*/
func GetProducts(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		keyword := strings.TrimSpace(c.Query("keyword"))
		page, err := svc.List(c.Request.Context(), keyword, parsePageNumber(c.Query("pageNumber")))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func GetTopProducts(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/top"
		defer handlePanic(c, route)

		products, err := svc.Top(c.Request.Context())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProductByID(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrProductNotFound)
		if !ok {
			return
		}

		product, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProductReview(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/:id/reviews"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrProductNotFound)
		if !ok {
			return
		}

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		reviewer := catalog.Reviewer{UserID: user.ID, Name: user.Name}
		if _, err := svc.AddReview(c.Request.Context(), id, reviewer, req.Rating, req.Comment); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review added"})
	}
}
