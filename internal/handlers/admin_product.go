package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/catalog"
	"sportsgear/internal/models"
	"sportsgear/internal/repository"
)

// productRequest is the admin product form. Absent fields stay nil so an
// update can tell "not sent" from an explicit zero.
type productRequest struct {
	Name           *string                `json:"name"`
	Price          *float64               `json:"price"`
	Description    *string                `json:"description"`
	Image          *string                `json:"image"`
	Brand          *string                `json:"brand"`
	Category       *string                `json:"category"`
	CountInStock   *int                   `json:"countInStock"`
	Colors         *[]models.ColorVariant `json:"colors"`
	AvailableSizes *[]string              `json:"availableSizes"`
}

func (r productRequest) changes() repository.ProductChanges {
	return repository.ProductChanges{
		Name:           r.Name,
		Price:          r.Price,
		Description:    r.Description,
		Image:          r.Image,
		Brand:          r.Brand,
		Category:       r.Category,
		CountInStock:   r.CountInStock,
		Colors:         r.Colors,
		AvailableSizes: r.AvailableSizes,
	}
}

// bindProductRequest tolerates an empty body; the service decides whether
// an empty form is acceptable.
func bindProductRequest(c *gin.Context) (productRequest, bool) {
	var req productRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return req, false
	}
	return req, true
}

func CreateProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}
		req, ok := bindProductRequest(c)
		if !ok {
			return
		}

		product, err := svc.Create(c.Request.Context(), user.ID, req.changes())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrProductNotFound)
		if !ok {
			return
		}
		req, ok := bindProductRequest(c)
		if !ok {
			return
		}

		product, err := svc.Update(c.Request.Context(), id, req.changes())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrProductNotFound)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
