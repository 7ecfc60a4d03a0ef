package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/catalog"
)

type createBannerRequest struct {
	Image string `json:"image" binding:"required"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

func GetBanners(svc BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/banners"
		defer handlePanic(c, route)

		banners, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

func CreateBanner(svc BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/banners"
		defer handlePanic(c, route)

		var req createBannerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		banner, err := svc.Create(c.Request.Context(), req.Image, req.Title, req.Link)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, banner)
	}
}

func DeleteBanner(svc BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/banners/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", catalog.ErrBannerNotFound)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Banner removed"})
	}
}
