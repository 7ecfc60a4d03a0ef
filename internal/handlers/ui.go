package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home answers the root path so load balancers and the storefront can check
// that the API is up.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	}
}
