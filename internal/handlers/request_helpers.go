package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"sportsgear/internal/accounts"
	"sportsgear/internal/catalog"
	"sportsgear/internal/middleware"
	"sportsgear/internal/models"
	"sportsgear/internal/observability"
	"sportsgear/internal/orders"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		observability.FromContext(c.Request.Context()).Error("panic recovered",
			zap.String("route", route), zap.Any("panic", r), zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	logger := observability.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("route", route), zap.Int("status", status), zap.String("message", message))
	} else {
		logger.Debug("request rejected", zap.String("route", route), zap.Int("status", status), zap.String("message", message))
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

var (
	badRequestErrors = []error{
		orders.ErrValidation,
		orders.ErrEmptyOrder,
		orders.ErrInsufficientStock,
		orders.ErrInvalidStatus,
		orders.ErrIllegalTransition,
		orders.ErrOrderCancelled,
		catalog.ErrValidation,
		catalog.ErrAlreadyReviewed,
		catalog.ErrCategoryExists,
		accounts.ErrValidation,
		accounts.ErrUserExists,
		accounts.ErrInvalidOTP,
		accounts.ErrCannotDeleteAdmin,
	}
	unauthorizedErrors = []error{
		orders.ErrUnauthenticated,
		accounts.ErrInvalidCredentials,
		accounts.ErrNotVerified,
	}
	notFoundErrors = []error{
		orders.ErrOrderNotFound,
		orders.ErrProductNotFound,
		catalog.ErrProductNotFound,
		catalog.ErrCategoryNotFound,
		catalog.ErrBannerNotFound,
		accounts.ErrUserNotFound,
	}
)

// statusFor maps a service error onto the HTTP status the storefront expects.
func statusFor(err error) int {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case isAny(err, unauthorizedErrors):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrForbidden):
		return http.StatusForbidden
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError writes err with the mapped status. Server side failures keep
// their detail in the log only.
func respondError(c *gin.Context, route string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.FromContext(c.Request.Context()).Error("request failed", zap.String("route", route), zap.Error(err))
		message := "Server error"
		if errors.Is(err, accounts.ErrDelivery) {
			message = "Email could not be sent"
		}
		c.AbortWithStatusJSON(status, gin.H{"message": message})
		return
	}
	respondWithError(c, status, route, err.Error())
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min", "gte":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "max", "lte":
				details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": strings.Join(details, ", "),
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// parseObjectIDParam reads an id path parameter. A malformed id is reported
// as notFound, the way the storefront treats unknown ids.
func parseObjectIDParam(c *gin.Context, route string, name string, notFound error) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondWithError(c, http.StatusNotFound, route, notFound.Error())
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser returns the user resolved by middleware.Protect, answering 401
// when the route was mounted without it.
func currentUser(c *gin.Context, route string) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "Not authorized, no token")
		return models.User{}, false
	}
	return user, true
}

func actorFrom(user models.User) orders.Actor {
	return orders.Actor{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		Email:   user.Email,
		Name:    user.Name,
	}
}
