package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/accounts"
)

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func GetUserProfile(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/profile"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}

		profile, err := svc.Get(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(profile))
	}
}

func UpdateUserProfile(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/profile"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updated, err := svc.UpdateProfile(c.Request.Context(), user.ID, accounts.ProfileUpdate{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated))
	}
}

func GetUsers(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users"
		defer handlePanic(c, route)

		users, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func GetUserByID(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", accounts.ErrUserNotFound)
		if !ok {
			return
		}

		user, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateUser(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", accounts.ErrUserNotFound)
		if !ok {
			return
		}

		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updated, err := svc.UpdateUser(c.Request.Context(), id, accounts.AdminUpdate{
			Name:    req.Name,
			Email:   req.Email,
			IsAdmin: req.IsAdmin,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated))
	}
}

func DeleteUser(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectIDParam(c, route, "id", accounts.ErrUserNotFound)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}
