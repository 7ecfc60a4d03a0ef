package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sportsgear/internal/middleware"
	"sportsgear/internal/models"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CookieConfig controls the session cookie written after sign-in.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

// userResponse is the account summary returned by the auth and profile
// routes.
type userResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

func setSessionCookie(c *gin.Context, cfg CookieConfig, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.CookieName, token, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

func clearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", cfg.Secure, true)
}

func RegisterUser(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users"
		defer handlePanic(c, route)

		var req RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		created, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, route, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"message": "OTP sent to email. Please verify."})
	}
}

func VerifyOTP(svc AccountService, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/verify-otp"
		defer handlePanic(c, route)

		var req VerifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		session, err := svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			respondError(c, route, err)
			return
		}

		setSessionCookie(c, cookie, session.Token)
		c.JSON(http.StatusOK, newUserResponse(session.User))
	}
}

func Login(svc AccountService, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		session, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, route, err)
			return
		}

		setSessionCookie(c, cookie, session.Token)
		c.JSON(http.StatusOK, newUserResponse(session.User))
	}
}

func Logout(cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/logout"
		defer handlePanic(c, route)

		clearSessionCookie(c, cookie)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func ForgotPassword(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/forgot-password"
		defer handlePanic(c, route)

		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email"})
	}
}

func ResetPassword(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/reset-password"
		defer handlePanic(c, route)

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
	}
}
