package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsgear/internal/middleware"
	"sportsgear/internal/observability"
)

// Deps are the services the HTTP API is built from.
type Deps struct {
	Orders     OrderService
	Users      UserDirectory
	Stats      StatsService
	Products   ProductService
	Categories CategoryService
	Banners    BannerService
	Accounts   AccountService

	Tokens middleware.TokenParser
	Lookup middleware.UserLookup
	Cookie CookieConfig
	Logger *zap.Logger
}

// NewRouter mounts every storefront route under /api.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), observability.RequestLogger(d.Logger.Named("http")))

	r.GET("/", Home())

	protect := middleware.Protect(d.Tokens, d.Lookup, d.Logger.Named("auth"))
	admin := middleware.AdminOnly()

	api := r.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", GetProducts(d.Products))
		products.GET("/top", GetTopProducts(d.Products))
		products.GET("/:id", GetProductByID(d.Products))
		products.POST("/:id/reviews", protect, CreateProductReview(d.Products))
		products.POST("", protect, admin, CreateProduct(d.Products))
		products.PUT("/:id", protect, admin, UpdateProduct(d.Products))
		products.DELETE("/:id", protect, admin, DeleteProduct(d.Products))
	}

	categories := api.Group("/categories")
	{
		categories.GET("", GetCategories(d.Categories))
		categories.GET("/:id", GetCategoryByID(d.Categories))
		categories.POST("", protect, admin, CreateCategory(d.Categories))
		categories.PUT("/:id", protect, admin, UpdateCategory(d.Categories))
		categories.DELETE("/:id", protect, admin, DeleteCategory(d.Categories))
	}

	banners := api.Group("/banners")
	{
		banners.GET("", GetBanners(d.Banners))
		banners.POST("", protect, admin, CreateBanner(d.Banners))
		banners.DELETE("/:id", protect, admin, DeleteBanner(d.Banners))
	}

	users := api.Group("/users")
	{
		users.POST("", RegisterUser(d.Accounts))
		users.POST("/verify-otp", VerifyOTP(d.Accounts, d.Cookie))
		users.POST("/login", Login(d.Accounts, d.Cookie))
		users.POST("/logout", Logout(d.Cookie))
		users.POST("/forgot-password", ForgotPassword(d.Accounts))
		users.POST("/reset-password", ResetPassword(d.Accounts))

		users.GET("/profile", protect, GetUserProfile(d.Accounts))
		users.PUT("/profile", protect, UpdateUserProfile(d.Accounts))

		users.GET("", protect, admin, GetUsers(d.Accounts))
		users.GET("/:id", protect, admin, GetUserByID(d.Accounts))
		users.PUT("/:id", protect, admin, UpdateUser(d.Accounts))
		users.DELETE("/:id", protect, admin, DeleteUser(d.Accounts))
	}

	orders := api.Group("/orders", protect)
	{
		orders.POST("", CreateOrder(d.Orders))
		orders.GET("", admin, GetOrders(d.Orders, d.Users))
		orders.GET("/myorders", GetMyOrders(d.Orders))
		orders.GET("/stats", admin, GetDashboardStats(d.Stats))
		orders.GET("/stats/summary", admin, GetSalesSummary(d.Stats))
		orders.GET("/:id", GetOrderByID(d.Orders, d.Users))
		orders.PUT("/:id/pay", UpdateOrderToPaid(d.Orders))
		orders.PUT("/:id/deliver", admin, UpdateOrderToDelivered(d.Orders))
		orders.PUT("/:id/status", admin, UpdateOrderStatus(d.Orders))
	}

	return r
}
