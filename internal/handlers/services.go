package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/accounts"
	"sportsgear/internal/catalog"
	"sportsgear/internal/models"
	"sportsgear/internal/orders"
	"sportsgear/internal/reporting"
	"sportsgear/internal/repository"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, actor orders.Actor, req orders.PlaceOrderRequest) (orders.Outcome, error)
	MarkPaid(ctx context.Context, actor orders.Actor, id primitive.ObjectID, receipt models.PaymentResult) (models.Order, error)
	MarkDelivered(ctx context.Context, actor orders.Actor, id primitive.ObjectID) (models.Order, error)
	UpdateStatus(ctx context.Context, actor orders.Actor, id primitive.ObjectID, target string) (orders.Outcome, error)
	Get(ctx context.Context, actor orders.Actor, id primitive.ObjectID) (models.Order, error)
	ListMine(ctx context.Context, actor orders.Actor) ([]models.Order, error)
	ListAll(ctx context.Context, actor orders.Actor) ([]models.Order, error)
}

// UserDirectory resolves order owners for display.
type UserDirectory interface {
	ByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

type StatsService interface {
	Dashboard(ctx context.Context) (reporting.Dashboard, error)
	DailySummary(ctx context.Context) ([]reporting.DayTotal, error)
}

type ProductService interface {
	List(ctx context.Context, keyword string, page int64) (catalog.Page, error)
	Top(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Create(ctx context.Context, owner primitive.ObjectID, in repository.ProductChanges) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, in repository.ProductChanges) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddReview(ctx context.Context, id primitive.ObjectID, by catalog.Reviewer, rating int, comment string) (models.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	Create(ctx context.Context, in catalog.CategoryInput) (models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, in catalog.CategoryInput) (models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BannerService interface {
	List(ctx context.Context) ([]models.Banner, error)
	Create(ctx context.Context, image, title, link string) (models.Banner, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AccountService interface {
	Register(ctx context.Context, name, email, password string) (bool, error)
	VerifyOTP(ctx context.Context, email, otp string) (accounts.Session, error)
	Login(ctx context.Context, email, password string) (accounts.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, password string) error
	Get(ctx context.Context, id primitive.ObjectID) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, in accounts.ProfileUpdate) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, in accounts.AdminUpdate) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
