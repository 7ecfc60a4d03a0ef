package handlers

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/accounts"
	"sportsgear/internal/catalog"
	"sportsgear/internal/models"
	"sportsgear/internal/orders"
	"sportsgear/internal/reporting"
	"sportsgear/internal/repository"
)

var (
	adminUser    = models.User{ID: primitive.NewObjectID(), Name: "Admin", Email: "admin@example.com", IsAdmin: true, IsVerified: true}
	customerUser = models.User{ID: primitive.NewObjectID(), Name: "Jane", Email: "jane@example.com", IsVerified: true}
)

const (
	adminToken    = "admin-token"
	customerToken = "customer-token"
)

type stubTokens map[string]primitive.ObjectID

func (s stubTokens) Parse(raw string) (primitive.ObjectID, error) {
	id, ok := s[raw]
	if !ok {
		return primitive.NilObjectID, errors.New("bad token")
	}
	return id, nil
}

type stubUsers map[primitive.ObjectID]models.User

func (s stubUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := s[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s stubUsers) ByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User)
	for _, id := range ids {
		if u, ok := s[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeOrders struct {
	placed   orders.PlaceOrderRequest
	placeOut orders.Outcome
	receipt  models.PaymentResult
	target   string
	order    models.Order
	list     []models.Order
	err      error
	lastUser orders.Actor
}

func (f *fakeOrders) PlaceOrder(_ context.Context, actor orders.Actor, req orders.PlaceOrderRequest) (orders.Outcome, error) {
	f.lastUser, f.placed = actor, req
	return f.placeOut, f.err
}

func (f *fakeOrders) MarkPaid(_ context.Context, actor orders.Actor, _ primitive.ObjectID, receipt models.PaymentResult) (models.Order, error) {
	f.lastUser, f.receipt = actor, receipt
	return f.order, f.err
}

func (f *fakeOrders) MarkDelivered(_ context.Context, actor orders.Actor, _ primitive.ObjectID) (models.Order, error) {
	f.lastUser = actor
	return f.order, f.err
}

func (f *fakeOrders) UpdateStatus(_ context.Context, actor orders.Actor, _ primitive.ObjectID, target string) (orders.Outcome, error) {
	f.lastUser, f.target = actor, target
	return orders.Outcome{Order: f.order}, f.err
}

func (f *fakeOrders) Get(_ context.Context, actor orders.Actor, _ primitive.ObjectID) (models.Order, error) {
	f.lastUser = actor
	return f.order, f.err
}

func (f *fakeOrders) ListMine(_ context.Context, actor orders.Actor) ([]models.Order, error) {
	f.lastUser = actor
	return f.list, f.err
}

func (f *fakeOrders) ListAll(_ context.Context, actor orders.Actor) ([]models.Order, error) {
	f.lastUser = actor
	return f.list, f.err
}

type fakeStats struct {
	dashboard reporting.Dashboard
	days      []reporting.DayTotal
	err       error
}

func (f *fakeStats) Dashboard(context.Context) (reporting.Dashboard, error) {
	return f.dashboard, f.err
}

func (f *fakeStats) DailySummary(context.Context) ([]reporting.DayTotal, error) {
	return f.days, f.err
}

type fakeProducts struct {
	changes repository.ProductChanges
	product models.Product
	page    catalog.Page
	rating  int
	err     error
}

func (f *fakeProducts) List(_ context.Context, _ string, page int64) (catalog.Page, error) {
	f.page.Page = page
	return f.page, f.err
}

func (f *fakeProducts) Top(context.Context) ([]models.Product, error) {
	return []models.Product{f.product}, f.err
}

func (f *fakeProducts) Get(context.Context, primitive.ObjectID) (models.Product, error) {
	return f.product, f.err
}

func (f *fakeProducts) Create(_ context.Context, _ primitive.ObjectID, in repository.ProductChanges) (models.Product, error) {
	f.changes = in
	return f.product, f.err
}

func (f *fakeProducts) Update(_ context.Context, _ primitive.ObjectID, in repository.ProductChanges) (models.Product, error) {
	f.changes = in
	return f.product, f.err
}

func (f *fakeProducts) Delete(context.Context, primitive.ObjectID) error { return f.err }

func (f *fakeProducts) AddReview(_ context.Context, _ primitive.ObjectID, _ catalog.Reviewer, rating int, _ string) (models.Product, error) {
	f.rating = rating
	return f.product, f.err
}

type fakeCategories struct {
	created catalog.CategoryInput
	err     error
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	return nil, f.err
}

func (f *fakeCategories) Get(context.Context, primitive.ObjectID) (models.Category, error) {
	return models.Category{}, f.err
}

func (f *fakeCategories) Create(_ context.Context, in catalog.CategoryInput) (models.Category, error) {
	f.created = in
	return models.Category{Name: in.Name}, f.err
}

func (f *fakeCategories) Update(_ context.Context, _ primitive.ObjectID, in catalog.CategoryInput) (models.Category, error) {
	return models.Category{Name: in.Name}, f.err
}

func (f *fakeCategories) Delete(context.Context, primitive.ObjectID) error { return f.err }

type fakeBanners struct{ err error }

func (f *fakeBanners) List(context.Context) ([]models.Banner, error) {
	return []models.Banner{}, f.err
}

func (f *fakeBanners) Create(_ context.Context, image, title, link string) (models.Banner, error) {
	return models.Banner{Image: image, Title: title, Link: link}, f.err
}

func (f *fakeBanners) Delete(context.Context, primitive.ObjectID) error { return f.err }

type fakeAccounts struct {
	created bool
	session accounts.Session
	user    models.User
	err     error
}

func (f *fakeAccounts) Register(context.Context, string, string, string) (bool, error) {
	return f.created, f.err
}

func (f *fakeAccounts) VerifyOTP(context.Context, string, string) (accounts.Session, error) {
	return f.session, f.err
}

func (f *fakeAccounts) Login(context.Context, string, string) (accounts.Session, error) {
	return f.session, f.err
}

func (f *fakeAccounts) ForgotPassword(context.Context, string) error { return f.err }

func (f *fakeAccounts) ResetPassword(context.Context, string, string) error { return f.err }

func (f *fakeAccounts) Get(context.Context, primitive.ObjectID) (models.User, error) {
	return f.user, f.err
}

func (f *fakeAccounts) UpdateProfile(context.Context, primitive.ObjectID, accounts.ProfileUpdate) (models.User, error) {
	return f.user, f.err
}

func (f *fakeAccounts) List(context.Context) ([]models.User, error) {
	return []models.User{f.user}, f.err
}

func (f *fakeAccounts) UpdateUser(context.Context, primitive.ObjectID, accounts.AdminUpdate) (models.User, error) {
	return f.user, f.err
}

func (f *fakeAccounts) Delete(context.Context, primitive.ObjectID) error { return f.err }
