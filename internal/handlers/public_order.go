package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/orders"
)

/* =========================
   REQUEST DTOs
========================= */

// createOrderItemRequest accepts both the structured reference and the cart
// entries older clients post verbatim, where _id is "<productId>-<color>-<size>".
type createOrderItemRequest struct {
	ID            string `json:"_id"`
	Product       string `json:"product"`
	ProductID     string `json:"productId"`
	Qty           int    `json:"qty"`
	Color         string `json:"color"`
	Size          string `json:"size"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
}

// Totals may arrive as numbers or as fixed-point strings ("50.00").
type createOrderRequest struct {
	OrderItems      []createOrderItemRequest `json:"orderItems"`
	ShippingAddress models.ShippingAddress   `json:"shippingAddress"`
	PaymentMethod   string                   `json:"paymentMethod"`
	ItemsPrice      decimal.NullDecimal      `json:"itemsPrice"`
	TaxPrice        decimal.NullDecimal      `json:"taxPrice"`
	ShippingPrice   decimal.NullDecimal      `json:"shippingPrice"`
	TotalPrice      decimal.NullDecimal      `json:"totalPrice"`
}

type payOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
	Payer        struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

func (r createOrderItemRequest) lineItem() (orders.LineItem, error) {
	var (
		ref orders.LineRef
		err error
	)
	if raw := firstNonBlank(r.ProductID, r.Product); raw != "" {
		ref.ProductID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("%w: invalid product reference %q", orders.ErrValidation, raw)
		}
	} else {
		ref, err = orders.ParseLegacyRef(r.ID)
		if err != nil {
			return orders.LineItem{}, err
		}
	}

	if color := firstNonBlank(r.Color, r.SelectedColor); color != "" {
		ref.Color = color
	}
	if size := firstNonBlank(r.Size, r.SelectedSize); size != "" {
		ref.Size = size
	}
	return orders.LineItem{Ref: ref, Qty: r.Qty}, nil
}

func (r createOrderRequest) toPlaceOrder() (orders.PlaceOrderRequest, error) {
	items := make([]orders.LineItem, 0, len(r.OrderItems))
	for _, raw := range r.OrderItems {
		item, err := raw.lineItem()
		if err != nil {
			return orders.PlaceOrderRequest{}, err
		}
		items = append(items, item)
	}

	req := orders.PlaceOrderRequest{
		Items:           items,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   strings.TrimSpace(r.PaymentMethod),
	}
	if r.TotalPrice.Valid {
		req.ClientTotals = &orders.Totals{
			Items:    decimalOrZero(r.ItemsPrice),
			Shipping: decimalOrZero(r.ShippingPrice),
			Tax:      decimalOrZero(r.TaxPrice),
			Total:    r.TotalPrice.Decimal,
		}
	}
	return req, nil
}

func (r payOrderRequest) receipt() models.PaymentResult {
	return models.PaymentResult{
		ID:           r.ID,
		Status:       r.Status,
		UpdateTime:   r.UpdateTime,
		EmailAddress: firstNonBlank(r.EmailAddress, r.Payer.EmailAddress),
	}
}

/* =========================
   CUSTOMER ROUTES
========================= */

func CreateOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		placeReq, err := req.toPlaceOrder()
		if err != nil {
			respondError(c, route, err)
			return
		}

		out, err := svc.PlaceOrder(c.Request.Context(), actorFrom(user), placeReq)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, out.Order)
	}
}

func GetMyOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/myorders"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}

		list, err := svc.ListMine(c.Request.Context(), actorFrom(user))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetOrderByID(svc OrderService, users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectIDParam(c, route, "id", orders.ErrOrderNotFound)
		if !ok {
			return
		}

		order, err := svc.Get(c.Request.Context(), actorFrom(user), id)
		if err != nil {
			respondError(c, route, err)
			return
		}

		views, err := populateOrders(c.Request.Context(), users, []models.Order{order}, true)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, views[0])
	}
}

func UpdateOrderToPaid(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/pay"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectIDParam(c, route, "id", orders.ErrOrderNotFound)
		if !ok {
			return
		}

		var req payOrderRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}

		order, err := svc.MarkPaid(c.Request.Context(), actorFrom(user), id, req.receipt())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func decimalOrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
