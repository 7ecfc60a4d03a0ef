package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/orders"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// orderUser is the populated owner shown next to an order.
type orderUser struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
}

// orderView replaces the owner id of an order with the owner's summary. A
// deleted owner is rendered as null.
type orderView struct {
	models.Order
	User *orderUser `json:"user"`
}

func populateOrders(ctx context.Context, users UserDirectory, list []models.Order, withEmail bool) ([]orderView, error) {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, order := range list {
		ids = append(ids, order.User)
	}
	owners, err := users.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]orderView, 0, len(list))
	for _, order := range list {
		view := orderView{Order: order}
		if owner, ok := owners[order.User]; ok {
			view.User = &orderUser{ID: owner.ID, Name: owner.Name}
			if withEmail {
				view.User.Email = owner.Email
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func GetOrders(svc OrderService, users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}

		list, err := svc.ListAll(c.Request.Context(), actorFrom(user))
		if err != nil {
			respondError(c, route, err)
			return
		}

		views, err := populateOrders(c.Request.Context(), users, list, false)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func UpdateOrderToDelivered(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/deliver"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectIDParam(c, route, "id", orders.ErrOrderNotFound)
		if !ok {
			return
		}

		order, err := svc.MarkDelivered(c.Request.Context(), actorFrom(user), id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatus(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		user, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectIDParam(c, route, "id", orders.ErrOrderNotFound)
		if !ok {
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		out, err := svc.UpdateStatus(c.Request.Context(), actorFrom(user), id, req.Status)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, out.Order)
	}
}
