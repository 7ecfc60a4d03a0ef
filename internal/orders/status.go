package orders

import (
	"fmt"
	"time"

	"sportsgear/internal/models"
)

// Change describes what a transition does to a timestamped flag pair such as
// isPaid/paidAt.
type Change int

const (
	Keep Change = iota
	Set
	SetIfUnset
	Reset
)

// Effect is the full field set a status transition writes.
type Effect struct {
	Status   models.OrderStatus
	Payment  Change
	Delivery Change
}

var effects = map[models.OrderStatus]Effect{
	models.OrderStatusProcessing: {Status: models.OrderStatusProcessing},
	models.OrderStatusShipped:    {Status: models.OrderStatusShipped, Delivery: Reset},
	models.OrderStatusDelivered:  {Status: models.OrderStatusDelivered, Payment: SetIfUnset, Delivery: Set},
	models.OrderStatusCancelled:  {Status: models.OrderStatusCancelled, Payment: Reset, Delivery: Reset},
}

// rank orders the forward path; strict mode forbids moving back along it.
var rank = map[models.OrderStatus]int{
	models.OrderStatusProcessing: 0,
	models.OrderStatusShipped:    1,
	models.OrderStatusDelivered:  2,
}

// NormalizeStatus maps the legacy Pending value and an unset status to
// Processing.
func NormalizeStatus(s models.OrderStatus) models.OrderStatus {
	if s == "" || s == models.OrderStatusPending {
		return models.OrderStatusProcessing
	}
	return s
}

// ParseStatus accepts one of the target statuses an admin may set.
func ParseStatus(raw string) (models.OrderStatus, error) {
	s := NormalizeStatus(models.OrderStatus(raw))
	if raw == "" {
		return "", fmt.Errorf("%w: status is required", ErrInvalidStatus)
	}
	if _, ok := effects[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Transition returns the effect of moving an order from one status to
// another. With strict set, a cancelled order stays cancelled and a delivered
// order cannot go back to Processing or Shipped.
func Transition(from, to models.OrderStatus, strict bool) (Effect, error) {
	effect, ok := effects[to]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	from = NormalizeStatus(from)
	if !strict || from == to {
		return effect, nil
	}

	if from == models.OrderStatusCancelled {
		return Effect{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	if to != models.OrderStatusCancelled && rank[to] < rank[from] {
		return Effect{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return effect, nil
}

// Apply writes the effect onto the order.
func (e Effect) Apply(order *models.Order, now time.Time) {
	order.Status = e.Status
	order.IsPaid, order.PaidAt = apply(e.Payment, order.IsPaid, order.PaidAt, now)
	order.IsDelivered, order.DeliveredAt = apply(e.Delivery, order.IsDelivered, order.DeliveredAt, now)
}

func apply(c Change, flag bool, at *time.Time, now time.Time) (bool, *time.Time) {
	switch c {
	case Set:
		return true, &now
	case SetIfUnset:
		if flag {
			return flag, at
		}
		return true, &now
	case Reset:
		return false, nil
	default:
		return flag, at
	}
}
