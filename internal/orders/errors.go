package orders

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUnauthenticated   = errors.New("not authorized, no token")
	ErrForbidden         = errors.New("not authorized")
	ErrValidation        = errors.New("invalid order")
	ErrEmptyOrder        = errors.New("no order items")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrOrderCancelled    = errors.New("order is cancelled")
)

// StockError reports the product that could not cover a requested quantity.
type StockError struct {
	ProductID primitive.ObjectID
	Name      string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// SideEffectError records a best-effort step that failed after the order
// itself was committed.
type SideEffectError struct {
	Effect string
	Err    error
}

func (e SideEffectError) Error() string { return e.Effect + ": " + e.Err.Error() }

func (e SideEffectError) Unwrap() error { return e.Err }

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
