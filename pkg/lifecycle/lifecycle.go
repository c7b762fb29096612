package lifecycle

import (
	"errors"
	"time"

	"github.com/dennissavchenko/Bookshop-sub001/pkg/models"
)

const (
	StatusCart        = "CART"
	StatusPending     = "PENDING"
	StatusConfirmed   = "CONFIRMED"
	StatusPreparation = "PREPARATION"
	StatusShipped     = "SHIPPED"
	StatusDelivered   = "DELIVERED"
	StatusCancelled   = "CANCELLED"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var validNext = map[string]map[string]bool{
	StatusCart:        {StatusPending: true},
	StatusPending:     {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:   {StatusPreparation: true, StatusCancelled: true},
	StatusPreparation: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:     {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:   {},
	StatusCancelled:   {},
}

func ValidStatus(status string) bool {
	_, ok := validNext[status]
	return ok
}

func CanTransition(from, to string) bool {
	return validNext[from][to]
}

func Terminal(status string) bool {
	return len(validNext[status]) == 0 && ValidStatus(status)
}

// Transition moves the order to the requested status and stamps the matching
// timestamp. A rejected transition leaves the order untouched.
func Transition(order *models.Order, to string, now time.Time) error {
	if !CanTransition(order.Status, to) {
		return ErrInvalidTransition
	}
	order.Status = to
	switch to {
	case StatusConfirmed:
		order.ConfirmedAt = &now
	case StatusPreparation:
		order.PreparationStartedAt = &now
	case StatusShipped:
		order.ShippedAt = &now
	case StatusDelivered:
		order.DeliveredAt = &now
	case StatusCancelled:
		order.CancelledAt = &now
	}
	return nil
}

// TimestampColumn names the column stamped by a transition into the given
// status, or "" when the status carries no timestamp of its own.
func TimestampColumn(status string) string {
	switch status {
	case StatusConfirmed:
		return "confirmed_at"
	case StatusPreparation:
		return "preparation_started_at"
	case StatusShipped:
		return "shipped_at"
	case StatusDelivered:
		return "delivered_at"
	case StatusCancelled:
		return "cancelled_at"
	}
	return ""
}

// LastUpdatedAt is the latest status timestamp, checked in the precedence
// cancelled, delivered, shipped, preparation, confirmed, falling back to the
// creation time. Pure and total.
func LastUpdatedAt(order *models.Order) time.Time {
	switch {
	case order.CancelledAt != nil:
		return *order.CancelledAt
	case order.DeliveredAt != nil:
		return *order.DeliveredAt
	case order.ShippedAt != nil:
		return *order.ShippedAt
	case order.PreparationStartedAt != nil:
		return *order.PreparationStartedAt
	case order.ConfirmedAt != nil:
		return *order.ConfirmedAt
	}
	return order.CreatedAt
}

// TotalPrice recomputes the order total from the current price of every line
// item. Lines must be loaded with their items. The total is never stored, so
// a later price change shows up on the next read.
func TotalPrice(order *models.Order) float64 {
	total := 0.0
	for _, line := range order.Items {
		total += line.Item.Price * float64(line.Quantity)
	}
	return total
}
