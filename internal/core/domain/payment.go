package domain

import (
	"errors"
	"time"
)

// ErrPaymentNotFound is returned when a provider event references a
// payment-intent id with no matching payment row.
var ErrPaymentNotFound = errors.New("payment record not found")

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

type Payment struct {
	ID              string
	OrderID         string
	PaymentIntentID string
	Status          PaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reconciliation reports what a succeeded-payment event changed.
// Duplicate is set when the order was already paid; Items then stays
// empty because no stock was touched.
type Reconciliation struct {
	OrderID   string
	Duplicate bool
	Items     []OrderItem
}
