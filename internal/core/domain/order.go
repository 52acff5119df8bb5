package domain

import "time"

type Order struct {
	ID         string
	UserID     string
	TotalCents int64
	PaidAt     *time.Time // nil until the order is paid
	CreatedAt  time.Time
}

// Paid reports whether the order has been marked paid.
func (o Order) Paid() bool {
	return o.PaidAt != nil
}

type OrderItem struct {
	OrderID   string
	ProductID string
	Quantity  int
}
