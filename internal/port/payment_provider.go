package port

import "context"

type PaymentProvider interface {
	// CreateIntent registers a payment intent with the provider and
	// returns its id and the client secret for the frontend
	CreateIntent(ctx context.Context, amountCents int64, currency string) (id string, clientSecret string, err error)
}
