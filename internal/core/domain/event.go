package domain

// Provider webhook event types this backend cares about. Everything
// else is acknowledged without action.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentEvent is a verified webhook event. PaymentIntentID is only
// populated for payment-intent event types.
type PaymentEvent struct {
	ID              string
	Type            string
	PaymentIntentID string
}
