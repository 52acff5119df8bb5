package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
)

// StripeVerifier authenticates webhook payloads against the endpoint's
// signing secret. Verification runs over the exact raw body bytes; any
// transformation of the body before this point breaks the signature.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(payload []byte, sigHeader string) (domain.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, v.secret)
	if err != nil {
		return domain.PaymentEvent{}, fmt.Errorf("signature verification failed: %w", err)
	}

	out := domain.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch out.Type {
	case domain.EventPaymentSucceeded, domain.EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return domain.PaymentEvent{}, fmt.Errorf("decode payment intent: %w", err)
		}
		out.PaymentIntentID = intent.ID
	}

	return out, nil
}

// StripeGateway provisions payment intents at checkout time.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(apiKey string) *StripeGateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create payment intent: %w", err)
	}

	return intent.ID, intent.ClientSecret, nil
}
