package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v74"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
)

const testSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way the provider
// does: HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(eventType, intentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_test_1","object":"event","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		stripe.APIVersion, eventType, intentID,
	))
}

func TestVerify_ValidSignature(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")

	event, err := verifier.Verify(payload, signPayload(payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("expected valid signature, got: %v", err)
	}

	if event.ID != "evt_test_1" {
		t.Errorf("expected event id evt_test_1, got %s", event.ID)
	}
	if event.Type != domain.EventPaymentSucceeded {
		t.Errorf("expected type %s, got %s", domain.EventPaymentSucceeded, event.Type)
	}
	if event.PaymentIntentID != "pi_123" {
		t.Errorf("expected payment intent pi_123, got %s", event.PaymentIntentID)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")
	header := signPayload(payload, testSecret, time.Now())

	tampered := eventPayload("payment_intent.succeeded", "pi_456")

	if _, err := verifier.Verify(tampered, header); err == nil {
		t.Error("expected verification to reject a tampered payload")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")

	header := signPayload(payload, "whsec_other_secret", time.Now())

	if _, err := verifier.Verify(payload, header); err == nil {
		t.Error("expected verification to reject a foreign signature")
	}
}

func TestVerify_StaleTimestamp(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")

	// Outside the default tolerance window.
	header := signPayload(payload, testSecret, time.Now().Add(-time.Hour))

	if _, err := verifier.Verify(payload, header); err == nil {
		t.Error("expected verification to reject a stale timestamp")
	}
}

func TestVerify_MissingHeader(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := eventPayload("payment_intent.succeeded", "pi_123")

	if _, err := verifier.Verify(payload, ""); err == nil {
		t.Error("expected verification to fail without a signature header")
	}
}

func TestVerify_UnhandledEventType(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_test_2","object":"event","api_version":%q,"type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`,
		stripe.APIVersion,
	))

	event, err := verifier.Verify(payload, signPayload(payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != "charge.refunded" {
		t.Errorf("expected type charge.refunded, got %s", event.Type)
	}
	if event.PaymentIntentID != "" {
		t.Errorf("expected no payment intent, got %s", event.PaymentIntentID)
	}
}
