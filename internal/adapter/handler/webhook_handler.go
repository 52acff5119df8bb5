package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/service"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/port"
)

// Provider events are small; cap the body well above any real payload.
const maxWebhookBodyBytes = 1 << 16

type WebhookHandler struct {
	verifier       port.EventVerifier
	webhookService *service.WebhookService
}

type WebhookAck struct {
	Received bool `json:"received"`
}

func NewWebhookHandler(verifier port.EventVerifier, webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, webhookService: webhookService}
}

func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// The signature covers the unparsed bytes, so read the body raw.
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("Webhook Error: %v", err), http.StatusBadRequest)
		return
	}

	event, err := h.verifier.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("webhook signature rejected: %v", err)
		http.Error(w, fmt.Sprintf("Webhook Error: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.webhookService.HandleEvent(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			log.Printf("webhook references unknown payment intent %s", event.PaymentIntentID)
			http.Error(w, "Payment record not found", http.StatusNotFound)
			return
		}
		// Non-200 keeps the event unacknowledged so the provider retries.
		log.Printf("webhook processing failed for event %s: %v", event.ID, err)
		http.Error(w, "error processing webhook event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, WebhookAck{Received: true})
}
