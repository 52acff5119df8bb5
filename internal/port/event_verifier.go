package port

import "github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"

type EventVerifier interface {
	// Verify authenticates the raw webhook payload against its signature
	// header. The payload must be the exact unparsed body bytes.
	Verify(payload []byte, sigHeader string) (domain.PaymentEvent, error)
}
