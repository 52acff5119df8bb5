// Replays a signed payment_intent.succeeded event against a running
// server. All deliveries carry the same event id and payment intent, so
// exactly one should apply and the rest must be acknowledged as
// duplicates without touching stock.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
)

func main() {
	var (
		addr       = flag.String("addr", "http://localhost:8080", "server base URL")
		intentID   = flag.String("intent", "", "payment intent id to replay (required)")
		deliveries = flag.Int("n", 20, "number of concurrent deliveries")
	)
	flag.Parse()

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("STRIPE_WEBHOOK_SECRET is not set")
	}
	if *intentID == "" {
		log.Fatal("-intent is required")
	}

	eventID := "evt_replay_" + uuid.New().String()
	payload := []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": %q,
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": %q, "object": "payment_intent"}}
	}`, eventID, stripe.APIVersion, *intentID))
	sigHeader := signPayload(payload, secret, time.Now())

	url := *addr + "/api/v1/payment/webhook"
	log.Printf("replaying event %s (%d deliveries) to %s", eventID, *deliveries, url)

	var acked, rejected atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				log.Printf("build request: %v", err)
				rejected.Add(1)
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Stripe-Signature", sigHeader)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				log.Printf("delivery failed: %v", err)
				rejected.Add(1)
				return
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				acked.Add(1)
			} else {
				log.Printf("delivery got status %d", resp.StatusCode)
				rejected.Add(1)
			}
		}()
	}

	wg.Wait()

	log.Printf("done in %v: %d acked, %d rejected", time.Since(start), acked.Load(), rejected.Load())
}

// signPayload builds a Stripe-Signature header for the payload: an
// HMAC-SHA256 of "<timestamp>.<payload>" keyed with the endpoint secret.
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
