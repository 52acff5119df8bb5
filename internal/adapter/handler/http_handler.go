package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/service"
)

type HTTPHandler struct {
	checkoutService *service.CheckoutService
	stockService    *service.StockService
}

type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserID string             `json:"user_id"`
	Items  []OrderLineRequest `json:"items"`
}

type PlaceOrderResponse struct {
	OrderID         string `json:"order_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	TotalCents      int64  `json:"total_cents"`
}

type ProductStockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

func NewHTTPHandler(checkoutService *service.CheckoutService, stockService *service.StockService) *HTTPHandler {
	return &HTTPHandler{checkoutService: checkoutService, stockService: stockService}
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err := h.checkoutService.PlaceOrder(r.Context(), req.UserID, lines)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			http.Error(w, "order has no items", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidQuantity):
			http.Error(w, "invalid quantity", http.StatusBadRequest)
		case errors.Is(err, service.ErrUnknownProduct):
			http.Error(w, "unknown product", http.StatusNotFound)
		default:
			log.Printf("place order failed: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, PlaceOrderResponse{
		OrderID:         result.OrderID,
		PaymentIntentID: result.PaymentIntentID,
		ClientSecret:    result.ClientSecret,
		TotalCents:      result.TotalCents,
	})
}

func (h *HTTPHandler) ProductStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	productID := r.URL.Query().Get("id")
	if productID == "" {
		http.Error(w, "missing product id", http.StatusBadRequest)
		return
	}

	stock, err := h.stockService.GetStock(r.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Printf("stock read failed for %s: %v", productID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ProductStockResponse{ProductID: productID, Stock: stock})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
