package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/middleware"
	"go-storefront/services"
)

// PaymentController handles checkout-session requests
type PaymentController struct {
	Checkout *services.CheckoutService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(checkout *services.CheckoutService) *PaymentController {
	return &PaymentController{Checkout: checkout}
}

type checkoutProductInput struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateCheckoutSession builds a provider checkout session from the
// submitted products and an optional coupon code
func (pc *PaymentController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Products   []checkoutProductInput `json:"products"`
		CouponCode string                 `json:"couponCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if len(input.Products) == 0 {
		http.Error(w, "Invalid or empty products array", http.StatusBadRequest)
		return
	}

	products := make([]services.CheckoutProduct, 0, len(input.Products))
	for _, p := range input.Products {
		id, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}
		products = append(products, services.CheckoutProduct{
			ID:       id,
			Name:     p.Name,
			Image:    p.Image,
			Price:    p.Price,
			Quantity: p.Quantity,
		})
	}

	// Session creation talks to the payment provider
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := pc.Checkout.CreateSession(ctx, user.ID, products, input.CouponCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CheckoutSuccess records the order for a paid checkout session
func (pc *PaymentController) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.SessionID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := pc.Checkout.ConfirmSession(ctx, input.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Payment successful, order created, and coupon deactivated if used.",
		"order_id": order.ID.Hex(),
	})
}
