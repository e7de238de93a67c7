package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/middleware"
	"go-storefront/services"
)

// CouponController handles coupon-related requests
type CouponController struct {
	Coupons *services.CouponService
}

// NewCouponController creates a new CouponController
func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{Coupons: coupons}
}

// Get retrieves the user's active coupon, or null when none exists
func (cc *CouponController) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coupon, err := cc.Coupons.Active(ctx, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coupon)
}

// Validate checks a coupon code against the user's active coupon
func (cc *CouponController) Validate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Code == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coupon, err := cc.Coupons.Validate(ctx, user.ID, input.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":             "Coupon is valid",
		"code":                coupon.Code,
		"discount_percentage": coupon.DiscountPercentage,
	})
}
