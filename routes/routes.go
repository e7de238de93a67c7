package routes

import (
	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, authMW mux.MiddlewareFunc,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	couponController *controllers.CouponController,
	paymentController *controllers.PaymentController,
	analyticsController *controllers.AnalyticsController) {

	api := router.PathPrefix("/api").Subrouter()

	// Public auth routes
	api.HandleFunc("/auth/signup", authController.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authController.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authController.Logout).Methods("POST")

	me := api.PathPrefix("/auth/me").Subrouter()
	me.Use(authMW)
	me.HandleFunc("", authController.Me).Methods("GET")

	// Public storefront product routes
	api.HandleFunc("/products/featured", productController.Featured).Methods("GET")
	api.HandleFunc("/products/recommendations", productController.Recommended).Methods("GET")
	api.HandleFunc("/products/category/{category}", productController.ByCategory).Methods("GET")

	// Admin product routes
	adminProducts := api.PathPrefix("/products").Subrouter()
	adminProducts.Use(authMW, middleware.Admin)
	adminProducts.HandleFunc("", productController.All).Methods("GET")
	adminProducts.HandleFunc("", productController.Create).Methods("POST")
	adminProducts.HandleFunc("/{id}", productController.Delete).Methods("DELETE")
	adminProducts.HandleFunc("/featured/{id}", productController.ToggleFeatured).Methods("PATCH")

	// Cart routes
	carts := api.PathPrefix("/carts").Subrouter()
	carts.Use(authMW)
	carts.HandleFunc("", cartController.Get).Methods("GET")
	carts.HandleFunc("", cartController.Add).Methods("POST")
	carts.HandleFunc("", cartController.Clear).Methods("DELETE")
	carts.HandleFunc("/{id}", cartController.RemoveItem).Methods("DELETE")
	carts.HandleFunc("/{id}", cartController.SetQuantity).Methods("PUT")

	// Coupon routes
	coupons := api.PathPrefix("/coupons").Subrouter()
	coupons.Use(authMW)
	coupons.HandleFunc("", couponController.Get).Methods("GET")
	coupons.HandleFunc("/validate", couponController.Validate).Methods("POST")

	// Payment routes
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(authMW)
	payments.HandleFunc("/create-checkout-session", paymentController.CreateCheckoutSession).Methods("POST")
	payments.HandleFunc("/checkout-success", paymentController.CheckoutSuccess).Methods("POST")

	// Analytics routes
	analytics := api.PathPrefix("/analytics").Subrouter()
	analytics.Use(authMW, middleware.Admin)
	analytics.HandleFunc("", analyticsController.Get).Methods("GET")
}
