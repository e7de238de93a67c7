package services

import "errors"

var (
	// ErrNotFound is returned when a requested user, product, coupon or
	// session does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when request data is missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrCouponExpired is returned when a coupon matched but its
	// expiration date has passed; the coupon is deactivated as a side
	// effect
	ErrCouponExpired = errors.New("coupon expired")

	// ErrPaymentIncomplete is returned when a checkout session is
	// confirmed before the provider reports it as paid
	ErrPaymentIncomplete = errors.New("payment not completed")
)
