package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/utils"
)

const (
	loyaltyDiscountPercent = 10
	loyaltyCouponValidity  = 30 * 24 * time.Hour
	loyaltyCodePrefix      = "GIFT"
)

// CouponStore is the coupon persistence required by CouponService
type CouponStore interface {
	ActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error)
	ActiveByCode(ctx context.Context, userID primitive.ObjectID, code string) (*models.Coupon, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	DeactivateByCode(ctx context.Context, userID primitive.ObjectID, code string) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
	Insert(ctx context.Context, coupon *models.Coupon) error
}

// CouponService implements coupon issuance and validation
type CouponService struct {
	coupons CouponStore
	now     func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons CouponStore) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

// Active returns the user's single active coupon, or nil when none exists
func (s *CouponService) Active(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.coupons.ActiveByUser(ctx, userID)
}

// ByCode returns the user's active coupon matching the given code, or nil
func (s *CouponService) ByCode(ctx context.Context, userID primitive.ObjectID, code string) (*models.Coupon, error) {
	return s.coupons.ActiveByCode(ctx, userID, code)
}

// Validate checks the user's active coupon against the given code.
// A match past its expiration date is deactivated and reported as
// ErrCouponExpired; no active match is ErrNotFound.
func (s *CouponService) Validate(ctx context.Context, userID primitive.ObjectID, code string) (*models.Coupon, error) {
	coupon, err := s.coupons.ActiveByCode(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrNotFound
	}

	if coupon.ExpirationDate.Before(s.now()) {
		if err := s.coupons.Deactivate(ctx, coupon.ID); err != nil {
			return nil, err
		}
		return nil, ErrCouponExpired
	}

	return coupon, nil
}

// IssueLoyalty replaces any coupons the user holds with a fresh 10 percent
// loyalty coupon valid for 30 days. The delete-then-create keeps the
// one-active-coupon-per-user invariant.
func (s *CouponService) IssueLoyalty(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	if err := s.coupons.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Code:               loyaltyCodePrefix + utils.RandomCode(6),
		DiscountPercentage: loyaltyDiscountPercent,
		ExpirationDate:     s.now().Add(loyaltyCouponValidity),
		UserID:             userID,
		IsActive:           true,
		CreatedAt:          s.now(),
	}
	if err := s.coupons.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeactivateByCode clears the active flag of the user's coupon with the
// given code
func (s *CouponService) DeactivateByCode(ctx context.Context, userID primitive.ObjectID, code string) error {
	return s.coupons.DeactivateByCode(ctx, userID, code)
}
