package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/payments"
)

// LoyaltyThreshold is the discounted checkout total, in minor currency
// units, above which a loyalty coupon is issued.
const LoyaltyThreshold = 20000

// OrderStore is the order persistence required by CheckoutService
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	BySessionID(ctx context.Context, sessionID string) (*models.Order, error)
}

// Coupons is the coupon behavior required by CheckoutService; it is
// satisfied by CouponService
type Coupons interface {
	ByCode(ctx context.Context, userID primitive.ObjectID, code string) (*models.Coupon, error)
	DeactivateByCode(ctx context.Context, userID primitive.ObjectID, code string) error
	IssueLoyalty(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error)
}

// UserFinder looks up the buyer for the confirmation email
type UserFinder interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Mailer sends the order confirmation; it may be nil to disable email
type Mailer interface {
	SendOrderConfirmation(toEmail string, order *models.Order) error
}

// CheckoutProduct is one product line submitted for checkout
type CheckoutProduct struct {
	ID       primitive.ObjectID
	Name     string
	Image    string
	Price    float64
	Quantity int
}

// SessionResult is the outcome of creating a checkout session
type SessionResult struct {
	SessionID   string  `json:"id"`
	TotalAmount float64 `json:"total_amount"`
}

// sessionMetaProduct is the durable record of intended order contents,
// embedded in the provider session metadata until confirmation
type sessionMetaProduct struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CheckoutService orchestrates checkout: it builds provider sessions from
// cart contents and materializes orders upon confirmed payment.
type CheckoutService struct {
	orders     OrderStore
	users      UserFinder
	coupons    Coupons
	provider   payments.Provider
	mailer     Mailer
	successURL string
	cancelURL  string
}

// NewCheckoutService creates a new CheckoutService. clientURL is the
// storefront base URL used for the provider redirect targets.
func NewCheckoutService(orders OrderStore, users UserFinder, coupons Coupons, provider payments.Provider, mailer Mailer, clientURL string) *CheckoutService {
	return &CheckoutService{
		orders:     orders,
		users:      users,
		coupons:    coupons,
		provider:   provider,
		mailer:     mailer,
		successURL: clientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  clientURL + "/purchase-cancel",
	}
}

// CreateSession builds a provider checkout session from the submitted
// products and an optional coupon code. Totals are computed in integer
// minor currency units; the percentage discount truncates. A discounted
// total above LoyaltyThreshold issues a loyalty coupon as a side effect.
func (s *CheckoutService) CreateSession(ctx context.Context, userID primitive.ObjectID, products []CheckoutProduct, couponCode string) (*SessionResult, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: empty products", ErrInvalidInput)
	}

	lineItems := make([]payments.LineItem, 0, len(products))
	meta := make([]sessionMetaProduct, 0, len(products))
	var total int64
	for _, product := range products {
		quantity := product.Quantity
		if quantity < 1 {
			quantity = 1
		}
		unitAmount := int64(math.Round(product.Price * 100))
		total += unitAmount * int64(quantity)

		lineItems = append(lineItems, payments.LineItem{
			Name:       product.Name,
			Image:      product.Image,
			UnitAmount: unitAmount,
			Quantity:   int64(quantity),
		})
		meta = append(meta, sessionMetaProduct{
			ID:       product.ID.Hex(),
			Quantity: quantity,
			Price:    product.Price,
		})
	}

	params := payments.SessionParams{
		LineItems:  lineItems,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	}

	if couponCode != "" {
		coupon, err := s.coupons.ByCode(ctx, userID, couponCode)
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			return nil, fmt.Errorf("%w: coupon %s", ErrNotFound, couponCode)
		}
		total -= total * int64(coupon.DiscountPercentage) / 100

		couponID, err := s.provider.CreatePercentCoupon(ctx, coupon.DiscountPercentage)
		if err != nil {
			return nil, err
		}
		params.CouponID = couponID
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	params.Metadata = map[string]string{
		"userId":     userID.Hex(),
		"couponCode": couponCode,
		"products":   string(metaJSON),
	}

	session, err := s.provider.CreateSession(ctx, params)
	if err != nil {
		return nil, err
	}

	if total > LoyaltyThreshold {
		// Best effort: the provider session already exists, so a failed
		// issuance must not strand the checkout.
		if _, err := s.coupons.IssueLoyalty(ctx, userID); err != nil {
			log.Error().Err(err).Str("user_id", userID.Hex()).Msg("issuing loyalty coupon failed")
		}
	}

	return &SessionResult{SessionID: session.ID, TotalAmount: float64(total) / 100}, nil
}

// ConfirmSession records the order for a paid checkout session. The call
// is idempotent: a session already confirmed returns its existing order.
// A session the provider does not report as paid fails with
// ErrPaymentIncomplete and records nothing.
func (s *CheckoutService) ConfirmSession(ctx context.Context, sessionID string) (*models.Order, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidInput)
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payments.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
		}
		return nil, err
	}

	if existing, err := s.orders.BySessionID(ctx, sessionID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	if session.PaymentStatus != payments.StatusPaid {
		return nil, fmt.Errorf("%w: session %s is %q", ErrPaymentIncomplete, sessionID, session.PaymentStatus)
	}

	userID, err := primitive.ObjectIDFromHex(session.Metadata["userId"])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id in session metadata", ErrInvalidInput)
	}

	var meta []sessionMetaProduct
	if err := json.Unmarshal([]byte(session.Metadata["products"]), &meta); err != nil {
		return nil, fmt.Errorf("%w: malformed products in session metadata", ErrInvalidInput)
	}

	items := make([]models.OrderItem, 0, len(meta))
	for _, product := range meta {
		productID, err := primitive.ObjectIDFromHex(product.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed product id in session metadata", ErrInvalidInput)
		}
		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  product.Quantity,
			Price:     product.Price,
		})
	}

	order := &models.Order{
		UserID: userID,
		Items:  items,
		// The provider's charged amount is authoritative, not the
		// locally recomputed total.
		TotalAmount:     float64(session.AmountTotal) / 100,
		StripeSessionID: sessionID,
	}
	orderID, err := s.orders.Insert(ctx, order)
	if err != nil {
		// A concurrent confirmation may have won the session's
		// unique-index race; its order is the one to return.
		if existing, lookupErr := s.orders.BySessionID(ctx, sessionID); lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	order.ID = orderID

	// The coupon is only consumed once the order exists. A failure here
	// is logged rather than surfaced: the order is already recorded.
	if code := session.Metadata["couponCode"]; code != "" {
		if err := s.coupons.DeactivateByCode(ctx, userID, code); err != nil {
			log.Warn().Err(err).Str("order_id", orderID.Hex()).Msg("deactivating coupon after order failed")
		}
	}

	s.sendConfirmation(ctx, userID, order)

	return order, nil
}

// sendConfirmation emails the buyer; failures are logged and swallowed
func (s *CheckoutService) sendConfirmation(ctx context.Context, userID primitive.ObjectID, order *models.Order) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.ByID(ctx, userID)
	if err != nil || user == nil {
		log.Warn().Err(err).Str("user_id", userID.Hex()).Msg("buyer lookup for confirmation email failed")
		return
	}
	if err := s.mailer.SendOrderConfirmation(user.Email, order); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.Hex()).Msg("order confirmation email failed")
	}
}
