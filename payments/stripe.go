package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProvider implements Provider against the Stripe API
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider using the given secret key
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// CreateSession creates a hosted checkout session
func (p *StripeProvider) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(item.Name),
					Images: stripe.StringSlice([]string{item.Image}),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	if params.CouponID != "" {
		sessionParams.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(params.CouponID)},
		}
	}
	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(sess), nil
}

// CreatePercentCoupon registers a single-use percentage discount object
// and returns its id
func (p *StripeProvider) CreatePercentCoupon(ctx context.Context, percentOff int) (string, error) {
	couponParams := &stripe.CouponParams{
		PercentOff: stripe.Float64(float64(percentOff)),
		Duration:   stripe.String(string(stripe.CouponDurationOnce)),
	}
	couponParams.Context = ctx

	coupon, err := p.api.Coupons.New(couponParams)
	if err != nil {
		return "", err
	}
	return coupon.ID, nil
}

// GetSession retrieves a checkout session by id
func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	sessionParams := &stripe.CheckoutSessionParams{}
	sessionParams.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(id, sessionParams)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return fromStripeSession(sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}
}
