package payments

import (
	"context"
	"errors"
)

// StatusPaid is the provider payment status that allows an order to be
// recorded.
const StatusPaid = "paid"

// ErrSessionNotFound is returned when the provider has no session with
// the requested id.
var ErrSessionNotFound = errors.New("checkout session not found")

// LineItem is one product line of a checkout session
type LineItem struct {
	Name       string
	Image      string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

// SessionParams describes a checkout session to be created
type SessionParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	CouponID   string // provider-side discount object, empty for none
	Metadata   map[string]string
}

// Session is the provider's view of a checkout session. The provider is
// the source of truth for payment status and the charged amount.
type Session struct {
	ID            string
	PaymentStatus string
	AmountTotal   int64 // minor currency units
	Metadata      map[string]string
}

// Provider is the payment-provider boundary. It is satisfied by the
// Stripe implementation and by test fakes.
type Provider interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	CreatePercentCoupon(ctx context.Context, percentOff int) (string, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
