package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("payment gateway not configured")

// Stripe creates card PaymentIntents; the client secret goes back to the browser.
type Stripe struct {
	api      *client.API
	currency string
}

// NewStripe returns a gateway; an empty key yields one that always fails with ErrNotConfigured.
func NewStripe(secretKey, currency string) *Stripe {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	s := &Stripe{currency: currency}
	if secretKey != "" {
		s.api = client.New(secretKey, nil)
	}
	return s
}

func newStripeWithBackend(secretKey, currency string, b stripe.Backend) *Stripe {
	s := NewStripe(secretKey, currency)
	s.api = client.New(secretKey, &stripe.Backends{API: b, Connect: b, Uploads: b})
	return s
}

func (s *Stripe) CreateIntent(ctx context.Context, amountInCents int64) (string, error) {
	if s.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountInCents),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
