package payments

import (
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Gateway wraps the Stripe SDK. Charge creation, refunds and webhook
// verification all delegate to Stripe; nothing is reconciled locally
// beyond the payment row's status field.
type Gateway struct {
	webhookSecret    string
	webhookTolerance time.Duration
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	stripe.Key = secretKey
	return &Gateway{
		webhookSecret:    webhookSecret,
		webhookTolerance: 5 * time.Minute,
	}
}

func (g *Gateway) Enabled() bool {
	return stripe.Key != ""
}

// CreateIntent opens a payment intent for an appointment. Amount is in
// minor units.
func (g *Gateway) CreateIntent(amount int64, currency string, appointmentID uint, reference string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_reference", reference)
	params.AddMetadata("appointment_id", strconv.FormatUint(uint64(appointmentID), 10))
	return paymentintent.New(params)
}

func (g *Gateway) Refund(intentID string) (*stripe.Refund, error) {
	return refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	})
}

// VerifyWebhook checks the Stripe-Signature header; signature verification
// is the only auth on the webhook route.
func (g *Gateway) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithTolerance(payload, sigHeader, g.webhookSecret, g.webhookTolerance)
}
