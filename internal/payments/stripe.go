// Package payments wraps the Stripe gateway: payment-intent creation on
// checkout and signed-event verification on the webhook.
package payments

import (
	"context"
	"encoding/json"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

type Intent struct {
	ID           string
	ClientSecret string
}

type Gateway struct {
	secretKey     string
	webhookSecret string
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	stripe.Key = secretKey
	return &Gateway{secretKey: secretKey, webhookSecret: webhookSecret}
}

// Configured reports whether a real secret key is present. Placeholder keys
// keep the system in sandbox mode: orders are created without an intent.
func (g *Gateway) Configured() bool {
	return g.secretKey != "" && !strings.Contains(g.secretKey, "placeholder")
}

// VerifiesEvents reports whether webhook signatures can be checked.
func (g *Gateway) VerifiesEvents() bool {
	return g.webhookSecret != ""
}

// CreateIntent registers a charge attempt for a total in whole currency
// units; Stripe takes the amount in paise.
func (g *Gateway) CreateIntent(ctx context.Context, total int64, userID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(total * 100),
		Currency: stripe.String(string(stripe.CurrencyINR)),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseEvent verifies the raw webhook payload against its signature header.
func (g *Gateway) ParseEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, g.webhookSecret)
}

// IntentID pulls the payment-intent identifier out of a verified event's
// payload.
func IntentID(event stripe.Event) (string, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return "", err
	}
	return pi.ID, nil
}
