package gateway

import (
	"context"
	"encoding/json"
	"essay-review/biz/infrastructure/config"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	MetadataPaymentID = "paymentId"

	EventCheckoutCompleted     = "checkout.session.completed"
	EventPaymentSucceeded      = "payment_intent.succeeded"
	EventPaymentFailed         = "payment_intent.payment_failed"
	checkoutSessionModePayment = "payment"
)

type CheckoutParams struct {
	PaymentID     string
	AnswerID      string
	Amount        int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type Session struct {
	ID  string
	URL string
}

// Event 经签名校验后的 webhook 事件，只保留业务需要的字段
type Event struct {
	Type          string
	PaymentID     string
	TransactionID string
}

type IGateway interface {
	CreateCheckoutSession(ctx context.Context, p *CheckoutParams) (*Session, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
	productName   string
}

func NewStripeGateway(config *config.Config) *StripeGateway {
	api := &client.API{}
	api.Init(config.Stripe.SecretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: config.Stripe.WebhookSecret,
		currency:      config.Stripe.Currency,
		productName:   config.Stripe.ProductName,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p *CheckoutParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(checkoutSessionModePayment),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(g.productName),
				},
				UnitAmount: stripe.Int64(p.Amount),
			},
			Quantity: stripe.Int64(1),
		}},
		ClientReferenceID: stripe.String(p.AnswerID),
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataPaymentID: p.PaymentID},
		},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata(MetadataPaymentID, p.PaymentID)

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session failed: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}
	return parseEvent(&event)
}

func parseEvent(event *stripe.Event) (*Event, error) {
	e := &Event{Type: string(event.Type)}
	switch e.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("parse checkout session failed: %w", err)
		}
		e.PaymentID = s.Metadata[MetadataPaymentID]
		e.TransactionID = s.ID
		if s.PaymentIntent != nil && s.PaymentIntent.ID != "" {
			e.TransactionID = s.PaymentIntent.ID
		}
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("parse payment intent failed: %w", err)
		}
		e.PaymentID = pi.Metadata[MetadataPaymentID]
		e.TransactionID = pi.ID
	}
	return e, nil
}
