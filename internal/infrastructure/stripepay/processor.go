package stripepay

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/amelia-salon/storefront/internal/domain/payment"
)

// Processor implements the payment port on top of Stripe payment
// intents. The secret key is process-global in stripe-go, set once at
// construction.
type Processor struct{}

func New(secretKey string) *Processor {
	stripe.Key = secretKey
	return &Processor{}
}

func (p *Processor) CreateIntent(ctx context.Context, in payment.CreateIntentParams) (*payment.Intent, error) {
	currency := in.Currency
	if currency == "" {
		currency = "eur"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(in.CustomerEmail),
		Shipping: &stripe.ShippingDetailsParams{
			Name:  stripe.String(in.CustomerName),
			Phone: stripe.String(in.Phone),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(in.Address),
				PostalCode: stripe.String(in.PostalCode),
				Country:    stripe.String("PT"),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", in.OrderID)
	params.AddMetadata("order_details", in.ItemSummary)
	params.AddMetadata("customer_name", in.CustomerName)
	params.AddMetadata("customer_email", in.CustomerEmail)
	params.AddMetadata("shipping_address", in.Address)
	params.AddMetadata("postal_code", in.PostalCode)
	params.AddMetadata("phone", in.Phone)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (p *Processor) GetIntent(ctx context.Context, id string) (*payment.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, payment.ErrIntentNotFound
		}
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) *payment.Intent {
	intent := &payment.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       payment.Status(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Created:      pi.Created,
	}
	if pi.ReceiptEmail != "" {
		intent.CustomerEmail = pi.ReceiptEmail
	} else if email, ok := pi.Metadata["customer_email"]; ok {
		intent.CustomerEmail = email
	}
	if pi.PaymentMethod != nil {
		intent.PaymentMethod = pi.PaymentMethod.ID
	}
	return intent
}
