package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	appinventory "github.com/amelia-salon/storefront/internal/application/inventory"
	domcart "github.com/amelia-salon/storefront/internal/domain/cart"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	domcheckout "github.com/amelia-salon/storefront/internal/domain/checkout"
	dominv "github.com/amelia-salon/storefront/internal/domain/inventory"
	"github.com/amelia-salon/storefront/internal/domain/payment"
	"github.com/amelia-salon/storefront/internal/infrastructure/memory"
	"github.com/amelia-salon/storefront/internal/infrastructure/observability/prometrics"
	"github.com/amelia-salon/storefront/internal/pkg/logging"
)

const (
	useCaseIntent   = "checkout.create_intent"
	useCaseComplete = "checkout.complete"
)

var (
	ErrEmptyCart         = errors.New("checkout: cart is empty, nothing to check out")
	ErrPaymentIncomplete = errors.New("checkout: payment has not succeeded")
	ErrIntentMismatch    = errors.New("checkout: payment intent does not belong to this session")
)

// OrderIDGenerator produces the human-readable order token carried in
// intent metadata and the confirmation URL.
type OrderIDGenerator interface {
	NewOrderID() string
}

// StockShortage describes a line that went stale between catalog fetch
// and checkout.
type StockShortage struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StaleCartError is returned when the pre-payment re-validation finds
// lines exceeding current stock.
type StaleCartError struct {
	Shortages []StockShortage
}

func (e *StaleCartError) Error() string {
	return fmt.Sprintf("checkout: %d cart line(s) exceed available stock", len(e.Shortages))
}

// IntentResult is what the payment step hands back to the client.
type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	OrderID         string `json:"orderId"`
	Amount          int64  `json:"amount"`
}

// CompleteResult reports the terminal outcome of a checkout.
type CompleteResult struct {
	OrderID   string            `json:"orderId"`
	State     domcheckout.State `json:"state"`
	Inventory *dominv.Result    `json:"inventory,omitempty"`
}

// Service drives the two-step checkout state machine.
type Service struct {
	carts     *memory.CartStore
	sessions  *memory.CheckoutStore
	products  domcatalog.Repository
	processor payment.Processor
	inventory *appinventory.Service
	orderIDs  OrderIDGenerator
	metrics   *prometrics.Metrics
}

func NewService(
	carts *memory.CartStore,
	sessions *memory.CheckoutStore,
	products domcatalog.Repository,
	processor payment.Processor,
	inventory *appinventory.Service,
	orderIDs OrderIDGenerator,
	metrics *prometrics.Metrics,
) *Service {
	return &Service{
		carts:     carts,
		sessions:  sessions,
		products:  products,
		processor: processor,
		inventory: inventory,
		orderIDs:  orderIDs,
		metrics:   metrics,
	}
}

// SubmitShipping validates the shipping form and advances the session
// to payment collection. Field-level problems come back in the map; the
// error return is reserved for state machine violations.
func (s *Service) SubmitShipping(ctx context.Context, cartID string, info domcheckout.ShippingInfo) (map[string]string, error) {
	_ = ctx
	if fieldErrs := info.Validate(); len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	sess := s.sessions.GetOrCreate(cartID)
	if err := sess.SubmitShipping(info); err != nil {
		return nil, err
	}
	return nil, nil
}

// CreatePaymentIntent re-validates stock for every cart line, opens a
// payment intent with the processor and moves the session to
// submitting. A failed session is reopened first so the buyer can retry.
func (s *Service) CreatePaymentIntent(ctx context.Context, cartID string) (*IntentResult, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("use_case", useCaseIntent),
		zap.String("cart_id", cartID),
	)
	start := time.Now()

	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return nil, err
	}
	if sess.State == domcheckout.StateFailed {
		if err := sess.Reopen(); err != nil {
			return nil, err
		}
	}
	if sess.State != domcheckout.StateCollectingPayment {
		return nil, domcheckout.ErrIllegalTransition
	}

	c := s.carts.Get(cartID)
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Stock shown to the buyer may be stale; re-check against the store
	// immediately before money moves.
	if shortages := s.findShortages(ctx, c.Items); len(shortages) > 0 {
		s.metrics.ObserveUsecase(useCaseIntent, "stale_cart", time.Since(start).Seconds())
		return nil, &StaleCartError{Shortages: shortages}
	}

	orderID := s.orderIDs.NewOrderID()
	amount := int64(math.Round(c.TotalPrice() * 100))

	intent, err := s.processor.CreateIntent(ctx, payment.CreateIntentParams{
		Amount:        amount,
		Currency:      lowerCurrency(c.Currency()),
		OrderID:       orderID,
		CustomerName:  sess.Shipping.Name,
		CustomerEmail: sess.Shipping.Email,
		Address:       sess.Shipping.Address,
		PostalCode:    sess.Shipping.PostalCode,
		Phone:         sess.Shipping.Phone,
		ItemSummary:   itemSummary(c.Items),
	})
	if err != nil {
		s.metrics.ObserveUsecase(useCaseIntent, "error", time.Since(start).Seconds())
		logger.Error("payment_intent_create_failed", zap.Error(err))
		return nil, err
	}

	if err := sess.BeginSubmission(orderID, intent.ID); err != nil {
		return nil, err
	}

	s.metrics.ObserveUsecase(useCaseIntent, "success", time.Since(start).Seconds())
	logger.Info("payment_intent_created",
		zap.String("order_id", orderID),
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", amount),
	)

	return &IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		OrderID:         orderID,
		Amount:          amount,
	}, nil
}

// Complete finishes the checkout after the client confirmed the card
// payment. The intent status is re-checked with the processor; only a
// succeeded intent decrements stock and clears the cart.
func (s *Service) Complete(ctx context.Context, cartID, intentID string) (*CompleteResult, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("use_case", useCaseComplete),
		zap.String("cart_id", cartID),
		zap.String("payment_intent_id", intentID),
	)
	start := time.Now()

	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return nil, err
	}
	// Stock must not move for a session that is not mid-submission: a
	// late or duplicate complete would decrement lines it already paid
	// for, or lines it never will.
	if sess.State != domcheckout.StateSubmitting {
		return nil, domcheckout.ErrIllegalTransition
	}
	if sess.IntentID != intentID {
		return nil, ErrIntentMismatch
	}

	intent, err := s.processor.GetIntent(ctx, intentID)
	if err != nil {
		s.metrics.ObserveUsecase(useCaseComplete, "error", time.Since(start).Seconds())
		return nil, err
	}

	if intent.Status != payment.StatusSucceeded {
		_ = sess.Fail("payment not completed: " + string(intent.Status))
		s.metrics.ObserveUsecase(useCaseComplete, "payment_failed", time.Since(start).Seconds())
		logger.Warn("checkout_payment_not_succeeded", zap.String("status", string(intent.Status)))
		return nil, ErrPaymentIncomplete
	}

	c := s.carts.Get(cartID)
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]dominv.LineRequest, len(c.Items))
	for i, item := range c.Items {
		lines[i] = dominv.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	invResult := s.inventory.Adjust(ctx, lines)

	if err := sess.Succeed(); err != nil {
		return nil, err
	}
	_ = s.carts.Mutate(cartID, func(c *domcart.Cart) error {
		c.Clear()
		return nil
	})
	s.sessions.Drop(cartID)

	s.metrics.ObserveUsecase(useCaseComplete, "success", time.Since(start).Seconds())
	logger.Info("checkout_completed",
		zap.String("order_id", sess.OrderID),
		zap.Bool("inventory_ok", invResult.Success),
	)

	return &CompleteResult{
		OrderID:   sess.OrderID,
		State:     domcheckout.StateSucceeded,
		Inventory: invResult,
	}, nil
}

// RecordFailure marks the session failed with the processor's message,
// verbatim.
func (s *Service) RecordFailure(ctx context.Context, cartID, message string) error {
	_ = ctx
	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return err
	}
	return sess.Fail(message)
}

// PaymentStatus looks the intent up with the processor for the
// confirmation view.
func (s *Service) PaymentStatus(ctx context.Context, intentID string) (*payment.Intent, error) {
	return s.processor.GetIntent(ctx, intentID)
}

// Session exposes the current checkout session for a cart.
func (s *Service) Session(cartID string) (*domcheckout.Session, error) {
	return s.sessions.Get(cartID)
}

func (s *Service) findShortages(ctx context.Context, items []domcart.Item) []StockShortage {
	var shortages []StockShortage
	for _, item := range items {
		p, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			shortages = append(shortages, StockShortage{
				ProductID: item.ProductID,
				Name:      item.Name,
				Requested: item.Quantity,
				Available: 0,
			})
			continue
		}
		if p.Stock < item.Quantity {
			shortages = append(shortages, StockShortage{
				ProductID: item.ProductID,
				Name:      item.Name,
				Requested: item.Quantity,
				Available: p.Stock,
			})
		}
	}
	return shortages
}

func itemSummary(items []domcart.Item) string {
	type line struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	lines := make([]line, len(items))
	for i, it := range items {
		lines[i] = line{ID: it.ProductID, Name: it.Name, Quantity: it.Quantity}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func lowerCurrency(c string) string {
	switch c {
	case "EUR", "eur", "":
		return "eur"
	case "USD", "usd":
		return "usd"
	case "GBP", "gbp":
		return "gbp"
	default:
		return "eur"
	}
}
