package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/amelia-salon/storefront/internal/application/inventory"
	domcart "github.com/amelia-salon/storefront/internal/domain/cart"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	domcheckout "github.com/amelia-salon/storefront/internal/domain/checkout"
	"github.com/amelia-salon/storefront/internal/domain/payment"
	"github.com/amelia-salon/storefront/internal/infrastructure/id"
	"github.com/amelia-salon/storefront/internal/infrastructure/memory"
)

// fakeProcessor records created intents and serves them back with a
// configurable status.
type fakeProcessor struct {
	intents    map[string]*payment.Intent
	lastParams payment.CreateIntentParams
	status     payment.Status
	createErr  error
	seq        int
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		intents: make(map[string]*payment.Intent),
		status:  payment.StatusSucceeded,
	}
}

func (f *fakeProcessor) CreateIntent(_ context.Context, params payment.CreateIntentParams) (*payment.Intent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	f.lastParams = params
	intent := &payment.Intent{
		ID:           fmt.Sprintf("pi_%d", f.seq),
		ClientSecret: fmt.Sprintf("pi_%d_secret", f.seq),
		Status:       payment.StatusRequiresPaymentMethod,
		Amount:       params.Amount,
		Currency:     params.Currency,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeProcessor) GetIntent(_ context.Context, intentID string) (*payment.Intent, error) {
	intent, ok := f.intents[intentID]
	if !ok {
		return nil, payment.ErrIntentNotFound
	}
	out := *intent
	out.Status = f.status
	return &out, nil
}

type fixture struct {
	svc       *Service
	carts     *memory.CartStore
	sessions  *memory.CheckoutStore
	repo      *memory.ProductRepository
	processor *fakeProcessor
	ids       map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := memory.NewProductRepository()
	ids := make(map[string]string)
	seed := []struct {
		name  string
		price float64
		stock int
	}{
		{"Shampoo", 15, 25},
		{"Conditioner", 18, 20},
	}
	for _, s := range seed {
		p, err := domcatalog.NewProduct(s.name, s.price, "/img.png", "desc", "EUR", "Hair Care", s.stock, false)
		require.NoError(t, err)
		created, err := repo.Create(context.Background(), p)
		require.NoError(t, err)
		ids[s.name] = created.ID
	}

	carts := memory.NewCartStore(time.Hour)
	t.Cleanup(func() { _ = carts.Close() })
	sessions := memory.NewCheckoutStore(time.Hour)
	t.Cleanup(func() { _ = sessions.Close() })

	processor := newFakeProcessor()
	inventorySvc := appinventory.NewService(repo, nil, nil)

	return &fixture{
		svc:       NewService(carts, sessions, repo, processor, inventorySvc, id.NewGenerator(), nil),
		carts:     carts,
		sessions:  sessions,
		repo:      repo,
		processor: processor,
		ids:       ids,
	}
}

func (f *fixture) fillCart(t *testing.T, cartID string) {
	t.Helper()
	err := f.carts.Mutate(cartID, func(c *domcart.Cart) error {
		if err := c.Add(domcart.Item{ProductID: f.ids["Shampoo"], Name: "Shampoo", Price: 15, Currency: "EUR", Quantity: 2}, 25); err != nil {
			return err
		}
		return c.Add(domcart.Item{ProductID: f.ids["Conditioner"], Name: "Conditioner", Price: 18, Currency: "EUR", Quantity: 1}, 20)
	})
	require.NoError(t, err)
}

func (f *fixture) submitShipping(t *testing.T, cartID string) {
	t.Helper()
	fieldErrs, err := f.svc.SubmitShipping(context.Background(), cartID, domcheckout.ShippingInfo{
		Name:       "Maria Silva",
		Address:    "Rua das Flores 10",
		PostalCode: "1000-100",
		Phone:      "912345678",
		Email:      "maria@example.com",
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
}

func TestSubmitShipping_FieldErrors(t *testing.T) {
	f := newFixture(t)

	fieldErrs, err := f.svc.SubmitShipping(context.Background(), "cart-1", domcheckout.ShippingInfo{
		Name:       "Maria",
		Address:    "Rua 1",
		PostalCode: "10000100",
		Phone:      "12345",
		Email:      "not-an-email",
	})
	require.NoError(t, err)
	assert.Len(t, fieldErrs, 3)
	assert.Contains(t, fieldErrs, "postalCode")
	assert.Contains(t, fieldErrs, "phone")
	assert.Contains(t, fieldErrs, "email")
}

func TestCreatePaymentIntent_AmountAndMetadata(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	res, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	// 2x15.00 + 1x18.00 = 48.00 EUR = 4800 cents
	assert.Equal(t, int64(4800), res.Amount)
	assert.Equal(t, "pi_1", res.PaymentIntentID)
	assert.NotEmpty(t, res.ClientSecret)
	assert.True(t, strings.HasPrefix(res.OrderID, "SB-"), "order id %q", res.OrderID)
	assert.Len(t, res.OrderID, 11)

	assert.Equal(t, "eur", f.processor.lastParams.Currency)
	assert.Equal(t, res.OrderID, f.processor.lastParams.OrderID)
	assert.Equal(t, "Maria Silva", f.processor.lastParams.CustomerName)
	assert.Contains(t, f.processor.lastParams.ItemSummary, `"name":"Shampoo"`)

	sess, err := f.svc.Session("cart-1")
	require.NoError(t, err)
	assert.Equal(t, domcheckout.StateSubmitting, sess.State)
}

func TestCreatePaymentIntent_EmptyCart(t *testing.T) {
	f := newFixture(t)
	f.carts.GetOrCreate("cart-1")
	f.submitShipping(t, "cart-1")

	_, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreatePaymentIntent_RequiresShippingFirst(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")

	_, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.ErrorIs(t, err, domcheckout.ErrSessionNotFound)
}

func TestCreatePaymentIntent_StaleCart(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	// Stock drains between add-to-cart and payment.
	_, err := f.repo.DecrementStock(context.Background(), f.ids["Shampoo"], 24)
	require.NoError(t, err)

	_, err = f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	var stale *StaleCartError
	require.ErrorAs(t, err, &stale)
	require.Len(t, stale.Shortages, 1)
	assert.Equal(t, f.ids["Shampoo"], stale.Shortages[0].ProductID)
	assert.Equal(t, 2, stale.Shortages[0].Requested)
	assert.Equal(t, 1, stale.Shortages[0].Available)
}

func TestCreatePaymentIntent_ProcessorError(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")
	f.processor.createErr = errors.New("stripe: api key expired")

	_, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.ErrorContains(t, err, "api key expired")

	sess, serr := f.svc.Session("cart-1")
	require.NoError(t, serr)
	assert.Equal(t, domcheckout.StateCollectingPayment, sess.State, "a processor error must not consume the session")
}

func TestComplete_HappyPath(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	res, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	done, err := f.svc.Complete(context.Background(), "cart-1", res.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, res.OrderID, done.OrderID)
	assert.Equal(t, domcheckout.StateSucceeded, done.State)
	require.NotNil(t, done.Inventory)
	assert.True(t, done.Inventory.Success)

	// Stock decremented per line.
	shampoo, err := f.repo.Get(context.Background(), f.ids["Shampoo"])
	require.NoError(t, err)
	assert.Equal(t, 23, shampoo.Stock)
	conditioner, err := f.repo.Get(context.Background(), f.ids["Conditioner"])
	require.NoError(t, err)
	assert.Equal(t, 19, conditioner.Stock)

	// Cart cleared, session released for the next purchase.
	assert.Empty(t, f.carts.Get("cart-1").Items)
	_, err = f.svc.Session("cart-1")
	require.ErrorIs(t, err, domcheckout.ErrSessionNotFound)
}

func TestComplete_PaymentNotSucceeded(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	res, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	f.processor.status = payment.StatusRequiresPaymentMethod
	_, err = f.svc.Complete(context.Background(), "cart-1", res.PaymentIntentID)
	require.ErrorIs(t, err, ErrPaymentIncomplete)

	// Nothing shipped, nothing decremented.
	shampoo, gerr := f.repo.Get(context.Background(), f.ids["Shampoo"])
	require.NoError(t, gerr)
	assert.Equal(t, 25, shampoo.Stock)

	sess, serr := f.svc.Session("cart-1")
	require.NoError(t, serr)
	assert.Equal(t, domcheckout.StateFailed, sess.State)
}

func TestComplete_RetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	res, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	f.processor.status = payment.StatusCanceled
	_, err = f.svc.Complete(context.Background(), "cart-1", res.PaymentIntentID)
	require.ErrorIs(t, err, ErrPaymentIncomplete)

	// A second intent reopens the failed session.
	f.processor.status = payment.StatusSucceeded
	res2, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)
	assert.NotEqual(t, res.PaymentIntentID, res2.PaymentIntentID)

	done, err := f.svc.Complete(context.Background(), "cart-1", res2.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, domcheckout.StateSucceeded, done.State)
}

func TestComplete_AfterRecordedFailureLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	res, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	// Client-side confirmation failed; a late complete for the same
	// intent must not ship or decrement anything.
	require.NoError(t, f.svc.RecordFailure(context.Background(), "cart-1", "Your card was declined."))

	_, err = f.svc.Complete(context.Background(), "cart-1", res.PaymentIntentID)
	require.ErrorIs(t, err, domcheckout.ErrIllegalTransition)

	shampoo, err := f.repo.Get(context.Background(), f.ids["Shampoo"])
	require.NoError(t, err)
	assert.Equal(t, 25, shampoo.Stock)
	conditioner, err := f.repo.Get(context.Background(), f.ids["Conditioner"])
	require.NoError(t, err)
	assert.Equal(t, 20, conditioner.Stock)

	assert.NotEmpty(t, f.carts.Get("cart-1").Items, "the cart survives for the retry")
}

func TestComplete_DuplicateCompleteDoesNotDecrementTwice(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	res, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), "cart-1", res.PaymentIntentID)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), "cart-1", res.PaymentIntentID)
	require.Error(t, err)

	shampoo, err := f.repo.Get(context.Background(), f.ids["Shampoo"])
	require.NoError(t, err)
	assert.Equal(t, 23, shampoo.Stock, "stock moves once per paid checkout")
}

func TestComplete_RejectsIntentFromAnotherSession(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")
	res1, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	// A second, cheaper session opens its own intent.
	err = f.carts.Mutate(t.Name(), func(c *domcart.Cart) error {
		return c.Add(domcart.Item{ProductID: f.ids["Conditioner"], Name: "Conditioner", Price: 18, Currency: "EUR", Quantity: 1}, 20)
	})
	require.NoError(t, err)
	f.submitShipping(t, t.Name())
	res2, err := f.svc.CreatePaymentIntent(context.Background(), t.Name())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), "cart-1", res2.PaymentIntentID)
	require.ErrorIs(t, err, ErrIntentMismatch)

	shampoo, err := f.repo.Get(context.Background(), f.ids["Shampoo"])
	require.NoError(t, err)
	assert.Equal(t, 25, shampoo.Stock)

	sess, err := f.svc.Session("cart-1")
	require.NoError(t, err)
	assert.Equal(t, res1.PaymentIntentID, sess.IntentID)
	assert.Equal(t, domcheckout.StateSubmitting, sess.State)
}

func TestRecordFailure_KeepsProcessorMessageVerbatim(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "cart-1")
	f.submitShipping(t, "cart-1")

	_, err := f.svc.CreatePaymentIntent(context.Background(), "cart-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.RecordFailure(context.Background(), "cart-1", "Your card was declined."))
	sess, err := f.svc.Session("cart-1")
	require.NoError(t, err)
	assert.Equal(t, domcheckout.StateFailed, sess.State)
	assert.Equal(t, "Your card was declined.", sess.FailureMessage)
}
