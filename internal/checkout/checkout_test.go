package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanimeena11/plantweb/internal/cart"
	"github.com/shivanimeena11/plantweb/internal/storage"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
)

func seededCart(t *testing.T) *cart.Store {
	t.Helper()
	ctx := context.Background()
	st := storage.NewProvider(storage.NewMemory(), 0).Local("client")
	c, err := cart.NewStore(cart.StoreParams{Storage: st})
	require.NoError(t, err)
	c.AddToCart(ctx, cart.Product{ID: 1, Name: "Fern", Price: cart.NewPrice("₹199")}, 2)
	c.AddToCart(ctx, cart.Product{ID: 2, Name: "Cactus", Price: cart.NewPrice("₹50")}, 1)
	return c
}

func validForm() Form {
	return Form{
		Name:    "Asha Rao",
		Email:   "asha@plants.in",
		Address: "23B, Flora Colony",
		City:    "Bengaluru",
		Zip:     "560001",
		Payment: "UPI",
	}
}

func TestQuoteAppliesGreen10(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	c := seededCart(t)

	q := svc.Quote(ctx, c, QuoteRequest{})
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(448)))
	assert.True(t, q.Discount.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(448)))
	assert.Equal(t, 3, q.ItemCount)

	q = svc.Quote(ctx, c, QuoteRequest{Coupon: "  green10 "})
	assert.Equal(t, "67.2", q.Discount.String())
	assert.Equal(t, "380.8", q.Total.String())
	assert.Equal(t, "GREEN10", q.Coupon)

	q = svc.Quote(ctx, c, QuoteRequest{Coupon: "NEWUSER"})
	assert.True(t, q.Discount.IsZero())
}

func TestQuoteWorksOnLocalCopy(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	c := seededCart(t)

	q := svc.Quote(ctx, c, QuoteRequest{Exclude: []int{1}})
	require.Len(t, q.Items, 1)
	assert.Equal(t, 2, q.Items[0].ID)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(50)))

	assert.Len(t, c.Snapshot(ctx), 2, "cart store is untouched")
}

func TestConfirmClearsCart(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	fixed := uuid.MustParse("7b0c7a64-2b8f-4a55-9d0b-7f2a3b7f0e11")
	svc.newID = func() uuid.UUID { return fixed }
	c := seededCart(t)

	form := validForm()
	form.Coupon = "GREEN10"
	conf, err := svc.Confirm(ctx, c, form)
	require.NoError(t, err)
	assert.Equal(t, fixed, conf.OrderID)
	assert.Equal(t, "380.8", conf.Quote.Total.String())
	assert.Empty(t, c.Snapshot(ctx))
}

func TestConfirmRejectsInvalidFormWithoutClearing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	c := seededCart(t)

	form := validForm()
	form.Email = "asha"
	form.City = ""
	_, err := svc.Confirm(ctx, c, form)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "city")

	assert.Len(t, c.Snapshot(ctx), 2)
}

func TestConfirmRefusesEmptyOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	c := seededCart(t)

	form := validForm()
	form.Exclude = []int{1, 2}
	_, err := svc.Confirm(ctx, c, form)
	require.Error(t, err)
	assert.Equal(t, "your order is empty", pkgerrors.As(err).Message())
	assert.Len(t, c.Snapshot(ctx), 2)
}

func TestConfirmKeepsLinesAddedConcurrently(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	aloe := cart.Product{ID: 9, Name: "Aloe", Price: cart.NewPrice("₹120")}

	for round := 0; round < 50; round++ {
		c := seededCart(t)
		added := make(chan struct{})
		go func() {
			defer close(added)
			c.AddToCart(ctx, aloe, 1)
		}()
		conf, err := svc.Confirm(ctx, c, validForm())
		<-added
		require.NoError(t, err)

		_, inOrder := conf.Quote.Items.Find(aloe.ID)
		_, inCart := c.Snapshot(ctx).Find(aloe.ID)
		require.True(t, inOrder != inCart, "round %d: aloe in order=%v, in cart=%v", round, inOrder, inCart)
	}
}

func TestPriceNeverNegative(t *testing.T) {
	q := Price(cart.Snapshot{}, "GREEN10")
	assert.True(t, q.Total.IsZero())
	assert.Empty(t, q.Coupon)
}

func TestSuggest(t *testing.T) {
	got, err := Suggest("city", "")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = Suggest("City", "MU")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mumbai"}, got)

	got, err = Suggest("address", "colony")
	require.NoError(t, err)
	assert.Equal(t, []string{"23B, Flora Colony"}, got)

	got, err = Suggest("zip", "999")
	require.NoError(t, err)
	assert.Equal(t, []string{"999"}, got)

	_, err = Suggest("phone", "1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDefaultOptionsAreCopies(t *testing.T) {
	opts := DefaultOptions()
	require.Len(t, opts.Steps, 3)
	assert.Equal(t, "Payment", opts.Steps[2].Label)
	opts.Cities[0] = "Pune"
	assert.Equal(t, "Delhi", DefaultOptions().Cities[0])
}
