package checkout

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shivanimeena11/plantweb/internal/cart"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
	"github.com/shivanimeena11/plantweb/pkg/validation"
)

const discountCoupon = "GREEN10"

var discountRate = decimal.RequireFromString("0.15")

// Cart is the slice of the cart store checkout reads and, on confirmation, takes.
type Cart interface {
	Snapshot(ctx context.Context) cart.Snapshot
	TakeAll(ctx context.Context, accept func(cart.Snapshot) bool) (cart.Snapshot, bool)
}

// QuoteRequest prices the order. Excluded ids are plants removed from this order only;
// the cart itself is untouched until confirmation.
type QuoteRequest struct {
	Coupon  string `json:"coupon"`
	Exclude []int  `json:"exclude"`
}

type Quote struct {
	Items     cart.Snapshot   `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Coupon    string          `json:"coupon,omitempty"`
}

// Form is the three-step checkout form.
type Form struct {
	Name    string `json:"name" validate:"required,alpha_space"`
	Email   string `json:"email" validate:"required,loose_email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Payment string `json:"payment" validate:"required"`
	Coupon  string `json:"coupon"`
	Exclude []int  `json:"exclude"`
}

// Confirmation is returned once the order is "placed". Nothing is charged or shipped.
type Confirmation struct {
	OrderID uuid.UUID `json:"order_id"`
	Name    string    `json:"name"`
	Payment string    `json:"payment"`
	Quote   Quote     `json:"quote"`
}

type Service struct {
	logg  *logger.Logger
	newID func() uuid.UUID
}

func NewService(logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{logg: logg, newID: uuid.New}
}

// Discount is 15% of subtotal for GREEN10 (trimmed, any case) and zero otherwise.
func Discount(coupon string, subtotal decimal.Decimal) decimal.Decimal {
	if strings.ToUpper(strings.TrimSpace(coupon)) != discountCoupon {
		return decimal.Zero
	}
	return subtotal.Mul(discountRate)
}

// Price computes a quote over lines.
func Price(lines cart.Snapshot, coupon string) Quote {
	totals := lines.Totals()
	discount := Discount(coupon, totals.TotalPrice)
	total := totals.TotalPrice.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	q := Quote{
		Items:     lines,
		ItemCount: totals.ItemCount,
		Subtotal:  totals.TotalPrice,
		Discount:  discount,
		Total:     total,
	}
	if !discount.IsZero() {
		q.Coupon = discountCoupon
	}
	return q
}

// Quote prices a local copy of the cart.
func (s *Service) Quote(ctx context.Context, c Cart, req QuoteRequest) Quote {
	return Price(localCopy(c.Snapshot(ctx), req.Exclude), req.Coupon)
}

// Confirm validates the form, refuses an empty order and clears the cart.
func (s *Service) Confirm(ctx context.Context, c Cart, form Form) (Confirmation, error) {
	if err := validation.Struct(&form); err != nil {
		return Confirmation{}, err
	}
	var quote Quote
	_, placed := c.TakeAll(ctx, func(lines cart.Snapshot) bool {
		quote = Price(localCopy(lines, form.Exclude), form.Coupon)
		return len(quote.Items) > 0
	})
	if !placed {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "your order is empty")
	}

	conf := Confirmation{
		OrderID: s.newID(),
		Name:    form.Name,
		Payment: form.Payment,
		Quote:   quote,
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": conf.OrderID.String(),
		"items":    quote.ItemCount,
		"total":    quote.Total.StringFixed(2),
	}), "checkout confirmed")
	return conf, nil
}

func localCopy(lines cart.Snapshot, exclude []int) cart.Snapshot {
	if len(exclude) == 0 {
		return lines
	}
	skip := make(map[int]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make(cart.Snapshot, 0, len(lines))
	for _, line := range lines {
		if _, drop := skip[line.ID]; !drop {
			out = append(out, line)
		}
	}
	return out
}
