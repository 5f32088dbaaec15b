package checkout

import (
	"strings"

	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
)

// Step is one stage of the checkout form.
type Step struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

var steps = []Step{
	{Index: 1, Label: "Personal"},
	{Index: 2, Label: "Shipping"},
	{Index: 3, Label: "Payment"},
}

// Field names accepted by Suggest.
const (
	FieldAddress = "address"
	FieldCity    = "city"
	FieldZip     = "zip"
	FieldPayment = "payment"
	FieldCoupon  = "coupon"
)

var optionLists = map[string][]string{
	FieldAddress: {"House No 123, Green Avenue", "Apt 45, Eco Residency", "23B, Flora Colony", "12, Main Street"},
	FieldCity:    {"Delhi", "Mumbai", "Bengaluru", "Chennai", "Kolkata"},
	FieldZip:     {"110001", "400001", "560001", "600001", "700001"},
	FieldPayment: {"Debit/Credit Card", "UPI", "Cash on Delivery"},
	FieldCoupon:  {"GREEN10", "NEWUSER", "PLANTLOVER"},
}

// Options are the canned dropdown values shown on the form.
type Options struct {
	Steps     []Step   `json:"steps"`
	Addresses []string `json:"addresses"`
	Cities    []string `json:"cities"`
	Zips      []string `json:"zips"`
	Payments  []string `json:"payments"`
	Coupons   []string `json:"coupons"`
}

func DefaultOptions() Options {
	return Options{
		Steps:     append([]Step(nil), steps...),
		Addresses: cloneList(FieldAddress),
		Cities:    cloneList(FieldCity),
		Zips:      cloneList(FieldZip),
		Payments:  cloneList(FieldPayment),
		Coupons:   cloneList(FieldCoupon),
	}
}

// Suggest filters a field's options by case-insensitive substring. Empty input lists everything;
// when nothing matches the typed text itself is the only suggestion.
func Suggest(field, typed string) ([]string, error) {
	options, ok := optionLists[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown checkout field").
			WithDetails(map[string]any{"field": field})
	}
	if typed == "" {
		return append([]string(nil), options...), nil
	}
	needle := strings.ToLower(typed)
	out := make([]string, 0, len(options))
	for _, option := range options {
		if strings.Contains(strings.ToLower(option), needle) {
			out = append(out, option)
		}
	}
	if len(out) == 0 {
		return []string{typed}, nil
	}
	return out, nil
}

func cloneList(field string) []string {
	return append([]string(nil), optionLists[field]...)
}
