package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Price keeps the catalog's display price verbatim ("₹199", "199.50" or a bare number)
// so the persisted mirror round-trips unchanged.
type Price struct {
	text    string
	numeric bool
}

// NewPrice wraps a display string such as "₹199".
func NewPrice(text string) Price {
	return Price{text: text}
}

// NumericPrice wraps a raw amount, serialized as a JSON number.
func NumericPrice(amount decimal.Decimal) Price {
	return Price{text: amount.String(), numeric: true}
}

func (p Price) String() string {
	return p.text
}

// Amount strips every character that is not a digit or '.', then parses. Anything unparseable is zero.
func (p Price) Amount() decimal.Decimal {
	return NormalizePrice(p.text)
}

// NormalizePrice applies the storefront-wide price sanitizer.
func NormalizePrice(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	amount, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.numeric {
		return []byte(p.text), nil
	}
	return json.Marshal(p.text)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return errors.New("empty price")
	case bytes.Equal(data, []byte("null")):
		*p = Price{}
		return nil
	case data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*p = Price{text: text}
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*p = Price{text: num.String(), numeric: true}
		return nil
	}
}
