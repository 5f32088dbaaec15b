package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceQuantity turns whatever arrived (JSON number, numeric string, json.Number) into a
// whole quantity. Non-numeric, missing or zero input yields def; the result is never below 1
// unless def is.
func CoerceQuantity(v any, def int) int {
	n, ok := toNumber(v)
	if !ok {
		return def
	}
	q := int(math.Trunc(n))
	if q == 0 {
		return def
	}
	if q < 1 {
		return 1
	}
	return q
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case float64:
		n = t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return n, true
}

func atLeastOne(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
