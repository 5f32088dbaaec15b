package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
)

// ParseIDParam reads a positive integer product id from the route.
func ParseIDParam(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryString returns a query parameter with whitespace runs collapsed, capped at
// maxRunes characters (0 means no cap).
func ParseQueryString(r *http.Request, key string, maxRunes int) string {
	value := strings.Join(strings.Fields(r.URL.Query().Get(key)), " ")
	if maxRunes > 0 && utf8.RuneCountInString(value) > maxRunes {
		value = string([]rune(value)[:maxRunes])
	}
	return value
}
