package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/validation"
)

// DecodeJSONBody decodes a strict JSON body and runs struct validation.
func DecodeJSONBody(r *http.Request, dest any) error {
	if err := decodeStrict(r, dest, false); err != nil {
		return err
	}
	return validation.Struct(dest)
}

// DecodeOptionalJSONBody is DecodeJSONBody for endpoints whose body may be empty.
func DecodeOptionalJSONBody(r *http.Request, dest any) error {
	if err := decodeStrict(r, dest, true); err != nil {
		return err
	}
	return validation.Struct(dest)
}

// DecodeJSON decodes without validating, for services that report their own field errors.
// An empty body leaves dest untouched.
func DecodeJSON(r *http.Request, dest any) error {
	return decodeStrict(r, dest, true)
}

// decodeStrict reads one JSON value. Emptiness is judged from the stream, not ContentLength,
// so chunked requests without a body count as empty.
func decodeStrict(r *http.Request, dest any, allowEmpty bool) error {
	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	defer func() {
		io.Copy(io.Discard, body)
	}()
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}
