package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator is implemented by request bodies that carry field-level rules.
// Validate returns one message per violation; an empty slice means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the JSON request body into dest, rejecting
// unknown fields, then runs dest's Validate if it has one. Failures are
// written to w as a 400 response and false is returned, so handlers can
// bail with a plain `if !DecodeAndValidate(...) { return }`.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if errs := v.Validate(); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}
