package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"backoffice/internal/transport/http/api"
)

// DecodeJSON reads r's body into dst and writes a 400 on failure. Unknown
// fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	return true
}

// ValidID reports whether raw is a UUID, the format of every stored id.
func ValidID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
