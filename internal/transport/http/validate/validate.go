package validate

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// DecodeJSON decodes the request body strictly; unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
