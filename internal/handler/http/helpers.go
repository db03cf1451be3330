package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// queryInt parses a required integer query parameter. A missing or malformed value
// is reported as a validation error on that field.
func queryInt(r *http.Request, key string, errs *validator.ValidationErrors) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		*errs = append(*errs, validator.ValidationError{Field: key, Message: "is required"})
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, validator.ValidationError{Field: key, Message: "must be a number"})
		return 0
	}
	return v
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string, errs *validator.ValidationErrors) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, validator.ValidationError{Field: key, Message: "must be true or false"})
		return false
	}
	return v
}

func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}
