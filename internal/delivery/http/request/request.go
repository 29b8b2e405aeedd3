package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 1 << 20 // 1MB

// DecodeJSON decodes a JSON request body into the provided struct with a size limit
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	limitedReader := io.LimitReader(r.Body, maxRequestBodySize)

	if err := json.NewDecoder(limitedReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

// GetIDParam extracts a positive integer id parameter from the URL
func GetIDParam(r *http.Request, key string) (int64, error) {
	param := chi.URLParam(r, key)
	if param == "" {
		return 0, fmt.Errorf("missing parameter: %s", key)
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer")
	}

	return id, nil
}

// GetIntQuery extracts an optional integer query parameter.
// Returns the default when absent and an error when not an integer.
func GetIntQuery(r *http.Request, key string, defaultValue int64) (int64, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return intValue, nil
}

// HasPaginationParams reports whether the request asked for a paginated listing
func HasPaginationParams(r *http.Request) bool {
	q := r.URL.Query()
	return q.Has("limit") || q.Has("cursor")
}
