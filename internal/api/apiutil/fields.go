package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ParseOptionalIntQuery returns def when the query parameter is absent.
func ParseOptionalIntQuery(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, FieldError{Field: key, Reason: "must be 0 or greater"}
	}
	return value, nil
}

func ParseOptionalInt64Query(r *http.Request, key string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, FieldError{Field: key, Reason: "must be 0 or greater"}
	}
	return value, nil
}

// RequiredString trims value and fails when it is empty.
func RequiredString(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	return value, nil
}

// PathValue reads a path wildcard and fails when it is blank.
func PathValue(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}
