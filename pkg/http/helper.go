package http

import (
	"net/http"
	"strconv"

	apperrors "fleetbook/pkg/errors"
)

// IntQuery parses an optional integer query parameter. Returns fallback when
// the parameter is absent, and an InvalidInput error when it is malformed.
func IntQuery(r *http.Request, name string, fallback int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}

// Int64Query parses an optional int64 query parameter, typically a
// unix-nanosecond timestamp.
func Int64Query(r *http.Request, name string, fallback int64) (int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}

func HasQuery(r *http.Request, name string) bool {
	return r.URL.Query().Has(name)
}
