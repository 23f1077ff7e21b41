// Package services holds the order desk use cases: logging in, checking a
// session token, listing orders and submitting the order form.
//
// Callers branch on the sentinels below with errors.Is:
//
//	ErrValidation  the draft failed Validate; the *ValidationError has the fields
//	ErrNetwork     the backend could not be reached or answered garbage
//	ErrAuth        credentials or token matched no user
//	ErrNotFound    the order does not exist
//	ErrConflict    the order changed since the draft was loaded
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shashiranjanraj/orderdesk/app/repositories"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("invalid credentials")
	ErrConflict   = errors.New("sale order was modified by someone else")

	ErrNetwork  = repositories.ErrNetwork
	ErrNotFound = repositories.ErrNotFound

	// ErrMalformedToken means the token is not base64 "username:password".
	ErrMalformedToken = errors.New("malformed session token")
)

// ValidationError carries the field path → message map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FieldErrors returns the field map when err is a validation failure.
func FieldErrors(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
