// Package repositories are the HTTP clients for the REST backend's
// collections: /sale-orders, /products and /users.
//
// Every failure is reported as one of two sentinels so callers never need
// to look at status codes:
//
//	ErrNotFound  the backend answered 404
//	ErrNetwork   transport failure, timeout, other non-2xx, bad JSON
package repositories

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrNetwork  = errors.New("backend unavailable")
)

// send executes req and decodes a 2xx body into dest (nil to discard).
func send(req *httpclient.Request, dest interface{}) error {
	resp, err := req.Send()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if dest == nil {
		return nil
	}
	if err := resp.JSON(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return nil
}
