// Package controllers holds the HTTP handlers: the server-rendered pages
// (login, order list, order form, order details) and the JSON API.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
	"github.com/shashiranjanraj/orderdesk/pkg/session"
	"github.com/shashiranjanraj/orderdesk/pkg/tokenstore"
	"github.com/shashiranjanraj/orderdesk/pkg/view"
)

// User-facing messages.
const (
	MsgLoggedIn           = "Logged in"
	MsgInvalidLogin       = "Invalid credentials"
	MsgOrderCreated       = "Sale Order Created."
	MsgOrderUpdated       = "Sale Order Updated."
	MsgError              = "An error occurred."
	MsgConflict           = "This sale order was modified by someone else."
	MsgCatalogFailed      = "Could not load products. Please try again."
	MsgOrdersFailed       = "Could not load sale orders. Please try again."
	MsgOrderNotFound      = "Sale order not found."
	MsgServiceUnavailable = "The order service is temporarily unavailable. Please try again."
)

// redirect saves the session so pending flashes survive, then answers 303.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if err := session.FromCtx(r).Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func flash(r *http.Request, kind, message string) {
	session.FromCtx(r).Flash(kind, message)
}

// failure is the flash text for a backend error.
func failure(err error) string {
	return MsgError + " " + err.Error()
}

func loggedIn(tokens tokenstore.Factory, w http.ResponseWriter, r *http.Request) bool {
	_, ok := tokens(w, r).Get()
	return ok
}

// apiError maps a service error onto the JSON envelope.
func apiError(w http.ResponseWriter, r *http.Request, err error) {
	if fields, ok := services.FieldErrors(err); ok {
		response.ValidationError(w, fields)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrConflict):
		response.Conflict(w, MsgConflict)
	case errors.Is(err, services.ErrAuth):
		response.Error(w, http.StatusUnauthorized, MsgInvalidLogin)
	case errors.Is(err, services.ErrNetwork):
		logger.WithCtx(r.Context()).Error("backend call failed", "error", err)
		response.BadGateway(w, MsgServiceUnavailable)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.InternalError(w)
	}
}

// Unavailable is the page the guards show when the login page itself cannot
// check a token.
func Unavailable(v *view.View) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.Error(w, r, http.StatusServiceUnavailable, MsgServiceUnavailable, false)
	})
}
