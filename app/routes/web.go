package routes

import (
	"github.com/shashiranjanraj/orderdesk/pkg/router"
)

// RegisterWeb mounts the server-rendered pages. The login pages sit behind
// UnAuthGuard, everything under /home behind AuthGuard.
func RegisterWeb(r *router.Router, h Handlers) {
	r.Get("/", "login", h.Auth.ShowLogin, h.UnAuthG.Middleware)
	r.Post("/login", "login.submit", h.Auth.Login, h.UnAuthG.Middleware)
	r.Post("/logout", "logout", h.Auth.Logout)

	home := r.Group("/home", h.AuthG.Middleware)
	home.Get("", "home", h.Orders.Home)
	home.Get("/orders/new", "orders.new", h.Orders.New)
	home.Post("/orders/new", "orders.store", h.Orders.Store)
	home.Get("/orders/{id}", "orders.show", h.Orders.Show)
	home.Get("/orders/{id}/edit", "orders.edit", h.Orders.Edit)
	home.Post("/orders/{id}/edit", "orders.update", h.Orders.Update)
}
