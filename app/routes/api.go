package routes

import (
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/router"
)

// RegisterAPI mounts the JSON API. Everything but /api/login needs a bearer
// JWT.
func RegisterAPI(r *router.Router, h Handlers) {
	api := r.Group("/api")
	api.Post("/login", "api.login", h.Auth.APILogin)

	protected := api.Group("", middleware.AuthMiddleware)
	protected.Get("/products", "api.products.index", h.Products.Index)
	protected.Get("/orders", "api.orders.index", h.Orders.APIIndex)
	protected.Post("/orders", "api.orders.store", h.Orders.APIStore)
	protected.Post("/orders/derive", "api.orders.derive", h.Orders.APIDerive)
	protected.Get("/orders/{id}", "api.orders.show", h.Orders.APIShow)
	protected.Put("/orders/{id}", "api.orders.update", h.Orders.APIUpdate)
}
