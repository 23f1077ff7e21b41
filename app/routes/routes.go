// Package routes declares every named route of orderdesk.
package routes

import (
	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/app/guards"
)

// Handlers is what the route table needs from the kernel.
type Handlers struct {
	Auth     *controllers.AuthController
	Orders   *controllers.OrderController
	Products *controllers.ProductController
	AuthG    *guards.Guard // AuthGuard
	UnAuthG  *guards.Guard // UnAuthGuard
}
