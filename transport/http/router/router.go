package router

import (
	"shareit/internal/handlers/booking"
	"shareit/internal/handlers/item"
	"shareit/internal/handlers/request"
	"shareit/internal/handlers/user"
	"shareit/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	User    user.Handler
	Item    item.Handler
	Request request.Handler
	Booking booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
}

// SetupRoutes mounts every domain at the root. Users are managed without an acting user;
// the other domains require the identity header.
func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.User.Router(router)

	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.Identity)

		r.DomainHandlers.Item.Router(routerGroup)
		r.DomainHandlers.Request.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middleware middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     middleware,
	}
}
