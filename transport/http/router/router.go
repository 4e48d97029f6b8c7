package router

import (
	"motorpool/internal/handlers/auth"
	"motorpool/internal/handlers/car"
	"motorpool/internal/handlers/reservation"
	"motorpool/internal/handlers/timeline"
	"motorpool/internal/handlers/user"
	"motorpool/internal/handlers/weekend"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Car         car.Handler
	Reservation reservation.Handler
	Timeline    timeline.Handler
	Weekend     weekend.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Car.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Timeline.Router(routerGroup)
		r.DomainHandlers.Weekend.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
