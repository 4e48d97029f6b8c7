//go:build wireinject
// +build wireinject

package di

import (
	"motorpool/config"
	"motorpool/infras/jwt"
	"motorpool/infras/kafka"
	"motorpool/infras/otel"
	"motorpool/infras/postgres"
	"motorpool/infras/redis"
	"motorpool/infras/s3"
	"motorpool/internal/events"
	"motorpool/permissions"
	"motorpool/shared/cache"
	"motorpool/transport/http"
	"motorpool/transport/http/middleware"
	"motorpool/transport/http/router"

	"github.com/google/wire"

	authService "motorpool/internal/domains/auth/service"
	carRepository "motorpool/internal/domains/car/repository"
	carService "motorpool/internal/domains/car/service"
	reservationRepository "motorpool/internal/domains/reservation/repository"
	reservationService "motorpool/internal/domains/reservation/service"
	timelineService "motorpool/internal/domains/timeline/service"
	userRepository "motorpool/internal/domains/user/repository"
	userService "motorpool/internal/domains/user/service"
	weekendRepository "motorpool/internal/domains/weekend/repository"
	weekendService "motorpool/internal/domains/weekend/service"

	authHandler "motorpool/internal/handlers/auth"
	carHandler "motorpool/internal/handlers/car"
	reservationHandler "motorpool/internal/handlers/reservation"
	timelineHandler "motorpool/internal/handlers/timeline"
	userHandler "motorpool/internal/handlers/user"
	weekendHandler "motorpool/internal/handlers/weekend"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var eventing = wire.NewSet(
	events.NewPublisher,
	events.NewConsumer,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var carDomain = wire.NewSet(
	carRepository.New,
	carService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var timelineDomain = wire.NewSet(
	timelineService.New,
)

var weekendDomain = wire.NewSet(
	weekendRepository.New,
	weekendService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	carDomain,
	reservationDomain,
	timelineDomain,
	weekendDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	carHandler.New,
	reservationHandler.New,
	timelineHandler.New,
	weekendHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeConsumer() *events.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		redis.New,
		kafka.New,
		cache.NewRedisCache,
		events.NewConsumer,
	)

	return &events.Consumer{}
}
