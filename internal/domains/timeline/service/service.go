package service

import (
	"context"
	"fmt"
	"time"

	"motorpool/config"
	"motorpool/infras/otel"
	carModel "motorpool/internal/domains/car/model"
	carRepo "motorpool/internal/domains/car/repository"
	resModel "motorpool/internal/domains/reservation/model"
	resRepo "motorpool/internal/domains/reservation/repository"
	"motorpool/internal/domains/timeline/model"
	"motorpool/internal/domains/timeline/model/dto"
	"motorpool/shared"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheGetTimeline = "timeline:get"

type Timeline interface {
	Build(ctx context.Context, date, view string) (dto.TimelineResponse, error)
}

type serviceImpl struct {
	carRepo carRepo.Car
	resRepo resRepo.Reservation
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(carRepo carRepo.Car, resRepo resRepo.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Timeline {
	return &serviceImpl{
		carRepo: carRepo,
		resRepo: resRepo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

// Build assembles the slot timeline for one day: every car as a row, every
// reservation touching that day mapped onto the slot grid.
func (s *serviceImpl) Build(ctx context.Context, date, view string) (res dto.TimelineResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Build")
	defer scope.End()
	defer scope.TraceIfError(err)

	if view == constant.Empty {
		view = constant.TimelineViewDay
	}

	if view != constant.TimelineViewDay && view != constant.TimelineViewExtended {
		return res, failure.BadRequestFromString("view must be one of day extended")
	}

	if date == constant.Empty {
		date = timezone.Format(timezone.Now(), constant.DayFormat)
	}

	day, err := timezone.Parse(constant.DayFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err))
	}

	cacheKey := shared.BuildCacheKey(cacheGetTimeline, date, view)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for timeline")

		return res, nil
	}

	grid := s.gridFor(view)

	cars, err := s.carRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  carModel.FieldName,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get cars for timeline")

		return res, fmt.Errorf("failed to get cars for timeline: %w", err)
	}

	dayStart := day
	dayEnd := day.Add(24 * time.Hour)

	reservations, err := s.resRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  resModel.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}, dayWindowFilter(dayStart, dayEnd))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations for timeline")

		return res, fmt.Errorf("failed to get reservations for timeline: %w", err)
	}

	res = dto.TimelineResponse{
		Date:  date,
		View:  view,
		Slots: grid.Labels(),
		Cars:  make([]dto.CarTimeline, len(cars)),
	}

	spansByCar := map[string][]dto.ReservationSpan{}

	for _, reservation := range reservations {
		startSlot, width := grid.Span(timezone.ToAppTime(reservation.StartTime), timezone.ToAppTime(reservation.EndTime), day)

		var span dto.ReservationSpan
		span.FromModel(reservation, startSlot, width)

		spansByCar[reservation.CarID] = append(spansByCar[reservation.CarID], span)
	}

	for i, car := range cars {
		res.Cars[i].FromModel(car)

		if spans, ok := spansByCar[car.ID]; ok {
			res.Cars[i].Spans = spans
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save timeline to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) gridFor(view string) model.SlotGrid {
	endHour := s.cfg.Timeline.EndHour
	if view == constant.TimelineViewExtended {
		endHour = s.cfg.Timeline.ExtendedEndHour
	}

	return model.NewSlotGrid(s.cfg.Timeline.StartHour, endHour, s.cfg.Timeline.GranularityMinutes)
}

func dayWindowFilter(dayStart, dayEnd time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    resModel.FieldStartTime,
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldEndTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    dayStart,
				Table:    resModel.TableName,
			},
		},
	}
}
