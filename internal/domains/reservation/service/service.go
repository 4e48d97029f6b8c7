package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motorpool/config"
	"motorpool/infras/otel"
	carModel "motorpool/internal/domains/car/model"
	carRepo "motorpool/internal/domains/car/repository"
	"motorpool/internal/domains/reservation/model"
	"motorpool/internal/domains/reservation/model/dto"
	"motorpool/internal/domains/reservation/repository"
	"motorpool/internal/events"
	"motorpool/shared"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Reservation
	carRepo   carRepo.Car
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	publisher events.Publisher
}

func New(repo repository.Reservation, carRepo carRepo.Car, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, publisher events.Publisher) Reservation {
	return &serviceImpl{
		repo:      repo,
		carRepo:   carRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userName, _ := ctx.Value(constant.ContextKeyUserName).(string)

	var userDepartment *string
	if department, ok := ctx.Value(constant.ContextKeyUserDepartment).(string); ok && department != constant.Empty {
		userDepartment = &department
	}

	car, err := s.carRepo.Get(ctx, shared.FilterByID(req.CarID, carModel.FieldID, carModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get car")

		return fmt.Errorf("failed to get car: %w", err)
	}

	if car.ID == constant.Empty {
		return failure.BadRequestFromString("car does not exist")
	}

	if !car.Available {
		return failure.BadRequestFromString("car is not available for reservations")
	}

	reservation, err := req.ToModel(userID, userName, userDepartment)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse reservation request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err))
	}

	if !reservation.EndTime.After(reservation.StartTime) {
		return failure.BadRequestFromString("end time must be after start time")
	}

	conflict, err := s.repo.InsertIfAvailable(ctx, reservation)
	if err != nil {
		if errors.Is(err, repository.ErrTimeSlotTaken) {
			return conflictFailure(conflict)
		}

		log.Error().Err(err).Msg("failed to create reservation")

		return fmt.Errorf("failed to create reservation: %w", err)
	}

	s.notifyChange(ctx, events.OpCreated, reservation.ID, reservation.CarID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("missing user identity")
	}

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found")
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	existing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if existing.ID == constant.Empty {
		return failure.NotFound("reservation not found")
	}

	if err := requireOwnerOrAdmin(ctx, existing.UserID); err != nil {
		return err
	}

	start, end, fields, err := buildUpdate(req, existing, userID)
	if err != nil {
		return failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err))
	}

	if !end.After(start) {
		return failure.BadRequestFromString("end time must be after start time")
	}

	conflict, err := s.repo.UpdateIfAvailable(ctx, fields, id, existing.CarID, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrTimeSlotTaken) {
			return conflictFailure(conflict)
		}

		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.notifyChange(ctx, events.OpUpdated, id, existing.CarID)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(nil)

	existing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if existing.ID == constant.Empty {
		return failure.NotFound("reservation not found")
	}

	if err := requireOwnerOrAdmin(ctx, existing.UserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.notifyChange(ctx, events.OpDeleted, id, existing.CarID)

	return nil
}

func requireOwnerOrAdmin(ctx context.Context, ownerID string) error {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if userID == ownerID || role == constant.RoleAdmin || role == constant.RoleSuperAdmin {
		return nil
	}

	return failure.ResourceRestrictedError
}

func buildUpdate(req dto.UpdateReservationRequest, existing model.Reservation, userID string) (start, end time.Time, fields map[string]any, err error) {
	start = existing.StartTime
	end = existing.EndTime
	fields = map[string]any{}

	if req.StartTime != constant.Empty {
		start, err = time.Parse(constant.DateFormat, req.StartTime)
		if err != nil {
			return start, end, fields, err
		}

		start = timezone.ToAppTime(start)
		fields[model.FieldStartTime] = start
	}

	if req.EndTime != constant.Empty {
		end, err = time.Parse(constant.DateFormat, req.EndTime)
		if err != nil {
			return start, end, fields, err
		}

		end = timezone.ToAppTime(end)
		fields[model.FieldEndTime] = end
	}

	if req.Purpose != nil {
		fields[model.FieldPurpose] = *req.Purpose
	}

	if req.Destination != nil {
		fields[model.FieldDestination] = *req.Destination
	}

	if req.IsDirect != nil {
		fields[model.FieldIsDirect] = *req.IsDirect
	}

	if req.DirectReason != nil {
		fields[model.FieldDirectReason] = *req.DirectReason
	}

	if req.Passengers != nil {
		fields[model.FieldPassengers] = pq.StringArray(req.Passengers)
	}

	if req.Notes != nil {
		fields[model.FieldNotes] = *req.Notes
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = userID

	return start, end, fields, nil
}

func conflictFailure(conflict model.Reservation) error {
	if conflict.ID == constant.Empty {
		return failure.Conflict("car is already reserved for the requested time")
	}

	return failure.Conflict(fmt.Sprintf(
		"car is already reserved by %s from %s to %s",
		conflict.UserName,
		timezone.Format(conflict.StartTime, constant.DateFormat),
		timezone.Format(conflict.EndTime, constant.DateFormat),
	))
}

func (s *serviceImpl) notifyChange(ctx context.Context, op, id, carID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)

		if err := s.publisher.PublishChange(c, events.ChangeEvent{
			Entity: events.EntityReservation,
			Op:     op,
			ID:     id,
			CarID:  carID,
		}); err != nil {
			log.Error().Err(err).Str("reservation_id", id).Msg("failed to publish reservation change event")
		}
	}()
}
