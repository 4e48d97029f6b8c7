package service

import (
	"context"
	"fmt"

	"motorpool/config"
	"motorpool/infras/otel"
	"motorpool/infras/s3"
	"motorpool/internal/domains/car/model"
	"motorpool/internal/domains/car/model/dto"
	"motorpool/internal/domains/car/repository"
	"motorpool/internal/events"
	"motorpool/shared"
	"motorpool/shared/base64"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetCar    = "car:get"
	cacheGetAllCar = "car:gets"
	cacheCountCar  = "car:count"
)

type Car interface {
	Create(ctx context.Context, req dto.CreateCarRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCarsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CarResponse, error)
	Update(ctx context.Context, req dto.UpdateCarRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Car
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	publisher events.Publisher
}

func New(repo repository.Car, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, publisher events.Publisher) Car {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		publisher: publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCarRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	plateFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldLicensePlate,
				Operator: gDto.FilterOperatorEq,
				Value:    req.LicensePlate,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, plateFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if car exists")

		return fmt.Errorf("failed to check if car exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("license plate already registered")
	}

	imageURL := constant.Empty
	var uploadedObjectName string
	if req.Image != constant.Empty {
		contentType, data, err := base64.DecodeDataURL(req.Image)
		if err != nil {
			log.Error().Err(err).Msg("failed to decode car image")

			return failure.BadRequestFromString("image must be a base64 data-URL")
		}

		bucketName := s.cfg.External.S3.BucketName
		filename := uuid.NewString()

		url, err := s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, filename, contentType, data)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
		uploadedObjectName = filename
	}

	car := req.ToModel(user, imageURL)

	if err = s.repo.Insert(ctx, car); err != nil {
		if uploadedObjectName != constant.Empty {
			bucketName := s.cfg.External.S3.BucketName
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return err
	}

	s.notifyChange(ctx, events.OpCreated, car.ID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCarsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCar, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for cars")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count cars")

		return res, fmt.Errorf("failed to count cars: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get cars")

		return res, fmt.Errorf("failed to get cars: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save cars to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCar, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for car count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count cars")

		return res, fmt.Errorf("failed to count cars: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save car count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetCar, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for car")

		return res, nil
	}

	car, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get car")

		return res, fmt.Errorf("failed to get car: %w", err)
	}

	if car.ID == constant.Empty {
		return res, failure.NotFound("car not found")
	}

	res.FromModel(car)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save car to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCarRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(nil)

	if req == (dto.UpdateCarRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if car exists")

		return fmt.Errorf("failed to check if car exists: %w", err)
	}

	if !exist {
		log.Error().Msg("car not found")

		return failure.NotFound("car not found")
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update car")

		return fmt.Errorf("failed to update car: %w", err)
	}

	s.notifyChange(ctx, events.OpUpdated, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(nil)

	car, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get car")

		return fmt.Errorf("failed to get car: %w", err)
	}

	if car.ID == constant.Empty {
		log.Error().Msg("car not found")

		return failure.NotFound("car not found")
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete car")

		return fmt.Errorf("failed to delete car: %w", err)
	}

	if car.Image != nil && *car.Image != constant.Empty {
		bucketName := s.cfg.External.S3.BucketName
		objectName := s.s3.GetObjectNameFromURL(bucketName, *car.Image)

		if objectName != constant.Empty {
			if err := s.s3.DeleteFile(ctx, bucketName, constant.Empty, objectName); err != nil {
				log.Warn().Err(err).Str("object", objectName).Msg("failed to delete car image from S3")
			}
		}
	}

	s.notifyChange(ctx, events.OpDeleted, id)

	return nil
}

func (s *serviceImpl) notifyChange(ctx context.Context, op, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCar, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete car from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCar)
		shared.InvalidateCaches(c, s.cache, cacheCountCar)

		if err := s.publisher.PublishChange(c, events.ChangeEvent{
			Entity: events.EntityCar,
			Op:     op,
			ID:     id,
		}); err != nil {
			log.Error().Err(err).Str("car_id", id).Msg("failed to publish car change event")
		}
	}()
}
