package service

import (
	"context"
	"fmt"

	"motorpool/config"
	"motorpool/infras/otel"
	"motorpool/infras/s3"
	carModel "motorpool/internal/domains/car/model"
	carRepo "motorpool/internal/domains/car/repository"
	"motorpool/internal/domains/weekend/model"
	"motorpool/internal/domains/weekend/model/dto"
	"motorpool/internal/domains/weekend/repository"
	"motorpool/internal/events"
	"motorpool/shared"
	"motorpool/shared/base64"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetWeekend    = "weekend_request:get"
	cacheGetAllWeekend = "weekend_request:gets"
	cacheCountWeekend  = "weekend_request:count"
)

type WeekendRequest interface {
	Submit(ctx context.Context, req dto.SubmitWeekendRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWeekendRequestsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetWeekendRequestsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.WeekendRequestResponse, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, req dto.RejectWeekendRequest, id string) error
	AttachUsage(ctx context.Context, req dto.AttachUsageRequest, id string) error
}

type serviceImpl struct {
	repo      repository.WeekendRequest
	carRepo   carRepo.Car
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	publisher events.Publisher
}

func New(repo repository.WeekendRequest, carRepo carRepo.Car, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, publisher events.Publisher) WeekendRequest {
	return &serviceImpl{
		repo:      repo,
		carRepo:   carRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		publisher: publisher,
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitWeekendRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userName, _ := ctx.Value(constant.ContextKeyUserName).(string)

	var userDepartment *string
	if department, ok := ctx.Value(constant.ContextKeyUserDepartment).(string); ok && department != constant.Empty {
		userDepartment = &department
	}

	if userID == constant.Empty {
		return failure.Unauthorized("missing user identity")
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
		return failure.BadRequestFromString("car is not available for weekend use")
	}

	request, err := req.ToModel(userID, userName, userDepartment)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse weekend request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err))
	}

	if !request.EndTime.After(request.StartTime) {
		return failure.BadRequestFromString("end time must be after start time")
	}

	if err = s.repo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to submit weekend request")

		return fmt.Errorf("failed to submit weekend request: %w", err)
	}

	s.notifyChange(ctx, events.OpCreated, request.ID, request.CarID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWeekendRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllWeekend, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for weekend requests")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count weekend requests")

		return res, fmt.Errorf("failed to count weekend requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get weekend requests")

		return res, fmt.Errorf("failed to get weekend requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save weekend requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetWeekendRequestsResponse, err error) {
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

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountWeekend, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for weekend request count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count weekend requests")

		return res, fmt.Errorf("failed to count weekend requests: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save weekend request count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WeekendRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetWeekend, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for weekend request")

		return res, nil
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get weekend request")

		return res, fmt.Errorf("failed to get weekend request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.NotFound("weekend request not found")
	}

	if err := requireOwnerOrAdmin(ctx, request.UserID); err != nil {
		return res, err
	}

	res.FromModel(request)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save weekend request to cache")
		}
	}()

	return res, nil
}

// Approve moves a pending request to approved. Approved and rejected are
// final states, a second decision on the same request is refused.
func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err := requireAdmin(ctx); err != nil {
		return err
	}

	request, err := s.pendingRequest(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	fields := map[string]any{
		model.FieldStatus:        model.StatusApproved,
		model.FieldApprovedAt:    now,
		model.FieldApprovedBy:    userID,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to approve weekend request")

		return fmt.Errorf("failed to approve weekend request: %w", err)
	}

	s.notifyChange(ctx, events.OpUpdated, id, request.CarID)

	return nil
}

// Reject moves a pending request to rejected. A reason is mandatory so the
// requester knows why.
func (s *serviceImpl) Reject(ctx context.Context, req dto.RejectWeekendRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if req.Reason == constant.Empty {
		return failure.BadRequestFromString("reject reason cannot be empty")
	}

	request, err := s.pendingRequest(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	fields := map[string]any{
		model.FieldStatus:        model.StatusRejected,
		model.FieldRejectedAt:    now,
		model.FieldRejectedBy:    userID,
		model.FieldRejectReason:  req.Reason,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reject weekend request")

		return fmt.Errorf("failed to reject weekend request: %w", err)
	}

	s.notifyChange(ctx, events.OpUpdated, id, request.CarID)

	return nil
}

// AttachUsage records odometer readings and condition photos on an approved
// request. Only the requester or an admin may attach usage.
func (s *serviceImpl) AttachUsage(ctx context.Context, req dto.AttachUsageRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AttachUsage")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("usage request cannot be empty")
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get weekend request")

		return fmt.Errorf("failed to get weekend request: %w", err)
	}

	if request.ID == constant.Empty {
		return failure.NotFound("weekend request not found")
	}

	if err := requireOwnerOrAdmin(ctx, request.UserID); err != nil {
		return err
	}

	if request.Status != model.StatusApproved {
		return failure.BadRequestFromString("usage can only be attached to an approved request")
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: userID,
	}

	if req.OdometerBefore != nil {
		fields[model.FieldOdometerBefore] = *req.OdometerBefore
	}

	if req.OdometerAfter != nil {
		fields[model.FieldOdometerAfter] = *req.OdometerAfter
	}

	var uploaded []string
	defer func() {
		if err == nil {
			return
		}

		bucketName := s.cfg.External.S3.BucketName
		for _, objectName := range uploaded {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
		}
	}()

	if req.ImageBefore != constant.Empty {
		url, objectName, uploadErr := s.uploadImage(ctx, req.ImageBefore)
		if uploadErr != nil {
			return uploadErr
		}

		uploaded = append(uploaded, objectName)
		fields[model.FieldImageBefore] = url
	}

	if req.ImageAfter != constant.Empty {
		url, objectName, uploadErr := s.uploadImage(ctx, req.ImageAfter)
		if uploadErr != nil {
			return uploadErr
		}

		uploaded = append(uploaded, objectName)
		fields[model.FieldImageAfter] = url
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to attach usage to weekend request")

		return fmt.Errorf("failed to attach usage to weekend request: %w", err)
	}

	s.notifyChange(ctx, events.OpUpdated, id, request.CarID)

	return nil
}

func (s *serviceImpl) pendingRequest(ctx context.Context, id string) (model.WeekendRequest, error) {
	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get weekend request")

		return request, fmt.Errorf("failed to get weekend request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFound("weekend request not found")
	}

	if request.IsTerminal() {
		return request, failure.Conflict(fmt.Sprintf("weekend request is already %s", request.Status))
	}

	return request, nil
}

func (s *serviceImpl) uploadImage(ctx context.Context, dataURL string) (url, objectName string, err error) {
	contentType, data, err := base64.DecodeDataURL(dataURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode usage image")

		return constant.Empty, constant.Empty, failure.BadRequestFromString("image must be a base64 data-URL")
	}

	bucketName := s.cfg.External.S3.BucketName
	filename := uuid.NewString()

	url, err = s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, filename, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload usage image to S3")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, filename, nil
}

func requireAdmin(ctx context.Context) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleAdmin || role == constant.RoleSuperAdmin {
		return nil
	}

	return failure.ResourceRestrictedError
}

func requireOwnerOrAdmin(ctx context.Context, ownerID string) error {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if userID == ownerID || role == constant.RoleAdmin || role == constant.RoleSuperAdmin {
		return nil
	}

	return failure.ResourceRestrictedError
}

func (s *serviceImpl) notifyChange(ctx context.Context, op, id, carID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetWeekend, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete weekend request from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllWeekend)
		shared.InvalidateCaches(c, s.cache, cacheCountWeekend)

		if err := s.publisher.PublishChange(c, events.ChangeEvent{
			Entity: events.EntityWeekendRequest,
			Op:     op,
			ID:     id,
			CarID:  carID,
		}); err != nil {
			log.Error().Err(err).Str("weekend_request_id", id).Msg("failed to publish weekend request change event")
		}
	}()
}
