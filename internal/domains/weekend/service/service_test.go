package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motorpool/config"
	"motorpool/infras/otel/mocks"
	s3Mocks "motorpool/infras/s3/mocks"
	carMocks "motorpool/internal/domains/car/mocks"
	carModel "motorpool/internal/domains/car/model"
	weekendMocks "motorpool/internal/domains/weekend/mocks"
	"motorpool/internal/domains/weekend/model"
	"motorpool/internal/domains/weekend/model/dto"
	"motorpool/internal/domains/weekend/service"
	eventMocks "motorpool/internal/events/mocks"
	cacheMocks "motorpool/shared/cache/mocks"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
)

func newTestService(ctrl *gomock.Controller) (
	service.WeekendRequest,
	*weekendMocks.MockWeekendRequest,
	*carMocks.MockCar,
	*cacheMocks.MockRedisCache,
	*s3Mocks.MockS3,
	*eventMocks.MockPublisher,
) {
	mockRepo := weekendMocks.NewMockWeekendRequest(ctrl)
	mockCarRepo := carMocks.NewMockCar(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockCarRepo, cfg, mockCache, mockOtel, mockS3, mockPublisher)

	return svc, mockRepo, mockCarRepo, mockCache, mockS3, mockPublisher
}

func allowAsyncInvalidation(mockCache *cacheMocks.MockRedisCache, mockPublisher *eventMocks.MockPublisher) {
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockPublisher.EXPECT().PublishChange(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, "Test User")

	if role != "" {
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
	}

	return ctx
}

func pendingRequest() model.WeekendRequest {
	return model.WeekendRequest{
		ID:     "request-id",
		CarID:  "car-id",
		UserID: "test-user-id",
		Status: model.StatusPending,
	}
}

func TestWeekendService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCarRepo, mockCache, _, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	validReq := dto.SubmitWeekendRequest{
		CarID:       "car-id",
		StartTime:   "2026-09-12T08:00:00Z",
		EndTime:     "2026-09-13T18:00:00Z",
		Destination: "Family trip",
	}

	availableCar := carModel.Car{ID: "car-id", Name: "Avanza", Available: true}

	tests := []struct {
		name      string
		req       dto.SubmitWeekendRequest
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful submission",
			req:  validReq,
			ctx:  userContext("test-user-id", ""),
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "missing user identity",
			req:       validReq,
			ctx:       context.Background(),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "car does not exist",
			req:  validReq,
			ctx:  userContext("test-user-id", ""),
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(carModel.Car{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "car not available",
			req:  validReq,
			ctx:  userContext("test-user-id", ""),
			setupMock: func() {
				car := availableCar
				car.Available = false

				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(car, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid time format",
			req: dto.SubmitWeekendRequest{
				CarID:       "car-id",
				StartTime:   "12-09-2026",
				EndTime:     "2026-09-13T18:00:00Z",
				Destination: "Family trip",
			},
			ctx: userContext("test-user-id", ""),
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "end time not after start time",
			req: dto.SubmitWeekendRequest{
				CarID:       "car-id",
				StartTime:   "2026-09-13T18:00:00Z",
				EndTime:     "2026-09-12T08:00:00Z",
				Destination: "Family trip",
			},
			ctx: userContext("test-user-id", ""),
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "repository error",
			req:  validReq,
			ctx:  userContext("test-user-id", ""),
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Submit(tt.ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeekendService_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful approval",
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingRequest(), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "non admin cannot approve",
			ctx:       userContext("test-user-id", ""),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusForbidden,
		},
		{
			name: "request not found",
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.WeekendRequest{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "already approved",
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				request := pendingRequest()
				request.Status = model.StatusApproved

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(request, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "already rejected",
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				request := pendingRequest()
				request.Status = model.StatusRejected

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(request, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "update error",
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingRequest(), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Approve(tt.ctx, "request-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeekendService_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	tests := []struct {
		name      string
		req       dto.RejectWeekendRequest
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful rejection",
			req:  dto.RejectWeekendRequest{Reason: "car needed for maintenance"},
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingRequest(), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "reason is required",
			req:       dto.RejectWeekendRequest{},
			ctx:       userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "non admin cannot reject",
			req:       dto.RejectWeekendRequest{Reason: "car needed"},
			ctx:       userContext("test-user-id", ""),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusForbidden,
		},
		{
			name: "already decided",
			req:  dto.RejectWeekendRequest{Reason: "car needed"},
			ctx:  userContext("admin-id", constant.RoleAdmin),
			setupMock: func() {
				request := pendingRequest()
				request.Status = model.StatusApproved

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(request, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Reject(tt.ctx, tt.req, "request-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeekendService_AttachUsage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, mockS3, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	odometer := 45230

	approvedRequest := func() model.WeekendRequest {
		request := pendingRequest()
		request.Status = model.StatusApproved

		return request
	}

	tests := []struct {
		name      string
		req       dto.AttachUsageRequest
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful odometer update",
			req:  dto.AttachUsageRequest{OdometerBefore: &odometer},
			ctx:  userContext("test-user-id", ""),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedRequest(), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "photo upload",
			req: dto.AttachUsageRequest{
				ImageBefore: "data:image/png;base64,aGVsbG8=",
			},
			ctx: userContext("test-user-id", ""),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedRequest(), nil)

				mockS3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/weekend_request/photo", nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty usage request",
			req:       dto.AttachUsageRequest{},
			ctx:       userContext("test-user-id", ""),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "not the owner",
			req:  dto.AttachUsageRequest{OdometerBefore: &odometer},
			ctx:  userContext("another-user-id", ""),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedRequest(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "pending request refuses usage",
			req:  dto.AttachUsageRequest{OdometerBefore: &odometer},
			ctx:  userContext("test-user-id", ""),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingRequest(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "uploaded photos rolled back on update failure",
			req: dto.AttachUsageRequest{
				ImageAfter: "data:image/png;base64,aGVsbG8=",
			},
			ctx: userContext("test-user-id", ""),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedRequest(), nil)

				mockS3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/weekend_request/photo", nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))

				mockS3.EXPECT().
					DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.AttachUsage(tt.ctx, tt.req, "request-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeekendService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _, _ := newTestService(ctrl)

	t.Run("missing user identity", func(t *testing.T) {
		_, err := svc.GetMine(context.Background(), gDto.QueryParams{Limit: 10, Page: 1})

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("successful get mine", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.WeekendRequest{pendingRequest()}, nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		result, err := svc.GetMine(userContext("test-user-id", ""), gDto.QueryParams{Limit: 10, Page: 1})

		assert.NoError(t, err)
		assert.Equal(t, 1, result.TotalData)
		assert.Len(t, result.Requests, 1)
	})
}
