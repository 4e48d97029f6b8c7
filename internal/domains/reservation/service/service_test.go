package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motorpool/config"
	"motorpool/infras/otel/mocks"
	carMocks "motorpool/internal/domains/car/mocks"
	carModel "motorpool/internal/domains/car/model"
	resMocks "motorpool/internal/domains/reservation/mocks"
	"motorpool/internal/domains/reservation/model"
	"motorpool/internal/domains/reservation/model/dto"
	"motorpool/internal/domains/reservation/repository"
	"motorpool/internal/domains/reservation/service"
	"motorpool/internal/events"
	eventMocks "motorpool/internal/events/mocks"
	cacheMocks "motorpool/shared/cache/mocks"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"
)

func newTestService(ctrl *gomock.Controller) (
	service.Reservation,
	*resMocks.MockReservation,
	*carMocks.MockCar,
	*cacheMocks.MockRedisCache,
	*eventMocks.MockPublisher,
) {
	mockRepo := resMocks.NewMockReservation(ctrl)
	mockCarRepo := carMocks.NewMockCar(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockCarRepo, cfg, mockCache, mockOtel, mockPublisher)

	return svc, mockRepo, mockCarRepo, mockCache, mockPublisher
}

func allowAsyncInvalidation(mockCache *cacheMocks.MockRedisCache, mockPublisher *eventMocks.MockPublisher) {
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockPublisher.EXPECT().PublishChange(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func availableCar() carModel.Car {
	return carModel.Car{
		ID:           "car-id",
		Name:         "Avanza",
		LicensePlate: "B 1234 XYZ",
		Available:    true,
	}
}

func userContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, "Test User")

	return ctx
}

func TestReservationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCarRepo, mockCache, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	validReq := dto.CreateReservationRequest{
		CarID:       "car-id",
		StartTime:   "2026-09-07T09:00:00Z",
		EndTime:     "2026-09-07T11:00:00Z",
		Destination: "Client office",
	}

	tests := []struct {
		name      string
		req       dto.CreateReservationRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar(), nil)

				mockRepo.EXPECT().
					InsertIfAvailable(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr: false,
		},
		{
			name: "car does not exist",
			req:  validReq,
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
			setupMock: func() {
				car := availableCar()
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
			req: dto.CreateReservationRequest{
				CarID:       "car-id",
				StartTime:   "07-09-2026 09:00",
				EndTime:     "2026-09-07T11:00:00Z",
				Destination: "Client office",
			},
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "end time not after start time",
			req: dto.CreateReservationRequest{
				CarID:       "car-id",
				StartTime:   "2026-09-07T11:00:00Z",
				EndTime:     "2026-09-07T11:00:00Z",
				Destination: "Client office",
			},
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "time slot taken",
			req:  validReq,
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar(), nil)

				conflict := model.Reservation{
					ID:       "other-id",
					UserName: "Jane",
					EndTime:  timezone.Now().Add(2 * time.Hour),
				}

				mockRepo.EXPECT().
					InsertIfAvailable(gomock.Any(), gomock.Any()).
					Return(conflict, repository.ErrTimeSlotTaken)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  validReq,
			setupMock: func() {
				mockCarRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableCar(), nil)

				mockRepo.EXPECT().
					InsertIfAvailable(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(userContext("test-user-id"), tt.req)

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

func TestReservationService_Create_ConflictReportsOwnerAndSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCarRepo, _, _ := newTestService(ctrl)

	conflict := model.Reservation{
		ID:        "other-id",
		UserName:  "Jane",
		StartTime: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC),
	}

	mockCarRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(availableCar(), nil)

	mockRepo.EXPECT().
		InsertIfAvailable(gomock.Any(), gomock.Any()).
		Return(conflict, repository.ErrTimeSlotTaken)

	err := svc.Create(userContext("test-user-id"), dto.CreateReservationRequest{
		CarID:       "car-id",
		StartTime:   "2026-09-07T10:00:00Z",
		EndTime:     "2026-09-07T12:00:00Z",
		Destination: "Client office",
	})

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.ErrorContains(t, err, "Jane")
	assert.ErrorContains(t, err, timezone.Format(conflict.StartTime, constant.DateFormat))
	assert.ErrorContains(t, err, timezone.Format(conflict.EndTime, constant.DateFormat))
}

func TestReservationService_Create_PublishesChangeEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCarRepo, mockCache, mockPublisher := newTestService(ctrl)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	published := make(chan events.ChangeEvent, 1)

	mockPublisher.EXPECT().
		PublishChange(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event events.ChangeEvent) error {
			published <- event

			return nil
		})

	mockCarRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(availableCar(), nil)

	mockRepo.EXPECT().
		InsertIfAvailable(gomock.Any(), gomock.Any()).
		Return(model.Reservation{}, nil)

	err := svc.Create(userContext("test-user-id"), dto.CreateReservationRequest{
		CarID:       "car-id",
		StartTime:   "2026-09-07T09:00:00Z",
		EndTime:     "2026-09-07T11:00:00Z",
		Destination: "Client office",
	})
	assert.NoError(t, err)

	select {
	case event := <-published:
		assert.Equal(t, events.EntityReservation, event.Entity)
		assert.Equal(t, events.OpCreated, event.Op)
		assert.Equal(t, "car-id", event.CarID)
		assert.NotEmpty(t, event.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a change event after creating a reservation")
	}
}

func TestReservationService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _ := newTestService(ctrl)

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantResult dto.GetReservationsResponse
	}{
		{
			name: "successful get all",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				reservations := []model.Reservation{
					{
						ID:          "test-id",
						CarID:       "car-id",
						UserID:      "test-user-id",
						UserName:    "Test User",
						StartTime:   timezone.Now(),
						EndTime:     timezone.Now().Add(time.Hour),
						Destination: "Client office",
						Metadata: gModel.Metadata{
							CreatedAt:  timezone.Now(),
							ModifiedAt: timezone.Now(),
						},
					},
				}

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(reservations, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantResult: dto.GetReservationsResponse{
				TotalData: 1,
				TotalPage: 1,
			},
		},
		{
			name: "count error",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
		{
			name: "get all error",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("get all error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantResult.TotalData, result.TotalData)
				assert.Equal(t, tt.wantResult.TotalPage, result.TotalPage)
			}
		})
	}
}

func TestReservationService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _ := newTestService(ctrl)

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
			Return(0, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Reservation{}, nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		result, err := svc.GetMine(userContext("test-user-id"), gDto.QueryParams{Limit: 10, Page: 1})

		assert.NoError(t, err)
		assert.Equal(t, 0, result.TotalData)
	})
}

func TestReservationService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	destination := "New destination"

	existing := model.Reservation{
		ID:        "test-id",
		CarID:     "car-id",
		UserID:    "test-user-id",
		UserName:  "Test User",
		StartTime: timezone.Now(),
		EndTime:   timezone.Now().Add(time.Hour),
	}

	tests := []struct {
		name      string
		req       dto.UpdateReservationRequest
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			req:  dto.UpdateReservationRequest{Destination: &destination},
			ctx:  userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				mockRepo.EXPECT().
					UpdateIfAvailable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr: false,
		},
		{
			name:      "empty update request",
			req:       dto.UpdateReservationRequest{},
			ctx:       userContext("test-user-id"),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "reservation not found",
			req:  dto.UpdateReservationRequest{Destination: &destination},
			ctx:  userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "not the owner",
			req:  dto.UpdateReservationRequest{Destination: &destination},
			ctx:  userContext("another-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "admin can update someone else's reservation",
			req:  dto.UpdateReservationRequest{Destination: &destination},
			ctx: context.WithValue(
				userContext("another-user-id"),
				constant.ContextKeyUserRole, constant.RoleAdmin,
			),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				mockRepo.EXPECT().
					UpdateIfAvailable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr: false,
		},
		{
			name: "new window conflicts",
			req: dto.UpdateReservationRequest{
				StartTime: "2026-09-07T09:00:00Z",
				EndTime:   "2026-09-07T12:00:00Z",
			},
			ctx: userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				conflict := model.Reservation{
					ID:       "other-id",
					UserName: "Jane",
					EndTime:  timezone.Now().Add(3 * time.Hour),
				}

				mockRepo.EXPECT().
					UpdateIfAvailable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(conflict, repository.ErrTimeSlotTaken)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "end time not after start time",
			req: dto.UpdateReservationRequest{
				StartTime: "2026-09-07T12:00:00Z",
				EndTime:   "2026-09-07T09:00:00Z",
			},
			ctx: userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(tt.ctx, tt.req, "test-id")

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

func TestReservationService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, mockPublisher := newTestService(ctrl)
	allowAsyncInvalidation(mockCache, mockPublisher)

	existing := model.Reservation{
		ID:     "test-id",
		CarID:  "car-id",
		UserID: "test-user-id",
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful deletion by owner",
			ctx:  userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "reservation not found",
			ctx:  userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "not the owner",
			ctx:  userContext("another-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "delete error",
			ctx:  userContext("test-user-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("delete error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(tt.ctx, "test-id")

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
