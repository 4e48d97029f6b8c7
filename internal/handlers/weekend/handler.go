package weekend

import (
	"motorpool/infras/otel"
	"motorpool/internal/domains/weekend/model"
	"motorpool/internal/domains/weekend/model/dto"
	"motorpool/internal/domains/weekend/service"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/validator"
	"motorpool/transport/http/middleware"
	"motorpool/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.WeekendRequest
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.WeekendRequest, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/weekend-requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitRequest)
		routerGroup.Get("/", handler.GetRequests)
		routerGroup.Get("/me", handler.GetMyRequests)
		routerGroup.Get("/{id}", handler.GetRequestByID)
		routerGroup.Post("/{id}/approve", handler.ApproveRequest)
		routerGroup.Post("/{id}/reject", handler.RejectRequest)
		routerGroup.Post("/{id}/usage", handler.AttachUsage)
	})
}

// SubmitRequest submits a weekend usage request for approval.
// @Summary Submit a weekend usage request
// @Description Submit a request to use a vehicle over the weekend. The request starts in pending state.
// @Tags Weekend
// @Accept json
// @Produce json
// @Param request body dto.SubmitWeekendRequest true "Submit Weekend Request"
// @Success 201 {object} response.Message "Weekend request submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests [post]
// @Security BearerAuth
func (handler *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitRequest")
	defer scope.End()

	req := dto.SubmitWeekendRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Submit(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit weekend request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Weekend request submitted successfully by " + user)

	response.WithMessage(w, http.StatusCreated, "Weekend request submitted successfully")
}

// GetRequests retrieves all weekend requests based on query parameters.
// @Summary Get all weekend requests
// @Description Retrieve all weekend requests with optional filtering and pagination.
// @Tags Weekend
// @Accept json
// @Produce json
// @Param status query string false "Filter by status: pending, approved, or rejected"
// @Param car_id query string false "Filter by car"
// @Success 200 {object} dto.GetWeekendRequestsResponse "List of weekend requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests [get]
// @Security BearerAuth
func (handler *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if carID := r.URL.Query().Get(model.FieldCarID); carID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCarID,
			Operator: gDto.FilterOperatorEq,
			Value:    carID,
			Table:    model.TableName,
		})
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get weekend requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Weekend requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetMyRequests retrieves the authenticated user's weekend requests.
// @Summary Get the authenticated user's weekend requests
// @Description Retrieve weekend requests submitted by the current user.
// @Tags Weekend
// @Accept json
// @Produce json
// @Success 200 {object} dto.GetWeekendRequestsResponse "List of weekend requests"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	requests, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own weekend requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Own weekend requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetRequestByID retrieves a weekend request by its ID.
// @Summary Get a weekend request by ID
// @Description Retrieve a weekend request by its unique identifier.
// @Tags Weekend
// @Accept json
// @Produce json
// @Param id path string true "Weekend Request ID"
// @Success 200 {object} dto.WeekendRequestResponse "Weekend request details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get weekend request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Weekend request retrieved successfully")

	response.WithJSON(w, http.StatusOK, request)
}

// ApproveRequest approves a pending weekend request.
// @Summary Approve a weekend request
// @Description Approve a pending weekend request. Decided requests cannot be approved again.
// @Tags Weekend
// @Accept json
// @Produce json
// @Param id path string true "Weekend Request ID"
// @Success 200 {object} response.Message "Weekend request approved successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Approve(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve weekend request")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Weekend request approved successfully by " + admin)

	response.WithMessage(w, http.StatusOK, "Weekend request approved successfully")
}

// RejectRequest rejects a pending weekend request with a reason.
// @Summary Reject a weekend request
// @Description Reject a pending weekend request. A reject reason is required.
// @Tags Weekend
// @Accept json
// @Produce json
// @Param id path string true "Weekend Request ID"
// @Param request body dto.RejectWeekendRequest true "Reject Weekend Request"
// @Success 200 {object} response.Message "Weekend request rejected successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RejectWeekendRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Reject(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject weekend request")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Weekend request rejected successfully by " + admin)

	response.WithMessage(w, http.StatusOK, "Weekend request rejected successfully")
}

// AttachUsage records odometer readings and photos on an approved request.
// @Summary Attach usage data to a weekend request
// @Description Record odometer readings and before/after photos on an approved request.
// @Tags Weekend
// @Accept json
// @Produce json
// @Param id path string true "Weekend Request ID"
// @Param request body dto.AttachUsageRequest true "Attach Usage Request"
// @Success 200 {object} response.Message "Usage data attached successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/weekend-requests/{id}/usage [post]
// @Security BearerAuth
func (handler *Handler) AttachUsage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AttachUsage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AttachUsageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.AttachUsage(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to attach usage data")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Usage data attached successfully by " + user)

	response.WithMessage(w, http.StatusOK, "Usage data attached successfully")
}
