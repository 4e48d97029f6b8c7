package timeline

import (
	"motorpool/infras/otel"
	"motorpool/internal/domains/timeline/service"
	"motorpool/shared/constant"
	"motorpool/transport/http/middleware"
	"motorpool/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Timeline
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Timeline, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/timeline", handler.GetTimeline)
}

// GetTimeline builds the per-car slot grid for a single day.
// @Summary Get the reservation timeline for a day
// @Description Build the slot grid for every car on the requested date. The extended view stretches the grid into the evening.
// @Tags Timeline
// @Accept json
// @Produce json
// @Param date query string true "Date in YYYY-MM-DD format"
// @Param view query string false "Timeline view: day or extended" default(day)
// @Success 200 {object} dto.TimelineResponse "Timeline for the requested date"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/timeline [get]
// @Security BearerAuth
func (handler *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeline")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)
	view := r.URL.Query().Get(constant.RequestParamView)

	if view == constant.Empty {
		view = constant.TimelineViewDay
	}

	timeline, err := handler.service.Build(ctx, date, view)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build timeline")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Timeline built successfully")

	response.WithJSON(w, http.StatusOK, timeline)
}
