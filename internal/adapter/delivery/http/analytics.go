package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/clicktrail/pkg/response"
)

type analyticsHandler struct {
	errorResponder
	useCase analyticsUseCase
	now     func() time.Time
}

func newAnalyticsHandler(useCase analyticsUseCase, er errorResponder, now func() time.Time) *analyticsHandler {
	return &analyticsHandler{
		errorResponder: er,
		useCase:        useCase,
		now:            now,
	}
}

func (h *analyticsHandler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	start, err := parseMillis(r.URL.Query().Get("start_time"), 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, response.InvalidTimeRange.WithDetails(err))
		return
	}

	end, err := parseMillis(r.URL.Query().Get("end_time"), h.now().UnixMilli())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, response.InvalidTimeRange.WithDetails(err))
		return
	}

	stats, err := h.useCase.Query(r.Context(), shortCode, start, end)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toAnalyticsResponse(stats))
}

func parseMillis(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
