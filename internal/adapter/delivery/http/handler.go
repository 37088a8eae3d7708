package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
	"github.com/vadimbarashkov/clicktrail/internal/usecase"
	"github.com/vadimbarashkov/clicktrail/pkg/response"
)

type urlUseCase interface {
	Create(ctx context.Context, p usecase.CreateParams) (*usecase.CreateResult, error)
	Get(ctx context.Context, shortCode string) (*entity.URL, error)
}

type redirectUseCase interface {
	Redirect(ctx context.Context, shortCode string, meta usecase.RequestMeta) (*usecase.RedirectResult, error)
}

type analyticsUseCase interface {
	Query(ctx context.Context, shortCode string, start, end int64) (*entity.ClickStats, error)
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

func writeError(w http.ResponseWriter, r *http.Request, status int, resp response.Error) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// errorResponder writes 500 responses. The raw error goes to the request log,
// and into the body only when exposeErrors is set.
type errorResponder struct {
	exposeErrors bool
}

func (er errorResponder) serverError(w http.ResponseWriter, r *http.Request, err error) {
	httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

	resp := response.ServerError
	if er.exposeErrors {
		resp = resp.WithDetails(err)
	}

	writeError(w, r, http.StatusInternalServerError, resp)
}
