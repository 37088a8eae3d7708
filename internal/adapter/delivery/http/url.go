package http

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
	"github.com/vadimbarashkov/clicktrail/pkg/response"
)

type urlHandler struct {
	errorResponder
	useCase  urlUseCase
	validate *validator.Validate
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, er errorResponder) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		errorResponder: er,
		useCase:        useCase,
		validate:       validate,
	}
}

func (h *urlHandler) createURL(w http.ResponseWriter, r *http.Request) {
	var req createURLRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusBadRequest, response.EmptyRequestBody)
			return
		}

		writeError(w, r, http.StatusBadRequest, response.InvalidRequestBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	res, err := h.useCase.Create(r.Context(), req.toParams())
	if err != nil {
		var unreachable *entity.UnreachableError

		switch {
		case errors.Is(err, entity.ErrInvalidURL):
			writeError(w, r, http.StatusBadRequest, response.InvalidURL)
		case errors.Is(err, entity.ErrInvalidCustomCode):
			writeError(w, r, http.StatusBadRequest, response.InvalidCustomCode)
		case errors.As(err, &unreachable):
			resp := response.URLUnreachable
			resp.Details = unreachable.Reason
			writeError(w, r, http.StatusBadRequest, resp)
		case errors.Is(err, entity.ErrShortCodeExists):
			writeError(w, r, http.StatusConflict, response.ShortCodeExists)
		default:
			h.serverError(w, r, err)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toCreateURLResponse(res))
}

func (h *urlHandler) getURL(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, err := h.useCase.Get(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			writeError(w, r, http.StatusNotFound, response.URLNotFound)
			return
		}

		h.serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(url))
}
