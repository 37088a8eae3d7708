package http

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
	"github.com/vadimbarashkov/clicktrail/internal/usecase"
	"github.com/vadimbarashkov/clicktrail/pkg/response"
)

// Country headers set by common CDNs, checked in order.
var countryHeaders = []string{
	"CF-IPCountry",
	"CloudFront-Viewer-Country",
}

type redirectHandler struct {
	errorResponder
	useCase redirectUseCase
}

func newRedirectHandler(useCase redirectUseCase, er errorResponder) *redirectHandler {
	return &redirectHandler{
		errorResponder: er,
		useCase:        useCase,
	}
}

func missingShortCode(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusBadRequest, response.ShortCodeRequired)
}

func (h *redirectHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if shortCode == "" {
		missingShortCode(w, r)
		return
	}

	res, err := h.useCase.Redirect(r.Context(), shortCode, requestMeta(r))
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			writeError(w, r, http.StatusNotFound, response.URLNotFound)
			return
		}

		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Location", res.OriginalURL)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusFound)
}

// requestMeta expects RemoteAddr to be already rewritten by middleware.RealIP.
func requestMeta(r *http.Request) usecase.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	var country string
	for _, h := range countryHeaders {
		if country = r.Header.Get(h); country != "" {
			break
		}
	}

	return usecase.RequestMeta{
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		IPAddress: ip,
		Country:   country,
	}
}
