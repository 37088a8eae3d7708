// Package http is the HTTP delivery layer: URL creation, redirects and click analytics.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/clicktrail/docs"
	"github.com/vadimbarashkov/clicktrail/pkg/middleware/recoverer"
)

type UseCases struct {
	URLs      urlUseCase
	Redirects redirectUseCase
	Analytics analyticsUseCase
}

type RouterOptions struct {
	// ExposeErrors puts internal error text into 500 response bodies.
	ExposeErrors bool
	// Now defaults to time.Now. It supplies the default end_time of analytics queries.
	Now func() time.Time
}

// NewRouter initializes a Chi router with the middleware stack and every route of the service.
func NewRouter(logger *httplog.Logger, uc UseCases, opts RouterOptions) *chi.Mux {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	er := errorResponder{exposeErrors: opts.ExposeErrors}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	r.Get("/ping", handlePing)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.Swagger)
	})

	r.Route("/urls", func(r chi.Router) {
		h := newURLHandler(uc.URLs, validator.New(), er)

		r.Post("/", h.createURL)
		r.Get("/{shortCode}", h.getURL)
	})

	r.Route("/r", func(r chi.Router) {
		h := newRedirectHandler(uc.Redirects, er)

		r.Get("/", missingShortCode)
		r.Get("/{shortCode}", h.redirect)
	})

	r.Route("/analytics", func(r chi.Router) {
		h := newAnalyticsHandler(uc.Analytics, er, opts.Now)

		r.Get("/{shortCode}", h.getAnalytics)
	})

	return r
}
