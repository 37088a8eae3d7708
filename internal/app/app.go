// Package app wires storage, use cases and the HTTP server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/clicktrail/internal/adapter/probe"
	"github.com/vadimbarashkov/clicktrail/internal/config"
	"github.com/vadimbarashkov/clicktrail/internal/shortcode"
	"github.com/vadimbarashkov/clicktrail/internal/usecase"
	"golang.org/x/sync/errgroup"

	deliveryhttp "github.com/vadimbarashkov/clicktrail/internal/adapter/delivery/http"
)

// NewLogger builds the service logger. Output is JSON outside dev.
func NewLogger(cfg *config.Config) *httplog.Logger {
	opts := httplog.Options{
		JSON:             cfg.Env != config.EnvDev,
		LogLevel:         slog.LevelInfo,
		Concise:          cfg.Env == config.EnvDev,
		RequestHeaders:   cfg.Env == config.EnvDev,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": cfg.Env,
		},
	}

	if cfg.Env == config.EnvDev {
		opts.LogLevel = slog.LevelDebug
	}

	return httplog.NewLogger("clicktrail", opts)
}

type urlProber interface {
	Probe(ctx context.Context, url string) error
}

func newHandler(cfg *config.Config, st *storage, logger *httplog.Logger, prober urlProber) http.Handler {
	recorder := usecase.NewClickRecorder(st.clicks,
		usecase.WithRecordTimeout(cfg.Analytics.RecordTimeout),
	)

	return deliveryhttp.NewRouter(logger, deliveryhttp.UseCases{
		URLs: usecase.NewCreateUseCase(
			st.urls,
			shortcode.NewGenerator(),
			prober,
			cfg.BaseURL,
			usecase.WithMaxRetries(cfg.ShortCode.MaxRetries),
		),
		Redirects: usecase.NewRedirectUseCase(st.urls, recorder, logger.Logger),
		Analytics: usecase.NewAnalyticsUseCase(st.clicks, cfg.Analytics.Limit),
	}, deliveryhttp.RouterOptions{
		ExposeErrors: cfg.Env == config.EnvDev,
	})
}

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer st.close()

	logger.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	router := newHandler(cfg, st, logger, probe.New(cfg.Probe.Timeout))

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", server.Addr))

		var err error

		switch {
		case cfg.Env == config.EnvProd && cfg.HTTPServer.CertFile != "":
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down http server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
