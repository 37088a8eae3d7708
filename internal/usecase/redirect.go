package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// RedirectResult is the outcome of a redirect.
//
// ClickErr and IncrementErr report best-effort side effects that failed.
// They never change OriginalURL and are not returned as errors.
type RedirectResult struct {
	OriginalURL  string
	ClickErr     error
	IncrementErr error
}

// RedirectUseCase resolves short codes and counts clicks.
type RedirectUseCase struct {
	urlRepo  urlRepository
	recorder clickRecorder
	logger   *slog.Logger
}

// NewRedirectUseCase creates a RedirectUseCase.
func NewRedirectUseCase(urlRepo urlRepository, recorder clickRecorder, logger *slog.Logger) *RedirectUseCase {
	return &RedirectUseCase{
		urlRepo:  urlRepo,
		recorder: recorder,
		logger:   logger,
	}
}

// Redirect looks up shortCode, records a click event and increments the click
// counter. Only a failed lookup is returned as an error.
func (uc *RedirectUseCase) Redirect(ctx context.Context, shortCode string, meta RequestMeta) (*RedirectResult, error) {
	const op = "usecase.RedirectUseCase.Redirect"

	url, err := uc.urlRepo.Get(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	redirects.Inc()

	res := &RedirectResult{OriginalURL: url.OriginalURL}

	// Side effects outlive a client that hangs up after the lookup.
	sideCtx := context.WithoutCancel(ctx)

	if err := uc.recorder.Record(sideCtx, shortCode, meta); err != nil {
		res.ClickErr = err
		sideEffectFailures.WithLabelValues(effectRecordClick).Inc()
		uc.logger.Warn("failed to record click",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}

	if err := uc.urlRepo.IncrementClickCount(sideCtx, shortCode); err != nil {
		res.IncrementErr = err
		sideEffectFailures.WithLabelValues(effectIncrementCount).Inc()
		uc.logger.Warn("failed to increment click count",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}

	return res, nil
}
