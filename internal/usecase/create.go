package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vadimbarashkov/clicktrail/internal/entity"
	"github.com/vadimbarashkov/clicktrail/internal/shortcode"
)

const defaultMaxRetries = 5

// CreateParams holds the input of CreateUseCase.Create.
type CreateParams struct {
	OriginalURL           string
	CustomCode            string
	SkipReachabilityCheck bool
}

// CreateResult is the outcome of a successful CreateUseCase.Create.
type CreateResult struct {
	ShortCode   string
	ShortURL    string
	OriginalURL string
}

// CreateUseCase validates URLs and allocates short codes for them.
type CreateUseCase struct {
	urlRepo    urlRepository
	generator  codeGenerator
	prober     urlProber
	baseURL    string
	maxRetries int
	now        func() time.Time
}

// CreateOption configures a CreateUseCase.
type CreateOption func(*CreateUseCase)

// WithMaxRetries sets how many generated codes are tried before giving up.
func WithMaxRetries(n int) CreateOption {
	return func(uc *CreateUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

// WithCreateClock overrides the clock used for CreatedAt.
func WithCreateClock(now func() time.Time) CreateOption {
	return func(uc *CreateUseCase) {
		uc.now = now
	}
}

// NewCreateUseCase creates a CreateUseCase. Short URLs are built by joining baseURL and the code.
func NewCreateUseCase(
	urlRepo urlRepository,
	generator codeGenerator,
	prober urlProber,
	baseURL string,
	opts ...CreateOption,
) *CreateUseCase {
	uc := &CreateUseCase{
		urlRepo:    urlRepo,
		generator:  generator,
		prober:     prober,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: defaultMaxRetries,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Create stores p.OriginalURL under p.CustomCode, or under a generated code
// when no custom code is given.
//
// A taken custom code fails with entity.ErrShortCodeExists and is not retried.
// Generated codes are retried on collision up to the configured limit, after
// which ErrMaxRetriesExceeded is returned.
func (uc *CreateUseCase) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	const op = "usecase.CreateUseCase.Create"

	if !isHTTPURL(p.OriginalURL) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidURL)
	}

	if !p.SkipReachabilityCheck {
		if err := uc.prober.Probe(ctx, p.OriginalURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if p.CustomCode != "" {
		if err := shortcode.ValidateCustomCode(p.CustomCode); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if err := uc.urlRepo.CreateIfAbsent(ctx, uc.newURL(p.CustomCode, p.OriginalURL)); err != nil {
			return nil, fmt.Errorf("%s: failed to store custom code: %w", op, err)
		}

		urlsCreated.WithLabelValues("custom").Inc()

		return uc.result(p.CustomCode, p.OriginalURL), nil
	}

	for i := 0; i < uc.maxRetries; i++ {
		code := uc.generator.Generate(p.OriginalURL)

		err := uc.urlRepo.CreateIfAbsent(ctx, uc.newURL(code, p.OriginalURL))
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				codeCollisions.Inc()
				continue
			}

			return nil, fmt.Errorf("%s: failed to store generated code: %w", op, err)
		}

		urlsCreated.WithLabelValues("generated").Inc()

		return uc.result(code, p.OriginalURL), nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// Get returns the stored record for shortCode, click counter included.
func (uc *CreateUseCase) Get(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.CreateUseCase.Get"

	url, err := uc.urlRepo.Get(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	return url, nil
}

func (uc *CreateUseCase) newURL(code, originalURL string) *entity.URL {
	return &entity.URL{
		ShortCode:   code,
		OriginalURL: originalURL,
		CreatedAt:   uc.now().Unix(),
	}
}

func (uc *CreateUseCase) result(code, originalURL string) *CreateResult {
	return &CreateResult{
		ShortCode:   code,
		ShortURL:    uc.baseURL + "/" + code,
		OriginalURL: originalURL,
	}
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
