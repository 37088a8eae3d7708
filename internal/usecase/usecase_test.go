package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockURLRepository struct {
	mock.Mock
}

func (m *mockURLRepository) Get(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) CreateIfAbsent(ctx context.Context, url *entity.URL) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *mockURLRepository) IncrementClickCount(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

type mockClickRepository struct {
	mock.Mock
}

func (m *mockClickRepository) Append(ctx context.Context, event *entity.ClickEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockClickRepository) Query(ctx context.Context, shortCode string, start, end int64, limit int) ([]entity.ClickEvent, error) {
	args := m.Called(ctx, shortCode, start, end, limit)
	events, _ := args.Get(0).([]entity.ClickEvent)
	return events, args.Error(1)
}

type mockCodeGenerator struct {
	mock.Mock
}

func (m *mockCodeGenerator) Generate(url string) string {
	args := m.Called(url)
	return args.String(0)
}

type mockURLProber struct {
	mock.Mock
}

func (m *mockURLProber) Probe(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type mockClickRecorder struct {
	mock.Mock
}

func (m *mockClickRecorder) Record(ctx context.Context, shortCode string, meta RequestMeta) error {
	args := m.Called(ctx, shortCode, meta)
	return args.Error(0)
}

func withCode(code string) any {
	return mock.MatchedBy(func(u *entity.URL) bool {
		return u.ShortCode == code
	})
}
