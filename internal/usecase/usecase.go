// Package usecase implements URL creation, redirects with click recording and
// click analytics on top of abstract store contracts.
package usecase

import (
	"context"
	"errors"

	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

// ErrMaxRetriesExceeded is returned when every generated short code collided with an existing one.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

// urlRepository is the contract over the store holding URL records.
type urlRepository interface {
	// Get returns the record for shortCode or entity.ErrURLNotFound.
	Get(ctx context.Context, shortCode string) (*entity.URL, error)
	// CreateIfAbsent atomically inserts url, failing with entity.ErrShortCodeExists
	// when the short code is taken.
	CreateIfAbsent(ctx context.Context, url *entity.URL) error
	// IncrementClickCount atomically adds one to the click counter without reading it,
	// failing with entity.ErrURLNotFound when the record does not exist.
	IncrementClickCount(ctx context.Context, shortCode string) error
}

// clickRepository is the contract over the store holding click events.
type clickRepository interface {
	// Append stores a click event. Events are never overwritten.
	Append(ctx context.Context, event *entity.ClickEvent) error
	// Query returns events for shortCode with start <= timestamp <= end,
	// newest first, at most limit of them.
	Query(ctx context.Context, shortCode string, start, end int64, limit int) ([]entity.ClickEvent, error)
}

type codeGenerator interface {
	Generate(url string) string
}

type urlProber interface {
	Probe(ctx context.Context, url string) error
}

type clickRecorder interface {
	Record(ctx context.Context, shortCode string, meta RequestMeta) error
}

// RequestMeta is the request metadata a click event is built from.
type RequestMeta struct {
	UserAgent string
	Referrer  string
	IPAddress string
	Country   string
}
