package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/vadimbarashkov/clicktrail/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ClickRecorder appends a click event for every redirect.
type ClickRecorder struct {
	clickRepo clickRepository
	timeout   time.Duration
	now       func() time.Time
	newID     func() (string, error)
}

// RecorderOption configures a ClickRecorder.
type RecorderOption func(*ClickRecorder)

// WithRecordTimeout bounds a single append. Zero means no bound beyond the caller's context.
func WithRecordTimeout(d time.Duration) RecorderOption {
	return func(r *ClickRecorder) {
		r.timeout = d
	}
}

// WithRecorderClock overrides the clock used for event timestamps.
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *ClickRecorder) {
		r.now = now
	}
}

// NewClickRecorder creates a ClickRecorder writing to clickRepo.
func NewClickRecorder(clickRepo clickRepository, opts ...RecorderOption) *ClickRecorder {
	r := &ClickRecorder{
		clickRepo: clickRepo,
		now:       time.Now,
		newID:     func() (string, error) { return gonanoid.New() },
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Record builds a click event from meta and appends it. It never reads the store first.
func (r *ClickRecorder) Record(ctx context.Context, shortCode string, meta RequestMeta) error {
	const op = "usecase.ClickRecorder.Record"

	id, err := r.newID()
	if err != nil {
		return fmt.Errorf("%s: failed to generate event id: %w", op, err)
	}

	event := &entity.ClickEvent{
		ShortCode: shortCode,
		Timestamp: r.now().UnixMilli(),
		EventID:   id,
		UserAgent: orDefault(meta.UserAgent, entity.Unknown),
		Referrer:  orDefault(meta.Referrer, entity.DefaultReferrer),
		IPAddress: orDefault(meta.IPAddress, entity.Unknown),
		Country:   orDefault(meta.Country, entity.Unknown),
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.clickRepo.Append(ctx, event); err != nil {
		return fmt.Errorf("%s: failed to append click event: %w", op, err)
	}

	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
