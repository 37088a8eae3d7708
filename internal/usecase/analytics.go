package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

const defaultQueryLimit = 1000

// AnalyticsUseCase aggregates click events over a time window.
type AnalyticsUseCase struct {
	clickRepo clickRepository
	limit     int
}

// NewAnalyticsUseCase creates an AnalyticsUseCase reading at most limit events per query.
// A non-positive limit falls back to 1000.
func NewAnalyticsUseCase(clickRepo clickRepository, limit int) *AnalyticsUseCase {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	return &AnalyticsUseCase{
		clickRepo: clickRepo,
		limit:     limit,
	}
}

// Query summarizes the newest events of shortCode with start <= timestamp <= end.
func (uc *AnalyticsUseCase) Query(ctx context.Context, shortCode string, start, end int64) (*entity.ClickStats, error) {
	const op = "usecase.AnalyticsUseCase.Query"

	clicks := []entity.ClickEvent{}

	if start <= end {
		page, err := uc.clickRepo.Query(ctx, shortCode, start, end, uc.limit)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to query click events: %w", op, err)
		}
		if page != nil {
			clicks = page
		}
	}

	return aggregate(clicks), nil
}

func aggregate(clicks []entity.ClickEvent) *entity.ClickStats {
	ips := lo.Map(clicks, func(c entity.ClickEvent, _ int) string {
		return c.IPAddress
	})
	referrers := lo.Map(clicks, func(c entity.ClickEvent, _ int) string {
		return orDefault(c.Referrer, entity.DefaultReferrer)
	})

	return &entity.ClickStats{
		TotalClicks:  len(clicks),
		UniqueIPs:    len(lo.Uniq(ips)),
		TopReferrers: lo.CountValues(referrers),
		Clicks:       clicks,
	}
}
