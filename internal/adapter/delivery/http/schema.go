package http

import (
	"github.com/vadimbarashkov/clicktrail/internal/entity"
	"github.com/vadimbarashkov/clicktrail/internal/usecase"
)

// createURLRequest is the body of POST /urls.
type createURLRequest struct {
	URL            string `json:"url" validate:"required"`
	CustomCode     string `json:"custom_code,omitempty"`
	SkipValidation bool   `json:"skip_validation,omitempty"`
}

func (req createURLRequest) toParams() usecase.CreateParams {
	return usecase.CreateParams{
		OriginalURL:           req.URL,
		CustomCode:            req.CustomCode,
		SkipReachabilityCheck: req.SkipValidation,
	}
}

type createURLResponse struct {
	ShortCode   string `json:"short_code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}

func toCreateURLResponse(res *usecase.CreateResult) createURLResponse {
	return createURLResponse{
		ShortCode:   res.ShortCode,
		ShortURL:    res.ShortURL,
		OriginalURL: res.OriginalURL,
	}
}

// urlResponse is the stored record including its click counter.
type urlResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	CreatedAt   int64  `json:"created_at"`
	ClickCount  int64  `json:"click_count"`
}

func toURLResponse(url *entity.URL) urlResponse {
	return urlResponse{
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		CreatedAt:   url.CreatedAt,
		ClickCount:  url.ClickCount,
	}
}

type clickResponse struct {
	ShortCode string `json:"short_code"`
	Timestamp int64  `json:"timestamp"`
	EventID   string `json:"event_id"`
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer"`
	IPAddress string `json:"ip_address"`
	Country   string `json:"country"`
}

type analyticsResponse struct {
	TotalClicks  int             `json:"total_clicks"`
	UniqueIPs    int             `json:"unique_ips"`
	TopReferrers map[string]int  `json:"top_referrers"`
	Clicks       []clickResponse `json:"clicks"`
}

func toAnalyticsResponse(stats *entity.ClickStats) analyticsResponse {
	clicks := make([]clickResponse, 0, len(stats.Clicks))
	for _, c := range stats.Clicks {
		clicks = append(clicks, clickResponse{
			ShortCode: c.ShortCode,
			Timestamp: c.Timestamp,
			EventID:   c.EventID,
			UserAgent: c.UserAgent,
			Referrer:  c.Referrer,
			IPAddress: c.IPAddress,
			Country:   c.Country,
		})
	}

	topReferrers := stats.TopReferrers
	if topReferrers == nil {
		topReferrers = map[string]int{}
	}

	return analyticsResponse{
		TotalClicks:  stats.TotalClicks,
		UniqueIPs:    stats.UniqueIPs,
		TopReferrers: topReferrers,
		Clicks:       clicks,
	}
}
