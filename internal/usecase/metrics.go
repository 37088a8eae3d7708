package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	urlsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clicktrail_urls_created_total",
		Help: "Short URLs created, by code source",
	}, []string{"source"})

	codeCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clicktrail_code_collisions_total",
		Help: "Generated short codes rejected because they already existed",
	})

	redirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clicktrail_redirects_total",
		Help: "Successful redirect lookups",
	})

	sideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clicktrail_redirect_side_effect_failures_total",
		Help: "Best-effort redirect side effects that failed without affecting the redirect",
	}, []string{"effect"})
)

const (
	effectRecordClick    = "record_click"
	effectIncrementCount = "increment_count"
)
