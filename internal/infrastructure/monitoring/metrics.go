// Package monitoring narrows the teacher's sprawling observability
// surface (http/business/SLO/capacity-planning/security metrics) down
// to the one collector this service's domain actually drives: cleanup
// strategy outcomes (§4.2).
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alchemorsel/cookbook/internal/application/cleanup"
)

// CleanupMetrics implements cleanup.Counters against Prometheus,
// grounded on the teacher's MetricsCollector's promauto.NewCounterVec
// idiom (internal/infrastructure/monitoring/metrics.go) but narrowed to
// one vector instead of the teacher's dozen HTTP/business/SLA gauges.
type CleanupMetrics struct {
	strategyOutcomes *prometheus.CounterVec
}

func NewCleanupMetrics() *CleanupMetrics {
	return &CleanupMetrics{
		strategyOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleanup_strategy_outcomes_total",
				Help: "Count of cleanup cascade attempts by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
	}
}

func (m *CleanupMetrics) RecordStrategy(name cleanup.StrategyName, outcome string) {
	m.strategyOutcomes.WithLabelValues(string(name), outcome).Inc()
}

var _ cleanup.Counters = (*CleanupMetrics)(nil)
