package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/cookbook/internal/application/cleanup"
)

func TestRecordStrategyIncrementsLabeledCounter(t *testing.T) {
	m := NewCleanupMetrics()

	m.RecordStrategy(cleanup.StrategyStructured, "success")
	m.RecordStrategy(cleanup.StrategyStructured, "success")
	m.RecordStrategy(cleanup.StrategySection, "skipped")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.strategyOutcomes.WithLabelValues("STRUCTURED_DATA", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.strategyOutcomes.WithLabelValues("SECTION_BASED", "skipped")))
}
