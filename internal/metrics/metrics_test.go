package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesBeaconFamilies(t *testing.T) {
	CheckOutcome.WithLabelValues("get_version", "passed").Inc()
	NodeScore.WithLabelValues("api.example").Set(94)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.NoError(t, err)

	require.Contains(t, families, "beacon_scanner_checks_total")
	require.Contains(t, families, "beacon_node_score")

	score := findGauge(families["beacon_node_score"], "node", "api.example")
	require.NotNil(t, score)
	assert.Equal(t, 94.0, score.GetValue())
}

func TestRegistry_Gather(t *testing.T) {
	CycleSkipped.Inc()

	mfs, err := Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "beacon_scanner_cycles_skipped_total" {
			found = true
			assert.GreaterOrEqual(t, mf.GetMetric()[0].GetCounter().GetValue(), 1.0)
		}
	}
	assert.True(t, found)
}

func findGauge(mf *dto.MetricFamily, label, value string) *dto.Gauge {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label && lp.GetValue() == value {
				return m.GetGauge()
			}
		}
	}
	return nil
}
