// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("endpoint_hits").Add(3)

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)

	family := families["rockpool_metrics_endpoint_hits"]
	require.NotNil(t, family)
	require.Equal(t, float64(3), family.GetMetric()[0].GetCounter().GetValue())
}
