// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rockpool-labs/rockpool/api/pools"
	"github.com/rockpool-labs/rockpool/metrics"
	"github.com/rockpool-labs/rockpool/payout"
	"github.com/rockpool-labs/rockpool/pool"
	"github.com/rockpool-labs/rockpool/registry"
)

// Config tunes the HTTP surface.
type Config struct {
	AllowedOrigins []string
	EnableMetrics  bool
	LogRequests    bool
}

// New assembles the REST handler: pool endpoints under /pools, the
// Prometheus endpoint under /metrics when enabled, compression, CORS
// and the observability middleware.
func New(
	p *pool.Pool,
	ledger *payout.Ledger,
	reg *registry.Registry,
	config Config,
) http.Handler {
	router := mux.NewRouter()

	pools.New(p, ledger, reg).Mount(router, "/pools")
	if config.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(config.AllowedOrigins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handler)
	handler = metricsHandler(handler)
	if config.LogRequests {
		handler = requestLogger(handler)
	}
	return handler
}
