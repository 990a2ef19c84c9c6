// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"time"

	"github.com/rockpool-labs/rockpool/log"
)

var logger = log.WithContext("pkg", "api")

// requestLogger logs each request with its status and duration.
func requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		mrw := newMetricsResponseWriter(w)
		h.ServeHTTP(mrw, r)

		logger.Debug("handled request",
			"method", r.Method,
			"uri", r.URL.String(),
			"code", mrw.statusCode,
			"duration", time.Since(now),
		)
	})
}
