// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/rockpool-labs/rockpool/api"
	"github.com/rockpool-labs/rockpool/log"
	"github.com/rockpool-labs/rockpool/metrics"
	"github.com/rockpool-labs/rockpool/payout"
	"github.com/rockpool-labs/rockpool/pool"
	"github.com/rockpool-labs/rockpool/registry"
	"github.com/rockpool-labs/rockpool/storage"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Rockpool",
		Usage:     "Pooled staking reward accounting service",
		Copyright: "2025 The Rockpool developers",
		Flags: []cli.Flag{
			dataDirFlag,
			poolsFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableMetricsFlag,
			enableAPILogsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	mainDB := openMainDB(ctx)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	reg, err := registry.FromFile(ctx.String(poolsFlag.Name))
	if err != nil {
		return err
	}

	sctx := storage.NewContext(mainDB)
	ledger := payout.NewLedger(sctx)

	handler := api.New(pool.New(sctx, ledger), ledger, reg, api.Config{
		AllowedOrigins: parseCorsOrigins(ctx.String(apiCorsFlag.Name)),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		LogRequests:    ctx.Bool(enableAPILogsFlag.Name),
	})

	apiURL, srvCloser, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(reg, apiURL)

	<-handleExitSignal()
	return nil
}

func parseCorsOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen API addr [%v]: %w", addr, err)
	}

	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			log.Error("API server stopped unexpectedly", "err", err)
		}
	}()

	closer := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
	return "http://" + listener.Addr().String() + "/", closer, nil
}

func printStartupMessage(reg *registry.Registry, apiURL string) {
	fmt.Printf(`Starting Rockpool %v
    Pools       [ %v ]
    API portal  [ %v ]
`,
		fullVersion(),
		len(reg.All()),
		apiURL,
	)
}
