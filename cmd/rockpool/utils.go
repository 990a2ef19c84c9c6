// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rockpool-labs/rockpool/log"
	"github.com/rockpool-labs/rockpool/lvldb"
)

func fatal(args ...interface{}) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	logLevel := ctx.Int(verbosityFlag.Name)

	level := &slog.LevelVar{}
	level.Set(log.FromLegacyLevel(logLevel))

	useColor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)))
}

func openMainDB(ctx *cli.Context) *lvldb.LevelDB {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open in-memory database: %v", err))
		}
		return db
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data directory [%v]: %v", dataDir, err))
	}
	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dataDir, err))
	}
	return db
}

func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		close(done)
	}()
	return done
}
