// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/inconshreveable/log15"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/api"
	"github.com/stakevault/stakevault/custody/memcustody"
	"github.com/stakevault/stakevault/eventdb"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/state"
)

var (
	version   string
	gitCommit string
	log       = log15.New()
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "StakeVault",
		Usage:   "Multi-asset staking ledger",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			authorityFlag,
			eventDBFlag,
			verbosityFlag,
			enableMetricsFlag,
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

	authority, err := stakevault.ParseAddress(ctx.String(authorityFlag.Name))
	if err != nil {
		return fmt.Errorf("--%s: %v", authorityFlag.Name, err)
	}

	mainDB, err := openMainDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	var events *eventdb.EventDB
	if path := ctx.String(eventDBFlag.Name); path != "" {
		if events, err = eventdb.New(path); err != nil {
			return err
		}
		defer func() { log.Info("closing event journal..."); events.Close() }()
	}

	// custody is in-memory until an external adapter is plugged in; the
	// core only ever talks to the custody.Custodian interface
	custodian := memcustody.New(stakevault.BytesToAddress([]byte("vault")))

	var sink staking.EventSink
	if events != nil {
		sink = events
	}
	svc := staking.New(*authority, state.New(mainDB), custodian, sink)

	return serveAPI(ctx, api.New(svc, events))
}

func initLogger(ctx *cli.Context) {
	logLevel := ctx.Int(verbosityFlag.Name)
	log15.Root().SetHandler(log15.LvlFilterHandler(log15.Lvl(logLevel), log15.StderrHandler))
}

func openMainDB(ctx *cli.Context) (kv.GetPutCloser, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		log.Info("data-dir not set, running with in-memory database")
		return lvldb.NewMem()
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir [%s]: %v", dataDir, err)
	}
	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, fmt.Errorf("open main database [%s]: %v", dataDir, err)
	}
	return db, nil
}

func serveAPI(ctx *cli.Context, handler http.Handler) error {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen API addr [%s]: %v", addr, err)
	}

	srv := &http.Server{Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	log.Info("API started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down...", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
