package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/config"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/ledger"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/rpc"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/session"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	addr := flag.String("addr", cfg.GRPCAddr, "listen address")
	dbPath := flag.String("db", cfg.DBPath, "ledger database path (empty disables recording)")
	seed := flag.Int64("seed", cfg.Seed, "seed for games started without one (0 = random per game)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           cfg.Level(),
		Prefix:          "sovereign-server",
	})

	if err := run(logger, *addr, *dbPath, *seed); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// #endregion main

// run serves until the listener closes or a signal arrives. Deferred cleanup
// always runs because exits happen only in main.
func run(logger *log.Logger, addr, dbPath string, seed int64) error {
	var recorder session.Recorder
	if dbPath != "" {
		store, err := state.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open ledger %s: %w", dbPath, err)
		}
		defer store.Close()
		recorder = ledger.NewRecorder(store)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	g := rpc.NewServer(recorder, logger, rpc.WithDefaultSeed(seed)).NewGRPCServer()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)
	go func() {
		<-stop
		logger.Info("shutting down")
		g.GracefulStop()
	}()

	logger.Info("serving", "addr", listener.Addr().String(), "db", dbPath, "seed", seed)
	if err := g.Serve(listener); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
