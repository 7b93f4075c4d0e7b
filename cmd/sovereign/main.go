package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/config"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/ledger"
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

	dbPath := flag.String("db", cfg.DBPath, "ledger database path (empty disables recording)")
	seed := flag.Int64("seed", cfg.Seed, "shock seed (0 = random)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           cfg.Level(),
		Prefix:          "sovereign",
	})

	if *seed == 0 {
		if *seed, err = engine.NewSeed(); err != nil {
			logger.Fatal("seed", "err", err)
		}
	}

	opts := []session.Option{session.WithLogger(logger)}
	if *dbPath != "" {
		store, err := state.NewStore(*dbPath)
		if err != nil {
			logger.Fatal("failed to open ledger", "db", *dbPath, "err", err)
		}
		defer store.Close()
		opts = append(opts, session.WithRecorder(ledger.NewRecorder(store)))
	}

	sess := session.New(engine.NewRandSource(*seed), opts...)
	logger.Debug("ready", "db", *dbPath, "seed", *seed)

	run(sess, os.Stdin, os.Stdout)
}

// #endregion main

// #region loop
// run drives the interactive game until input ends or the player quits.
func run(sess *session.Session, in io.Reader, out io.Writer) {
	renderHeader(out)
	scanner := bufio.NewScanner(in)

	for {
		renderDashboard(out, sess.State())
		prompt := "> "
		if !sess.Status().Terminal() {
			renderMenu(out)
			prompt = "End Turn (1-3) > "
		}
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit":
			return
		case "reset":
			sess.Reset()
			fmt.Fprintln(out, "New game started.")
			continue
		case "history":
			renderHistory(out, sess.State())
			continue
		}

		policy, err := parseChoice(input)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		result, err := sess.Play(policy)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		renderOutcome(out, result)
	}
}

// #endregion loop
