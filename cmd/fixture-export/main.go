package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/replay"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to sovereign.db")
	gameID := flag.String("game", "", "game ID to export")
	first := flag.Int("first", 0, "export only the first N turns (0 = all)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *gameID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --game id --out path/to/fixture.json [--first N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *gameID, *first, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

func run(dbPath, gameID string, first int, outPath string) error {
	store, err := state.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	f, err := replay.FromLedger(store, gameID, first)
	if err != nil {
		return err
	}
	if err := replay.WriteFixture(outPath, f); err != nil {
		return err
	}
	fmt.Printf("Exported %d moves from game %s to %s\n", len(f.Moves), gameID, outPath)
	return nil
}
