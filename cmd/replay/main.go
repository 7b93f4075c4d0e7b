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
	dbPath := flag.String("db", "", "path to sovereign.db (DB mode)")
	gameID := flag.String("game", "", "game ID to replay (DB mode, default: latest game)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/sovereign.db [--game id]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *gameID)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region modes

func runDBMode(dbPath, gameID string) int {
	store, err := state.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	if gameID == "" {
		games, err := store.ListGames(1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list games: %v\n", err)
			return 2
		}
		if len(games) == 0 {
			fmt.Fprintln(os.Stderr, "no games found")
			return 2
		}
		gameID = games[0].GameID
	}

	f, err := replay.FromLedger(store, gameID, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load game: %v\n", err)
		return 2
	}
	return runFixture(f)
}

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	return runFixture(f)
}

func runFixture(f *replay.Fixture) int {
	start := f.Start()
	results := replay.Replay(start, f.ToMoves())
	code := printComparison(results, f.ExpectedResults)

	sum := replay.Summarize(start, results)
	fmt.Printf("Final: status=%s year=%d fx_reserves=%.2f external_debt=%.2f gdp=%.2f\n",
		sum.FinalStatus, sum.FinalState.Year, sum.FinalState.FXReserves, sum.FinalState.ExternalDebt, sum.FinalState.GDP)
	return code
}

// #endregion modes

// #region output

// printComparison outputs a comparison table and returns the exit code.
func printComparison(results []replay.ReplayResult, expected []replay.FixtureExpectedResult) int {
	fmt.Printf("%-10s| %-6s| %-22s| %-22s| %s\n", "Turn", "Shock", "Expected", "Replayed", "Match")
	fmt.Printf("%-10s+%-7s+%-23s+%-23s+%s\n",
		"----------", "-------", "-----------------------", "-----------------------", "------")

	matches := 0
	total := len(results)
	if len(expected) < total {
		total = len(expected)
	}

	for i := 0; i < total; i++ {
		exp := expected[i].Action + "/" + expected[i].Status
		got := results[i].Action + "/" + string(results[i].Status)
		match := "DIFF"
		if exp == got {
			match = "OK"
			matches++
		}
		fmt.Printf("%-10s| %-6d| %-22s| %-22s| %s\n", results[i].TurnID, results[i].Shock, exp, got, match)
	}

	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, diverge)

	if diverge > 0 || len(results) != len(expected) {
		return 1
	}
	return 0
}

// #endregion output
