package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/eval"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/logging"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to sovereign.db")
	gameID := flag.String("game", "", "list snapshots of one game")
	last := flag.Int("last", 20, "show the N most recent rows")
	version := flag.String("version", "", "show single version detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	verify := flag.Bool("verify", false, "recompute every recorded turn of --game and report mismatches")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/sovereign.db [--game id] [--last N] [--version id] [--verify] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *verify:
		if *gameID == "" {
			fmt.Fprintln(os.Stderr, "--verify requires --game")
			os.Exit(2)
		}
		var ok bool
		ok, err = runVerifyMode(store, *gameID, *jsonOut)
		if err == nil && !ok {
			os.Exit(1)
		}
	case *version != "":
		err = runDetailMode(store, *version, *jsonOut)
	case *gameID != "":
		err = runGameMode(store, *gameID, *last, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type gameRow struct {
	GameID    string `json:"game_id"`
	Seed      int64  `json:"seed"`
	StartedAt string `json:"started_at"`
	Turn      int    `json:"turn"`
	Year      int    `json:"year"`
	Status    string `json:"status"`
}

func runListMode(store *state.Store, last int, jsonOut bool) error {
	games, err := store.ListGames(last)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stderr, "no games found")
		return nil
	}

	rows := make([]gameRow, 0, len(games))
	for _, g := range games {
		head, err := store.Latest(g.GameID)
		if err != nil {
			return err
		}
		rows = append(rows, gameRow{
			GameID:    g.GameID,
			Seed:      g.Seed,
			StartedAt: g.StartedAt.Format("2006-01-02T15:04:05Z"),
			Turn:      head.State.Turn,
			Year:      head.State.Year,
			Status:    string(engine.StatusOf(head.State)),
		})
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %20s  %4s  %4s  %-11s  %s\n", "Game", "Seed", "Turn", "Year", "Status", "Started")
	fmt.Printf("%-12s+-%20s+-%4s+-%4s+-%-11s+-%s\n",
		"------------", "--------------------", "----", "----", "-----------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-12s  %20d  %4d  %4d  %-11s  %s\n", shortID(r.GameID), r.Seed, r.Turn, r.Year, r.Status, r.StartedAt)
	}
	return nil
}

// #endregion list-mode

// #region game-mode

type versionRow struct {
	VersionID    string  `json:"version_id"`
	Turn         int     `json:"turn"`
	Year         int     `json:"year"`
	Policy       string  `json:"policy,omitempty"`
	Shock        *int    `json:"shock,omitempty"`
	FXReserves   float64 `json:"fx_reserves"`
	ExternalDebt float64 `json:"external_debt"`
	GDP          float64 `json:"gdp"`
	ExchangeRate float64 `json:"exchange_rate"`
	Status       string  `json:"status"`
}

func runGameMode(store *state.Store, gameID string, last int, jsonOut bool) error {
	if _, err := store.GetGame(gameID); err != nil {
		return err
	}
	versions, err := store.ListVersions(gameID, last)
	if err != nil {
		return err
	}
	turns, err := logging.ListTurns(store.DB(), gameID)
	if err != nil {
		return err
	}
	byVersion := make(map[string]logging.TurnEntry, len(turns))
	for _, t := range turns {
		byVersion[t.VersionID] = t
	}

	rows := make([]versionRow, 0, len(versions))
	for _, v := range versions {
		r := versionRow{
			VersionID:    v.VersionID,
			Turn:         v.State.Turn,
			Year:         v.State.Year,
			FXReserves:   v.State.FXReserves,
			ExternalDebt: v.State.ExternalDebt,
			GDP:          v.State.GDP,
			ExchangeRate: v.State.ExchangeRate,
			Status:       string(engine.StatusOf(v.State)),
		}
		if t, ok := byVersion[v.VersionID]; ok {
			shock := t.Shock
			r.Policy = t.Policy
			r.Shock = &shock
		}
		rows = append(rows, r)
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %4s  %4s  %-10s  %5s  %10s  %10s  %10s  %8s  %s\n",
		"Version", "Turn", "Year", "Policy", "Shock", "FX", "Debt", "GDP", "FX Rate", "Status")
	fmt.Printf("%-12s+-%4s+-%4s+-%-10s+-%5s+-%10s+-%10s+-%10s+-%8s+-%s\n",
		"------------", "----", "----", "----------", "-----", "----------", "----------", "----------", "--------", "-----------")
	for _, r := range rows {
		policy, shock := "-", "-"
		if r.Shock != nil {
			policy = r.Policy
			shock = fmt.Sprintf("%d", *r.Shock)
		}
		fmt.Printf("%-12s  %4d  %4d  %-10s  %5s  %10.2f  %10.2f  %10.2f  %8.2f  %s\n",
			shortID(r.VersionID), r.Turn, r.Year, policy, shock,
			r.FXReserves, r.ExternalDebt, r.GDP, r.ExchangeRate, r.Status)
	}
	return nil
}

// #endregion game-mode

// #region detail-mode

type detailOutput struct {
	VersionID string              `json:"version_id"`
	ParentID  string              `json:"parent_id"`
	GameID    string              `json:"game_id"`
	CreatedAt string              `json:"created_at"`
	Status    string              `json:"status"`
	State     state.EconomicState `json:"state"`
}

func runDetailMode(store *state.Store, versionID string, jsonOut bool) error {
	rec, err := store.GetVersion(versionID)
	if err != nil {
		return err
	}

	out := detailOutput{
		VersionID: rec.VersionID,
		ParentID:  rec.ParentID,
		GameID:    rec.GameID,
		CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Status:    string(engine.StatusOf(rec.State)),
		State:     rec.State,
	}
	if jsonOut {
		return printJSON(out)
	}

	s := out.State
	fmt.Printf("Version:    %s\n", out.VersionID)
	fmt.Printf("Parent:     %s\n", out.ParentID)
	fmt.Printf("Game:       %s\n", out.GameID)
	fmt.Printf("Created:    %s\n", out.CreatedAt)
	fmt.Printf("Status:     %s\n", out.Status)

	fmt.Printf("\nState:\n")
	fmt.Printf("  Year:            %d (turn %d)\n", s.Year, s.Turn)
	fmt.Printf("  GDP:             %.2f\n", s.GDP)
	fmt.Printf("  External debt:   %.2f\n", s.ExternalDebt)
	fmt.Printf("  FX reserves:     %.2f\n", s.FXReserves)
	fmt.Printf("  Exchange rate:   %.2f\n", s.ExchangeRate)
	fmt.Printf("  Inflation:       %.2f\n", s.Inflation)
	fmt.Printf("  Commodity price: %g\n", s.CommodityPrice)
	fmt.Printf("  Approval:        %.2f\n", s.PublicApproval)

	if len(s.History) > 0 {
		fmt.Printf("\nHistory:\n")
		for _, h := range s.History {
			fmt.Printf("  %d  debt=%.2f  gdp=%.2f\n", h.Year, h.ExternalDebt, h.GDP)
		}
	}
	return nil
}

// #endregion detail-mode

// #region verify-mode

func runVerifyMode(store *state.Store, gameID string, jsonOut bool) (bool, error) {
	report, err := eval.CheckGame(store, gameID)
	if err != nil {
		return false, err
	}
	if jsonOut {
		return report.Passed(), printJSON(report)
	}

	for _, r := range report.Results {
		mark := "OK"
		if !r.Passed {
			mark = "FAIL"
		}
		fmt.Printf("turn %-3d %-12s %-4s %s\n", r.Turn, shortID(r.VersionID), mark, r.Reason)
	}
	fmt.Printf("\nSummary: %d checked, %d failed\n", report.Checked, report.Failed)
	return report.Passed(), nil
}

// #endregion verify-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
