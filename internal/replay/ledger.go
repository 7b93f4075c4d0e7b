package replay

import (
	"fmt"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/logging"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region from-ledger
// FromLedger builds a fixture from a recorded game: its root snapshot, the
// moves from the turn log, and the statuses the live game reported. A last
// value > 0 keeps only that many moves from the start of the game.
func FromLedger(store *state.Store, gameID string, last int) (*Fixture, error) {
	game, err := store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	root, err := store.Root(gameID)
	if err != nil {
		return nil, err
	}
	turns, err := logging.ListTurns(store.DB(), gameID)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("game %s has no recorded turns", gameID)
	}
	if last > 0 && last < len(turns) {
		turns = turns[:last]
	}

	start := root.State
	f := &Fixture{
		Description: fmt.Sprintf("exported from game %s (seed %d)", gameID, game.Seed),
		GameID:      gameID,
		Seed:        game.Seed,
		StartState:  &start,
	}
	for _, tr := range turns {
		turnID := fmt.Sprintf("turn-%d", tr.Turn)
		f.Moves = append(f.Moves, FixtureMove{TurnID: turnID, Policy: tr.Policy, Shock: tr.Shock})
		f.ExpectedResults = append(f.ExpectedResults, FixtureExpectedResult{
			TurnID: turnID,
			Action: "played",
			Status: tr.Status,
		})
	}
	return f, nil
}

// #endregion from-ledger
