package replay

import (
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region types
// Move is a single recorded turn input: the policy chosen and the shock drawn.
type Move struct {
	TurnID string
	Policy engine.Policy
	Shock  engine.Shock
}

// ReplayResult captures the outcome of replaying one move through the engine.
type ReplayResult struct {
	TurnID string
	Action string // "played" | "rejected"
	Reason string

	Status      engine.Status
	Shock       engine.Shock
	DebtService float64

	// State after this move (equals the previous state if rejected)
	State state.EconomicState
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalMoves  int
	Played      int
	Rejected    int
	FinalStatus engine.Status
	FinalState  state.EconomicState
}

// #endregion types

// #region replay
// Replay runs moves through the engine in order, starting from start. Moves
// after a terminal status are reported as rejected and do not change state.
func Replay(start state.EconomicState, moves []Move) []ReplayResult {
	current := start.Clone()
	results := make([]ReplayResult, 0, len(moves))

	for _, m := range moves {
		r, err := engine.ApplyTurn(current, m.Policy, m.Shock)
		if err != nil {
			results = append(results, ReplayResult{
				TurnID: m.TurnID,
				Action: "rejected",
				Reason: err.Error(),
				Status: engine.StatusOf(current),
				Shock:  m.Shock,
				State:  current.Clone(),
			})
			continue
		}

		current = r.NewState
		results = append(results, ReplayResult{
			TurnID:      m.TurnID,
			Action:      "played",
			Status:      r.Status,
			Shock:       r.ShockApplied,
			DebtService: r.DebtService,
			State:       current.Clone(),
		})
	}

	return results
}

// Summarize computes aggregate stats from replay results. start is reported
// as the final state when there are no results.
func Summarize(start state.EconomicState, results []ReplayResult) ReplaySummary {
	s := ReplaySummary{
		TotalMoves:  len(results),
		FinalStatus: engine.StatusOf(start),
		FinalState:  start,
	}
	for _, r := range results {
		switch r.Action {
		case "played":
			s.Played++
		case "rejected":
			s.Rejected++
		}
	}
	if n := len(results); n > 0 {
		s.FinalStatus = results[n-1].Status
		s.FinalState = results[n-1].State
	}
	return s
}

// #endregion replay
