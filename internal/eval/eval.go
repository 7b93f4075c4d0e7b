// Package eval audits recorded games: every committed snapshot must be the
// exact result of applying its logged policy and shock to its parent.
package eval

import (
	"fmt"
	"reflect"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/logging"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region check-turn
// CheckTurn validates one committed transition against the turn log entry
// that produced it.
func CheckTurn(parent, child state.StateRecord, entry logging.TurnEntry) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	check := func(name string, pass bool, format string, args ...interface{}) {
		m := EvalMetric{Name: name, Pass: pass}
		if !pass {
			m.Note = fmt.Sprintf(format, args...)
			failReasons = append(failReasons, m.Note)
		}
		metrics = append(metrics, m)
	}

	check("parent_link", child.ParentID == parent.VersionID,
		"parent %s, expected %s", child.ParentID, parent.VersionID)
	check("played_turn", entry.Turn == parent.State.Turn,
		"logged turn %d, parent is on turn %d", entry.Turn, parent.State.Turn)
	check("history_growth", len(child.State.History) == len(parent.State.History)+1,
		"history length %d after %d", len(child.State.History), len(parent.State.History))

	// Recompute the transition and compare the whole snapshot.
	policy, perr := engine.ParsePolicy(entry.Policy)
	var result engine.TurnResult
	var err error
	if perr == nil {
		result, err = engine.ApplyTurn(parent.State, policy, engine.Shock(entry.Shock))
	} else {
		err = perr
	}
	check("reapply", err == nil, "reapply failed: %v", err)
	if err == nil {
		check("state_match", reflect.DeepEqual(result.NewState, child.State),
			"recomputed state differs from committed state")
		check("status_match", string(result.Status) == entry.Status,
			"logged status %s, recomputed %s", entry.Status, result.Status)
	}

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
	}

	return EvalResult{
		VersionID: child.VersionID,
		Turn:      entry.Turn,
		Passed:    len(failReasons) == 0,
		Metrics:   metrics,
		Reason:    reason,
	}
}

// #endregion check-turn

// #region check-game
// CheckGame audits every recorded turn of a game.
func CheckGame(store *state.Store, gameID string) (GameReport, error) {
	if _, err := store.GetGame(gameID); err != nil {
		return GameReport{}, err
	}
	turns, err := logging.ListTurns(store.DB(), gameID)
	if err != nil {
		return GameReport{}, err
	}

	report := GameReport{GameID: gameID}
	for _, entry := range turns {
		child, err := store.GetVersion(entry.VersionID)
		if err != nil {
			return GameReport{}, fmt.Errorf("turn %d: %w", entry.Turn, err)
		}
		parent, err := store.GetVersion(child.ParentID)
		if err != nil {
			return GameReport{}, fmt.Errorf("turn %d parent: %w", entry.Turn, err)
		}
		res := CheckTurn(parent, child, entry)
		report.Checked++
		if !res.Passed {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// #endregion check-game
