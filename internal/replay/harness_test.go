package replay

import (
	"reflect"
	"testing"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

func moves(p engine.Policy, shocks ...engine.Shock) []Move {
	out := make([]Move, len(shocks))
	for i, s := range shocks {
		out[i] = Move{TurnID: "t", Policy: p, Shock: s}
	}
	return out
}

func TestReplay_DefaultThenRejected(t *testing.T) {
	results := Replay(state.Initial(), moves(engine.DoNothing, -20, -20, -20, 10))

	want := []string{"played", "played", "played", "rejected"}
	for i, w := range want {
		if results[i].Action != w {
			t.Fatalf("move %d: expected %s, got %s", i, w, results[i].Action)
		}
	}
	if results[2].Status != engine.Default {
		t.Fatalf("expected default on move 3, got %s", results[2].Status)
	}
	if results[3].Status != engine.Default || results[3].Reason == "" {
		t.Fatalf("rejected move should report default status and a reason, got %+v", results[3])
	}
	if !reflect.DeepEqual(results[3].State, results[2].State) {
		t.Fatal("rejected move changed state")
	}
}

func TestReplay_StartIsNotMutated(t *testing.T) {
	start := state.Initial()
	Replay(start, moves(engine.BorrowExternally, 10, 10))
	if !reflect.DeepEqual(start, state.Initial()) {
		t.Fatal("replay mutated the start state")
	}
}

func TestReplay_InvalidMoveRejected(t *testing.T) {
	results := Replay(state.Initial(), []Move{
		{TurnID: "a", Policy: "print", Shock: 0},
		{TurnID: "b", Policy: engine.DoNothing, Shock: 5},
		{TurnID: "c", Policy: engine.DoNothing, Shock: 0},
	})
	if results[0].Action != "rejected" || results[1].Action != "rejected" {
		t.Fatalf("expected invalid moves rejected, got %s, %s", results[0].Action, results[1].Action)
	}
	if results[2].Action != "played" || results[2].State.Turn != 2 {
		t.Fatalf("expected valid move to play from the untouched state, got %+v", results[2])
	}
}

func TestReplay_Deterministic(t *testing.T) {
	ms := []Move{
		{Policy: engine.BorrowExternally, Shock: -10},
		{Policy: engine.Austerity, Shock: 20},
		{Policy: engine.DoNothing, Shock: 0},
	}
	r1 := Replay(state.Initial(), ms)
	r2 := Replay(state.Initial(), ms)
	if !reflect.DeepEqual(r1, r2) {
		t.Fatal("replay is not deterministic")
	}
}

func TestReplay_MatchesSequenceSource(t *testing.T) {
	shocks := []engine.Shock{-10, 20, 0, -20, 10}
	src := engine.NewSequenceSource(shocks...)

	s := state.Initial()
	for range shocks {
		r, err := engine.ApplyTurn(s, engine.Austerity, src.Draw())
		if err != nil {
			t.Fatalf("ApplyTurn: %v", err)
		}
		s = r.NewState
	}

	results := Replay(state.Initial(), moves(engine.Austerity, shocks...))
	if !reflect.DeepEqual(results[len(results)-1].State, s) {
		t.Fatal("replay diverged from a direct engine run")
	}
}

func TestSummarize(t *testing.T) {
	results := Replay(state.Initial(), moves(engine.DoNothing, -20, -20, -20, -20, -20))
	sum := Summarize(state.Initial(), results)

	if sum.TotalMoves != 5 || sum.Played != 3 || sum.Rejected != 2 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.FinalStatus != engine.Default {
		t.Fatalf("expected default, got %s", sum.FinalStatus)
	}
	if len(sum.FinalState.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(sum.FinalState.History))
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(state.Initial(), nil)
	if sum.TotalMoves != 0 || sum.FinalStatus != engine.InProgress {
		t.Fatalf("unexpected empty summary: %+v", sum)
	}
}
