package session

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

type fakeRecorder struct {
	games []string
	turns []int
	err   error
}

func (f *fakeRecorder) StartGame(gameID string, seed int64, initial state.EconomicState) error {
	f.games = append(f.games, gameID)
	return f.err
}

func (f *fakeRecorder) RecordTurn(gameID string, playedTurn int, result engine.TurnResult) error {
	f.turns = append(f.turns, playedTurn)
	return f.err
}

func TestNewStartsAtInitialState(t *testing.T) {
	s := New(engine.NewSequenceSource(0), WithID("game-1"))

	if s.ID() != "game-1" {
		t.Fatalf("expected game-1, got %s", s.ID())
	}
	if !reflect.DeepEqual(s.State(), state.Initial()) {
		t.Fatalf("expected initial state, got %+v", s.State())
	}
	if s.Status() != engine.InProgress {
		t.Fatalf("expected in_progress, got %s", s.Status())
	}
}

func TestPlayAdvancesState(t *testing.T) {
	s := New(engine.NewSequenceSource(-20, 10))

	r, err := s.Play(engine.DoNothing)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if r.ShockApplied != -20 {
		t.Fatalf("expected first shock -20, got %d", r.ShockApplied)
	}
	if s.State().Turn != 2 {
		t.Fatalf("expected turn 2, got %d", s.State().Turn)
	}

	r, err = s.Play(engine.BorrowExternally)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if r.ShockApplied != 10 {
		t.Fatalf("expected second shock 10, got %d", r.ShockApplied)
	}
	if got := len(s.State().History); got != 2 {
		t.Fatalf("expected 2 history entries, got %d", got)
	}
}

func TestStateIsACopy(t *testing.T) {
	s := New(engine.NewSequenceSource(0))
	s.Play(engine.DoNothing)

	snap := s.State()
	snap.History[0].GDP = -1
	snap.FXReserves = 999

	if s.State().History[0].GDP == -1 || s.State().FXReserves == 999 {
		t.Fatal("caller mutation leaked into session state")
	}
}

func TestPlayAfterDefaultRejected(t *testing.T) {
	rec := &fakeRecorder{}
	s := New(engine.NewSequenceSource(-20), WithRecorder(rec))

	var last engine.TurnResult
	for i := 0; i < 3; i++ {
		r, err := s.Play(engine.DoNothing)
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		last = r
	}
	if last.Status != engine.Default || s.Status() != engine.Default {
		t.Fatalf("expected default, got %s / %s", last.Status, s.Status())
	}

	before := s.State()
	_, err := s.Play(engine.DoNothing)
	if !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Fatal("rejected turn changed state")
	}
	if len(rec.turns) != 3 {
		t.Fatalf("expected 3 recorded turns, got %d", len(rec.turns))
	}
}

func TestPlayAfterCompleteRejected(t *testing.T) {
	s := New(engine.NewSequenceSource(20))
	for i := 0; i < engine.Horizon; i++ {
		if _, err := s.Play(engine.DoNothing); err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
	}
	if s.Status() != engine.Complete {
		t.Fatalf("expected complete, got %s", s.Status())
	}
	if _, err := s.Play(engine.Austerity); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUnknownPolicyConsumesNoShock(t *testing.T) {
	s := New(engine.NewSequenceSource(-20, 20))

	if _, err := s.Play(engine.Policy("default on purpose")); !errors.Is(err, engine.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
	r, err := s.Play(engine.DoNothing)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if r.ShockApplied != -20 {
		t.Fatalf("expected the first shock to still be pending, got %d", r.ShockApplied)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	rec := &fakeRecorder{}
	s := New(engine.NewSequenceSource(-20), WithRecorder(rec))
	firstID := s.ID()
	for i := 0; i < 3; i++ {
		s.Play(engine.BorrowExternally)
	}

	s.Reset()

	if !reflect.DeepEqual(s.State(), state.Initial()) {
		t.Fatalf("expected initial state after reset, got %+v", s.State())
	}
	if len(s.State().History) != 0 {
		t.Fatal("expected empty history after reset")
	}
	if s.Status() != engine.InProgress {
		t.Fatalf("expected in_progress after reset, got %s", s.Status())
	}
	if s.ID() == firstID {
		t.Fatal("expected a new game ID after reset")
	}
	if len(rec.games) != 2 {
		t.Fatalf("expected 2 recorded games, got %d", len(rec.games))
	}
}

func TestResetAfterDefault(t *testing.T) {
	s := New(engine.NewSequenceSource(-20))
	for i := 0; i < 3; i++ {
		s.Play(engine.DoNothing)
	}
	s.Reset()
	if _, err := s.Play(engine.DoNothing); err != nil {
		t.Fatalf("expected play to be accepted after reset, got %v", err)
	}
}

func TestRecorderFailureDoesNotAlterGame(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	s := New(engine.NewSequenceSource(10), WithRecorder(rec))

	r, err := s.Play(engine.DoNothing)
	if err != nil {
		t.Fatalf("recorder failure must not fail the turn: %v", err)
	}
	if !reflect.DeepEqual(r.NewState, s.State()) {
		t.Fatal("returned state differs from session state")
	}
}

func TestConcurrentPlaysAreSerialized(t *testing.T) {
	s := New(engine.NewRandSource(5))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Play(engine.BorrowExternally)
		}()
	}
	wg.Wait()

	st := s.State()
	switch s.Status() {
	case engine.Complete:
		if len(st.History) != engine.Horizon {
			t.Fatalf("expected %d history entries, got %d", engine.Horizon, len(st.History))
		}
	case engine.Default:
		if len(st.History) != st.Turn {
			t.Fatalf("history %d should equal defaulting turn %d", len(st.History), st.Turn)
		}
	default:
		t.Fatalf("20 attempts should reach a terminal status, got %s", s.Status())
	}
}
