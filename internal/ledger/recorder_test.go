package ledger

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/logging"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/session"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

func tempStore(t *testing.T) *state.Store {
	t.Helper()
	s, err := state.NewStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecorderCapturesSessionGame(t *testing.T) {
	store := tempStore(t)
	sess := session.New(engine.NewRandSource(77), session.WithRecorder(NewRecorder(store)))

	policies := []engine.Policy{engine.BorrowExternally, engine.Austerity, engine.DoNothing}
	played := 0
	for _, p := range policies {
		if _, err := sess.Play(p); err != nil {
			break
		}
		played++
	}

	game, err := store.GetGame(sess.ID())
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if game.Seed != 77 {
		t.Fatalf("expected seed 77, got %d", game.Seed)
	}

	versions, err := store.ListVersions(sess.ID(), 100)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != played+1 {
		t.Fatalf("expected %d versions (root + turns), got %d", played+1, len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i].ParentID != versions[i-1].VersionID {
			t.Fatalf("version %d not chained to its predecessor", i)
		}
	}

	latest, _ := store.Latest(sess.ID())
	if !reflect.DeepEqual(latest.State, sess.State()) {
		t.Fatalf("ledger head differs from session:\n got %+v\nwant %+v", latest.State, sess.State())
	}

	turns, err := logging.ListTurns(store.DB(), sess.ID())
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != played {
		t.Fatalf("expected %d turn log rows, got %d", played, len(turns))
	}
	for i, tr := range turns {
		if tr.Turn != i+1 {
			t.Fatalf("turn log row %d: expected turn %d, got %d", i, i+1, tr.Turn)
		}
		if tr.Policy != string(policies[i]) {
			t.Fatalf("turn log row %d: expected %s, got %s", i, policies[i], tr.Policy)
		}
	}
}

func TestRecorderResetStartsNewGame(t *testing.T) {
	store := tempStore(t)
	sess := session.New(engine.NewSequenceSource(0), session.WithRecorder(NewRecorder(store)))
	sess.Play(engine.DoNothing)
	sess.Reset()
	sess.Play(engine.DoNothing)

	games, err := store.ListGames(10)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	versions, _ := store.ListVersions(sess.ID(), 10)
	if len(versions) != 2 {
		t.Fatalf("expected new game to have root + 1 turn, got %d", len(versions))
	}
}

func TestRecordTurnUnknownGame(t *testing.T) {
	r := NewRecorder(tempStore(t))
	if err := r.RecordTurn("missing", 1, engine.TurnResult{NewState: state.Initial()}); err == nil {
		t.Fatal("expected error for game that was never started")
	}
}

func TestRecordTurnLeavesNoSnapshotWhenLogFails(t *testing.T) {
	store := tempStore(t)
	r := NewRecorder(store)
	if err := r.StartGame("g", 1, state.Initial()); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	root, _ := store.Latest("g")

	if _, err := store.DB().Exec("DROP TABLE turn_log"); err != nil {
		t.Fatalf("drop turn_log: %v", err)
	}

	result, err := engine.ApplyTurn(state.Initial(), engine.DoNothing, 0)
	if err != nil {
		t.Fatalf("ApplyTurn: %v", err)
	}
	if err := r.RecordTurn("g", 1, result); err == nil {
		t.Fatal("expected error when turn_log is missing")
	}

	var count int
	if err := store.DB().QueryRow("SELECT COUNT(*) FROM state_versions WHERE game_id = 'g'").Scan(&count); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the root snapshot, found %d rows", count)
	}
	if r.heads["g"] != root.VersionID {
		t.Fatalf("head moved to %s after failed record", r.heads["g"])
	}
}
