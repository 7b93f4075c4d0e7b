// Package ledger records games played through a session into the SQLite
// snapshot store and turn log.
package ledger

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/logging"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// Recorder implements session.Recorder on top of a state.Store.
type Recorder struct {
	store *state.Store

	mu    sync.Mutex
	heads map[string]string // game ID → latest version ID
}

// NewRecorder returns a recorder writing to store.
func NewRecorder(store *state.Store) *Recorder {
	return &Recorder{store: store, heads: make(map[string]string)}
}

// StartGame records the game and its root snapshot.
func (r *Recorder) StartGame(gameID string, seed int64, initial state.EconomicState) error {
	rec, err := r.store.StartGame(gameID, seed, initial)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	r.mu.Lock()
	r.heads[gameID] = rec.VersionID
	r.mu.Unlock()
	return nil
}

// RecordTurn appends the post-turn snapshot and its provenance row in one
// transaction. The head only advances once both are committed.
func (r *Recorder) RecordTurn(gameID string, playedTurn int, result engine.TurnResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent, ok := r.heads[gameID]
	if !ok {
		return fmt.Errorf("record turn: game %s was not started on this recorder", gameID)
	}

	rec := state.StateRecord{
		VersionID: uuid.New().String(),
		ParentID:  parent,
		GameID:    gameID,
		State:     result.NewState,
		CreatedAt: time.Now().UTC(),
	}
	entry := logging.TurnEntry{
		VersionID:   rec.VersionID,
		GameID:      gameID,
		Turn:        playedTurn,
		Policy:      string(result.Policy),
		Shock:       int(result.ShockApplied),
		Status:      string(result.Status),
		DebtService: result.DebtService,
		CreatedAt:   rec.CreatedAt,
	}
	err := r.store.CommitTurn(rec, func(tx *sql.Tx) error {
		return logging.LogTurn(tx, entry)
	})
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	r.heads[gameID] = rec.VersionID
	return nil
}
