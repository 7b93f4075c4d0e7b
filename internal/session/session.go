// Package session owns one running game: it threads the economic state
// through successive engine transitions and notifies an optional recorder.
package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region recorder
// Recorder receives every new game and every accepted turn.
type Recorder interface {
	StartGame(gameID string, seed int64, initial state.EconomicState) error
	RecordTurn(gameID string, playedTurn int, result engine.TurnResult) error
}

// seeded is implemented by shock sources that can report their seed.
type seeded interface {
	Seed() int64
}

// #endregion recorder

// #region session-struct
// Session is the single writer of a game's state. Transitions are serialized.
type Session struct {
	mu       sync.Mutex
	id       string
	source   engine.ShockSource
	current  state.EconomicState
	status   engine.Status
	recorder Recorder
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder attaches a recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithID fixes the ID of the first game instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// #endregion session-struct

// #region constructor
// New starts a game at the initial snapshot.
func New(source engine.ShockSource, opts ...Option) *Session {
	s := &Session{source: source}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}
	s.begin()
	return s
}

// begin installs a fresh initial snapshot. Caller holds mu or owns s exclusively.
func (s *Session) begin() {
	s.current = state.Initial()
	s.status = engine.InProgress

	var seed int64
	if sd, ok := s.source.(seeded); ok {
		seed = sd.Seed()
	}
	s.logger.Info("game started", "game", s.id, "seed", seed)

	if s.recorder != nil {
		if err := s.recorder.StartGame(s.id, seed, s.current.Clone()); err != nil {
			s.logger.Error("record game start", "game", s.id, "err", err)
		}
	}
}

// #endregion constructor

// #region accessors
// ID returns the current game's identifier. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns a copy of the current snapshot.
func (s *Session) State() state.EconomicState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Status returns the game's position in the turn state machine.
func (s *Session) Status() engine.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// #endregion accessors

// #region play
// Play draws a shock and applies one turn with the given policy. A rejected
// turn leaves the session untouched and consumes no shock.
func (s *Session) Play(policy engine.Policy) (engine.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		s.logger.Warn("turn rejected", "game", s.id, "status", s.status)
		return engine.TurnResult{}, fmt.Errorf("%w: game is %s", engine.ErrInvalidTransition, s.status)
	}
	if _, err := engine.ParsePolicy(string(policy)); err != nil {
		return engine.TurnResult{}, err
	}

	playedTurn := s.current.Turn
	result, err := engine.ApplyTurn(s.current, policy, s.source.Draw())
	if err != nil {
		return engine.TurnResult{}, err
	}

	s.current = result.NewState
	s.status = result.Status
	s.logger.Info("turn played",
		"game", s.id,
		"turn", playedTurn,
		"policy", policy,
		"shock", result.ShockApplied,
		"fx_reserves", result.NewState.FXReserves,
		"status", result.Status,
	)

	if s.recorder != nil {
		if err := s.recorder.RecordTurn(s.id, playedTurn, result); err != nil {
			s.logger.Error("record turn", "game", s.id, "turn", playedTurn, "err", err)
		}
	}

	result.NewState = result.NewState.Clone()
	return result, nil
}

// #endregion play

// #region reset
// Reset replaces the game wholesale with a new one at the initial snapshot.
// The shock source keeps its position; a reset game does not replay old draws.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("game reset", "game", s.id, "status", s.status)
	s.id = uuid.New().String()
	s.begin()
}

// #endregion reset
