package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	GameID          string                  `json:"game_id,omitempty"`
	Seed            int64                   `json:"seed,omitempty"`
	StartState      *state.EconomicState    `json:"start_state,omitempty"` // nil means the initial snapshot
	Moves           []FixtureMove           `json:"moves"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureMove mirrors replay.Move with JSON tags.
type FixtureMove struct {
	TurnID string `json:"turn_id"`
	Policy string `json:"policy"`
	Shock  int    `json:"shock"`
}

// FixtureExpectedResult captures the expected action and status per move.
type FixtureExpectedResult struct {
	TurnID string `json:"turn_id"`
	Action string `json:"action"`
	Status string `json:"status"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// Start returns the fixture's starting snapshot.
func (f *Fixture) Start() state.EconomicState {
	if f.StartState == nil {
		return state.Initial()
	}
	return f.StartState.Clone()
}

// ToMoves converts fixture moves to domain moves. Policy names are not
// validated here; the engine rejects unknown ones during replay.
func (f *Fixture) ToMoves() []Move {
	moves := make([]Move, len(f.Moves))
	for i, m := range f.Moves {
		moves[i] = Move{
			TurnID: m.TurnID,
			Policy: engine.Policy(m.Policy),
			Shock:  engine.Shock(m.Shock),
		}
	}
	return moves
}

// #endregion fixture-loader
