package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region views
// GameView is the decoded form of a NewGame/GetState/Reset/PlayTurn response.
type GameView struct {
	GameID      string              `json:"game_id"`
	Status      engine.Status       `json:"status"`
	State       state.EconomicState `json:"state"`
	Shock       engine.Shock        `json:"shock,omitempty"`
	DebtService float64             `json:"debt_service,omitempty"`
}

type newGameRequest struct {
	Seed int64 `json:"seed,omitempty,string"` // string: structpb numbers are float64
}

type gameRequest struct {
	GameID string `json:"game_id"`
}

type playRequest struct {
	GameID string `json:"game_id"`
	Policy string `json:"policy"`
}

// #endregion views

// #region struct-helpers
// toStruct encodes any JSON-tagged value as a structpb.Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return structpb.NewStruct(payload)
}

// fromStruct decodes a structpb.Struct into a JSON-tagged value.
func fromStruct(s *structpb.Struct, v interface{}) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// #endregion struct-helpers
