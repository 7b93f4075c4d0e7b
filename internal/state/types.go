package state

import "time"

// #region initial-values
const (
	InitialYear           = 2008
	InitialTurn           = 1
	InitialGDP            = 100.0
	InitialExternalDebt   = 40.0
	InitialFXReserves     = 20.0
	InitialExchangeRate   = 5.0
	InitialInflation      = 8.0
	InitialCommodityPrice = 100.0
	InitialPublicApproval = 60.0
)

// #endregion initial-values

// #region economic-state
// EconomicState is the complete simulation snapshot of the country's economy.
// Values are kept at full precision; rounding is left to front ends.
type EconomicState struct {
	Year           int            `json:"year"`
	Turn           int            `json:"turn"`
	GDP            float64        `json:"gdp"`
	ExternalDebt   float64        `json:"external_debt"`
	FXReserves     float64        `json:"fx_reserves"`
	ExchangeRate   float64        `json:"exchange_rate"` // local currency per USD
	Inflation      float64        `json:"inflation"`     // percent
	CommodityPrice float64        `json:"commodity_price"`
	PublicApproval float64        `json:"public_approval"`
	History        []HistoryEntry `json:"history"`
}

// HistoryEntry is the per-turn record appended by the turn engine.
type HistoryEntry struct {
	Year         int     `json:"year"`
	ExternalDebt float64 `json:"debt"`
	GDP          float64 `json:"gdp"`
}

// Initial returns the fixed starting snapshot.
func Initial() EconomicState {
	return EconomicState{
		Year:           InitialYear,
		Turn:           InitialTurn,
		GDP:            InitialGDP,
		ExternalDebt:   InitialExternalDebt,
		FXReserves:     InitialFXReserves,
		ExchangeRate:   InitialExchangeRate,
		Inflation:      InitialInflation,
		CommodityPrice: InitialCommodityPrice,
		PublicApproval: InitialPublicApproval,
		History:        []HistoryEntry{},
	}
}

// Clone returns a deep copy. The history slice is never shared between snapshots.
func (s EconomicState) Clone() EconomicState {
	out := s
	out.History = make([]HistoryEntry, len(s.History))
	copy(out.History, s.History)
	return out
}

// #endregion economic-state

// #region state-record
// StateRecord is a ledger row: one committed snapshot of a game.
type StateRecord struct {
	VersionID string
	ParentID  string
	GameID    string
	State     EconomicState
	CreatedAt time.Time
}

// GameRecord describes one recorded game.
type GameRecord struct {
	GameID    string
	Seed      int64
	StartedAt time.Time
}

// #endregion state-record
