package logging

import "time"

// #region turn-entry
// TurnEntry is a single row in the turn_log table: the inputs and outcome of
// one accepted turn, keyed by the snapshot it produced.
type TurnEntry struct {
	VersionID   string
	GameID      string
	Turn        int    // turn number the move was played on
	Policy      string // "borrow" | "austerity" | "nothing"
	Shock       int
	Status      string // "in_progress" | "default" | "complete"
	DebtService float64
	CreatedAt   time.Time
}

// #endregion turn-entry
