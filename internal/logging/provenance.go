package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// #region log-turn
// LogTurn writes a provenance entry to the turn_log table. Pass the *sql.Tx
// that commits the snapshot so both rows land together.
func LogTurn(db Execer, entry TurnEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO turn_log (version_id, game_id, turn, policy, shock, status, debt_service, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.VersionID,
		entry.GameID,
		entry.Turn,
		entry.Policy,
		entry.Shock,
		entry.Status,
		entry.DebtService,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log turn: %w", err)
	}
	return nil
}

// #endregion log-turn

// #region list-turns
// ListTurns returns a game's turn log in the order the turns were played.
func ListTurns(db *sql.DB, gameID string) ([]TurnEntry, error) {
	rows, err := db.Query(
		`SELECT version_id, game_id, turn, policy, shock, status, debt_service, created_at
		 FROM turn_log WHERE game_id = ? ORDER BY id ASC`, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var entries []TurnEntry
	for rows.Next() {
		var e TurnEntry
		var createdStr string
		if err := rows.Scan(&e.VersionID, &e.GameID, &e.Turn, &e.Policy, &e.Shock, &e.Status, &e.DebtService, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-turns
