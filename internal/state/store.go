package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id       TEXT PRIMARY KEY,
	seed          INTEGER NOT NULL,
	started_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS state_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	game_id       TEXT NOT NULL,
	turn          INTEGER NOT NULL,
	year          INTEGER NOT NULL,
	state_json    TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES state_versions(version_id),
	FOREIGN KEY (game_id) REFERENCES games(game_id)
);

CREATE TABLE IF NOT EXISTS turn_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	version_id    TEXT NOT NULL,
	game_id       TEXT NOT NULL,
	turn          INTEGER NOT NULL,
	policy        TEXT NOT NULL,
	shock         INTEGER NOT NULL,
	status        TEXT NOT NULL,
	debt_service  REAL NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES state_versions(version_id)
);
`

// #endregion schema

// #region store-struct
// Store is an append-only SQLite ledger of game snapshots.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	// foreign_keys is per-connection; the DSN pragma covers pooled connections too.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #region start-game
// StartGame registers a new game and records its initial snapshot as the root version.
func (s *Store) StartGame(gameID string, seed int64, initial EconomicState) (StateRecord, error) {
	if gameID == "" {
		gameID = uuid.New().String()
	}
	now := time.Now().UTC()
	rec := StateRecord{
		VersionID: uuid.New().String(),
		GameID:    gameID,
		State:     initial.Clone(),
		CreatedAt: now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return StateRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO games (game_id, seed, started_at) VALUES (?, ?, ?)`,
		gameID, seed, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return StateRecord{}, fmt.Errorf("insert game: %w", err)
	}
	if err := insertVersion(tx, rec); err != nil {
		return StateRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return StateRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion start-game

// #region commit-state
// CommitState appends a snapshot to its game's chain.
func (s *Store) CommitState(rec StateRecord) error {
	return s.CommitTurn(rec, nil)
}

// CommitTurn appends a snapshot and runs withTx in the same transaction.
// If withTx fails nothing is written.
func (s *Store) CommitTurn(rec StateRecord, withTx func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertVersion(tx, rec); err != nil {
		return err
	}
	if withTx != nil {
		if err := withTx(tx); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertVersion(tx *sql.Tx, rec StateRecord) error {
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	var parentPtr interface{}
	if rec.ParentID != "" {
		parentPtr = rec.ParentID
	}

	_, err = tx.Exec(
		`INSERT INTO state_versions (version_id, parent_id, game_id, turn, year, state_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.VersionID, parentPtr, rec.GameID, rec.State.Turn, rec.State.Year,
		string(stateJSON), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

// #endregion commit-state

// #region get-version
// GetVersion retrieves a specific snapshot by version ID.
func (s *Store) GetVersion(id string) (StateRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, game_id, state_json, created_at
		 FROM state_versions WHERE version_id = ?`, id,
	)
	rec, err := scanVersion(row)
	if err != nil {
		return StateRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// Latest returns the most recent snapshot recorded for a game.
func (s *Store) Latest(gameID string) (StateRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, game_id, state_json, created_at
		 FROM state_versions WHERE game_id = ? ORDER BY rowid DESC LIMIT 1`, gameID,
	)
	rec, err := scanVersion(row)
	if err != nil {
		return StateRecord{}, fmt.Errorf("latest for game %s: %w", gameID, err)
	}
	return rec, nil
}

// Root returns the initial snapshot of a game.
func (s *Store) Root(gameID string) (StateRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, game_id, state_json, created_at
		 FROM state_versions WHERE game_id = ? AND parent_id IS NULL LIMIT 1`, gameID,
	)
	rec, err := scanVersion(row)
	if err != nil {
		return StateRecord{}, fmt.Errorf("root for game %s: %w", gameID, err)
	}
	return rec, nil
}

// #endregion get-version

// #region list-versions
// ListVersions returns a game's most recent limit snapshots in chronological order.
func (s *Store) ListVersions(gameID string, limit int) ([]StateRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, game_id, state_json, created_at
		 FROM state_versions WHERE game_id = ? ORDER BY rowid DESC LIMIT ?`, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []StateRecord
	for rows.Next() {
		rec, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Store returns DESC, reverse for chronological
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// #endregion list-versions

// #region list-games
// ListGames returns the most recently started games first.
func (s *Store) ListGames(limit int) ([]GameRecord, error) {
	rows, err := s.db.Query(
		`SELECT game_id, seed, started_at FROM games ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var startedStr string
		if err := rows.Scan(&g.GameID, &g.Seed, &startedStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		g.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		games = append(games, g)
	}
	return games, rows.Err()
}

// GetGame looks up a single game.
func (s *Store) GetGame(gameID string) (GameRecord, error) {
	var g GameRecord
	var startedStr string
	err := s.db.QueryRow(
		`SELECT game_id, seed, started_at FROM games WHERE game_id = ?`, gameID,
	).Scan(&g.GameID, &g.Seed, &startedStr)
	if err != nil {
		return GameRecord{}, fmt.Errorf("get game %s: %w", gameID, err)
	}
	g.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	return g, nil
}

// #endregion list-games

// #region scan-helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row scanner) (StateRecord, error) {
	var rec StateRecord
	var parentID sql.NullString
	var stateJSON string
	var createdStr string

	if err := row.Scan(&rec.VersionID, &parentID, &rec.GameID, &stateJSON, &createdStr); err != nil {
		return StateRecord{}, err
	}
	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return StateRecord{}, fmt.Errorf("unmarshal state: %w", err)
	}
	if rec.State.History == nil {
		rec.State.History = []HistoryEntry{}
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// #endregion scan-helpers
