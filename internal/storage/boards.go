package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoSavedGame is returned by LoadBoard when no board is stored for a game.
var ErrNoSavedGame = errors.New("storage: no saved game")

// SavedGame is a resumable board: the flat row-major cells plus the move counter.
type SavedGame struct {
	GameID    string
	Board     []int
	Moves     int
	UpdatedAt time.Time
}

// SaveBoard stores the board for gameID, replacing any previous one.
func (s *Store) SaveBoard(gameID string, cells []int, moves int) error {
	data, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("storage: cannot encode board: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saved_games (game_id, board, moves, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id) DO UPDATE SET
		   board = excluded.board,
		   moves = excluded.moves,
		   updated_at = excluded.updated_at`,
		gameID, string(data), moves,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save board: %w", err)
	}
	return nil
}

// LoadBoard returns the stored board for gameID, or ErrNoSavedGame.
// The cells are returned as stored; validating them is the engine's job.
func (s *Store) LoadBoard(gameID string) (*SavedGame, error) {
	saved := &SavedGame{GameID: gameID}

	var data string
	var updatedAt any
	err := s.db.QueryRow(
		"SELECT board, moves, updated_at FROM saved_games WHERE game_id = ?",
		gameID,
	).Scan(&data, &saved.Moves, &updatedAt)
	if isNoRows(err) {
		return nil, ErrNoSavedGame
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load board: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &saved.Board); err != nil {
		return nil, fmt.Errorf("storage: cannot decode board for %s: %w", gameID, err)
	}
	saved.UpdatedAt = parseTime(updatedAt)

	return saved, nil
}

// DeleteBoard removes the stored board for gameID. Deleting a missing board is not an error.
func (s *Store) DeleteBoard(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM saved_games WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot delete board: %w", err)
	}
	return nil
}
