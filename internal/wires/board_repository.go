package wires

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// BoardRepository persists the fields of a board that must survive a
// restart: name, serial number, wire seed and layout id.
type BoardRepository interface {
	// GetBoardState returns ErrBoardNotFound if id has never been saved.
	GetBoardState(ctx context.Context, id string) (BoardState, error)

	// SaveBoardState inserts or replaces the state stored under id.
	SaveBoardState(ctx context.Context, id string, s BoardState) error
}

// SQLiteBoardRepository implements BoardRepository using SQLite.
type SQLiteBoardRepository struct {
	db *sql.DB
}

// NewSQLiteBoardRepository creates a new SQLite-backed board repository.
func NewSQLiteBoardRepository(db *sql.DB) *SQLiteBoardRepository {
	return &SQLiteBoardRepository{db: db}
}

// GetBoardState retrieves the persisted state of a board.
func (r *SQLiteBoardRepository) GetBoardState(ctx context.Context, id string) (BoardState, error) {
	var (
		s        BoardState
		serial   sql.NullString
		layoutID sql.NullString
		seed     int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT board_name, serial_number, wire_seed, layout_id
		FROM wire_boards
		WHERE id = ?`, id).Scan(&s.BoardName, &serial, &seed, &layoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BoardState{}, ErrBoardNotFound
		}
		return BoardState{}, fmt.Errorf("querying board state: %w", err)
	}

	s.SerialNumber = serial.String
	s.LayoutID = layoutID.String
	s.WireSeed = uint64(seed) // #nosec G115 -- seeds are generated below MaxInt32
	return s, nil
}

// SaveBoardState inserts or replaces the persisted state of a board.
func (r *SQLiteBoardRepository) SaveBoardState(ctx context.Context, id string, s BoardState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wire_boards (id, board_name, serial_number, wire_seed, layout_id, updated_at)
		VALUES (?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(id) DO UPDATE SET
			board_name = excluded.board_name,
			serial_number = excluded.serial_number,
			wire_seed = excluded.wire_seed,
			layout_id = excluded.layout_id,
			updated_at = excluded.updated_at`,
		id,
		s.BoardName,
		nullString(s.SerialNumber),
		int64(s.WireSeed), // #nosec G115 -- seeds are generated below MaxInt32
		nullString(s.LayoutID),
	)
	if err != nil {
		return fmt.Errorf("saving board state: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ BoardRepository = (*SQLiteBoardRepository)(nil)
