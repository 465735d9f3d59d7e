package wires

import (
	"context"
	"database/sql"
	"fmt"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLiteLayoutRepository implements LayoutRepository using SQLite.
//
// A layout is stored as one wire_layouts row plus one wire_layout_entries
// row per wire. Inserting the wire_layouts row is the first-writer-wins
// point: a writer that finds the row already present returns the stored
// layout instead of its own.
type SQLiteLayoutRepository struct {
	db *sql.DB
}

// NewSQLiteLayoutRepository creates a new SQLite-backed layout repository.
func NewSQLiteLayoutRepository(db *sql.DB) *SQLiteLayoutRepository {
	return &SQLiteLayoutRepository{db: db}
}

// GetLayout retrieves the layout stored under id.
// Returns ErrLayoutNotFound if no layout exists.
func (r *SQLiteLayoutRepository) GetLayout(ctx context.Context, id string) (*Layout, error) {
	return getLayout(ctx, r.db, id)
}

// CreateLayout stores l under id unless a layout already exists.
// It returns the layout stored after the call.
func (r *SQLiteLayoutRepository) CreateLayout(ctx context.Context, id string, l *Layout) (*Layout, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	res, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO wire_layouts (id) VALUES (?)", id)
	if err != nil {
		return nil, fmt.Errorf("inserting layout: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking layout insert: %w", err)
	}
	if inserted == 0 {
		return getLayout(ctx, tx, id)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wire_layout_entries (layout_id, wire_key, color, letter, position)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing layout entries: %w", err)
	}
	defer stmt.Close()

	for key, e := range l.Entries {
		if _, err := stmt.ExecContext(ctx, id, string(key), e.Color.String(), e.Letter.String(), e.Position); err != nil {
			return nil, fmt.Errorf("inserting layout entry %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing layout: %w", err)
	}
	return l.Clone(), nil
}

// DeleteLayout removes a stored layout so the next build captures a new one.
// Returns ErrLayoutNotFound if no layout exists.
func (r *SQLiteLayoutRepository) DeleteLayout(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wire_layouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking layout delete: %w", err)
	}
	if n == 0 {
		return ErrLayoutNotFound
	}
	return nil
}

// ListLayoutIDs returns every stored layout id in lexical order.
func (r *SQLiteLayoutRepository) ListLayoutIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM wire_layouts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying layouts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning layout id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layouts: %w", err)
	}
	return ids, nil
}

func getLayout(ctx context.Context, q queryer, id string) (*Layout, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT l.id, e.wire_key, e.color, e.letter, e.position
		FROM wire_layouts l
		LEFT JOIN wire_layout_entries e ON e.layout_id = l.id
		WHERE l.id = ?
		ORDER BY e.position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying layout: %w", err)
	}
	defer rows.Close()

	var layout *Layout
	for rows.Next() {
		var (
			layoutID           string
			key, color, letter sql.NullString
			position           sql.NullInt64
		)
		if err := rows.Scan(&layoutID, &key, &color, &letter, &position); err != nil {
			return nil, fmt.Errorf("scanning layout entry: %w", err)
		}
		if layout == nil {
			layout = &Layout{Entries: make(map[Key]LayoutEntry)}
		}
		if !key.Valid {
			continue
		}

		e := LayoutEntry{Position: int(position.Int64)}
		if e.Color, err = ParseColor(color.String); err != nil {
			return nil, fmt.Errorf("layout %q entry %q: %w", id, key.String, err)
		}
		if e.Letter, err = ParseLetter(letter.String); err != nil {
			return nil, fmt.Errorf("layout %q entry %q: %w", id, key.String, err)
		}
		layout.Entries[Key(key.String)] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layout entries: %w", err)
	}
	if layout == nil {
		return nil, ErrLayoutNotFound
	}
	return layout, nil
}

var _ LayoutRepository = (*SQLiteLayoutRepository)(nil)
