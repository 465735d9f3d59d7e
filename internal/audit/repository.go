// Package audit records operator interactions with wire boards and
// queries that history.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sources an entry may come from.
const (
	SourceAPI  = "api"
	SourceMQTT = "mqtt"
)

// ActionTogglePanel is recorded for maintenance panel toggles.
const ActionTogglePanel = "toggle_panel"

// Entry is a single interaction record. WireID is 0 for panel toggles.
type Entry struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Operator  string    `json:"operator"`
	Action    string    `json:"action"`
	WireID    int       `json:"wire_id,omitempty"`
	OK        bool      `json:"ok"`
	Feedback  string    `json:"feedback,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter controls which entries to return.
type Filter struct {
	BoardID  string // optional: filter by board
	Operator string // optional: filter by operator
	Action   string // optional: cut, mend, pulse, toggle_panel
	Limit    int    // default 50, max 200
	Offset   int    // pagination offset
}

// ListResult contains the paginated entries.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the interface for interaction history.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts an entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = "aud-" + uuid.NewString()[:8]
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	ok := 0
	if e.OK {
		ok = 1
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wire_audit_logs (id, board_id, operator, action, wire_id, ok, feedback, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BoardID, e.Operator, e.Action,
		nullableInt(e.WireID), ok, nullableString(e.Feedback),
		e.Source, e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// List returns entries matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) { //nolint:gocognit // dynamic query builder
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.BoardID != "" {
		conditions = append(conditions, "board_id = ?")
		args = append(args, filter.BoardID)
	}
	if filter.Operator != "" {
		conditions = append(conditions, "operator = ?")
		args = append(args, filter.Operator)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM wire_audit_logs %s", where) //nolint:gosec // WHERE built from parameterised conditions
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions
		"SELECT id, board_id, operator, action, wire_id, ok, feedback, source, created_at FROM wire_audit_logs %s ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			wireID    sql.NullInt64
			ok        int
			feedback  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.BoardID, &e.Operator, &e.Action,
			&wireID, &ok, &feedback, &e.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.WireID = int(wireID.Int64)
		e.OK = ok == 1
		e.Feedback = feedback.String

		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", createdAt, err)
		}
		e.CreatedAt = t

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}
