package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by the stores.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// FeedEvent is a row of feed_events. CreatedAt is unix nanoseconds.
type FeedEvent struct {
	ID        int64
	Kind      string
	MessageID string
	Severity  string
	Summary   string
	Detail    string
	CreatedAt int64
}

type InsertEventParams struct {
	Kind      string
	MessageID string
	Severity  string
	Summary   string
	Detail    string
	CreatedAt int64
}

const insertEvent = `
INSERT INTO feed_events (kind, message_id, severity, summary, detail, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) InsertEvent(ctx context.Context, arg InsertEventParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertEvent,
		arg.Kind,
		arg.MessageID,
		arg.Severity,
		arg.Summary,
		arg.Detail,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

// Ties on created_at fall back to insertion order so newest-first is stable.
const listEvents = `
SELECT id, kind, message_id, severity, summary, detail, created_at
FROM feed_events
ORDER BY created_at DESC, id DESC
LIMIT ?`

// ListEvents returns up to limit rows, newest first. A negative limit means
// no limit in SQLite.
func (q *Queries) ListEvents(ctx context.Context, limit int64) ([]FeedEvent, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []FeedEvent
	for rows.Next() {
		var i FeedEvent
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.MessageID,
			&i.Severity,
			&i.Summary,
			&i.Detail,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEvents = `SELECT COUNT(*) FROM feed_events`

func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEvents).Scan(&count)
	return count, err
}

const deleteAllEvents = `DELETE FROM feed_events`

func (q *Queries) DeleteAllEvents(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllEvents)
	return err
}

const deleteEventsBefore = `DELETE FROM feed_events WHERE created_at < ?`

func (q *Queries) DeleteEventsBefore(ctx context.Context, createdAt int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEventsBefore, createdAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
