package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// timestampLayout is fixed width and always UTC, so stored timestamps
// compare correctly as strings on both SQLite and PostgreSQL.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

const insertMessageSQL = `
	INSERT INTO outbox (
		event_id, aggregate_type, aggregate_id, event_type, routing_key,
		payload, metadata, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

const selectMessageColumns = `
	SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at, retry_count,
	       last_error, dead_lettered_at, dead_letter_reason
	FROM outbox`

// SQLRepository implements Repository on any database.Connection.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates a new SQL-backed outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

// Save stores a new outbox message.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	return r.insert(ctx, database.ExecutorFromContext(ctx, r.conn), msg)
}

// SaveBatch stores multiple outbox messages atomically. It joins the
// transaction in ctx when there is one.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	uow := database.NewUnitOfWork(r.conn)
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	exec := database.ExecutorFromContext(txCtx, r.conn)
	for _, msg := range msgs {
		if err := r.insert(txCtx, exec, msg); err != nil {
			_ = uow.Rollback(txCtx)
			return err
		}
	}

	return uow.Commit(txCtx)
}

func (r *SQLRepository) insert(ctx context.Context, exec database.Executor, msg *Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.now()
	}
	var metadata sql.NullString
	if len(msg.Metadata) > 0 {
		metadata = sql.NullString{String: string(msg.Metadata), Valid: true}
	}

	err := exec.QueryRow(ctx, insertMessageSQL,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		formatTimestamp(msg.CreatedAt),
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("insert outbox message %s: %w", msg.EventID, err)
	}
	return nil
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := selectMessageColumns + `
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`

	return r.query(ctx, query, formatTimestamp(r.now()), limit)
}

// MarkPublished marks a message as successfully published.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`,
		formatTimestamp(r.now()), id)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1,
			last_error = ?,
			next_retry_at = ?
		WHERE id = ?`,
		errMsg, formatTimestamp(nextRetryAt), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		UPDATE outbox
		SET dead_lettered_at = ?,
			dead_letter_reason = ?
		WHERE id = ?`,
		formatTimestamp(r.now()), reason, id)
	return err
}

const backlogSQL = `
	SELECT
		COALESCE(SUM(CASE WHEN published_at IS NULL AND dead_lettered_at IS NULL AND retry_count = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN published_at IS NULL AND dead_lettered_at IS NULL AND retry_count > 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN dead_lettered_at IS NOT NULL THEN 1 ELSE 0 END), 0)
	FROM outbox`

// Backlog counts undelivered messages by state.
func (r *SQLRepository) Backlog(ctx context.Context) (Backlog, error) {
	var b Backlog
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, backlogSQL).Scan(&b.Pending, &b.Retrying, &b.Dead)
	if err != nil {
		return Backlog{}, fmt.Errorf("count outbox backlog: %w", err)
	}
	return b, nil
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < ?`,
		formatTimestamp(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg                                           Message
		eventID, payload, createdAt                   string
		metadata, publishedAt, nextRetryAt, lastError sql.NullString
		deadLetteredAt, deadLetterReason              sql.NullString
	)

	err := row.Scan(
		&msg.ID,
		&eventID,
		&msg.AggregateType,
		&msg.AggregateID,
		&msg.EventType,
		&msg.RoutingKey,
		&payload,
		&metadata,
		&createdAt,
		&publishedAt,
		&nextRetryAt,
		&msg.RetryCount,
		&lastError,
		&deadLetteredAt,
		&deadLetterReason,
	)
	if err != nil {
		return nil, err
	}

	msg.EventID, _ = uuid.Parse(eventID)
	msg.Payload = json.RawMessage(payload)
	msg.CreatedAt = parseTimestamp(createdAt)
	if metadata.Valid {
		msg.Metadata = json.RawMessage(metadata.String)
	}
	msg.PublishedAt = nullTime(publishedAt)
	msg.NextRetryAt = nullTime(nextRetryAt)
	msg.DeadLetteredAt = nullTime(deadLetteredAt)
	if lastError.Valid {
		msg.LastError = &lastError.String
	}
	if deadLetterReason.Valid {
		msg.DeadLetterReason = &deadLetterReason.String
	}

	return &msg, nil
}

func nullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTimestamp(s.String)
	return &t
}
