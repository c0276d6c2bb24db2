package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sixtysix/internal/notify"
)

// Cancel deletes pending notifications by identifier. Unknown identifiers are
// ignored.
func (s *Store) Cancel(ctx context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(identifiers)), ", ")
	args := make([]any, len(identifiers))
	for i, id := range identifiers {
		args[i] = id
	}

	query := s.Dialect.Rebind(`DELETE FROM pending_notifications WHERE identifier IN (` + placeholders + `)`)
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}
	return nil
}

// Add inserts req or overwrites the request with the same identifier.
func (s *Store) Add(ctx context.Context, req notify.Request) error {
	query := s.Dialect.Rebind(`
		INSERT INTO pending_notifications (identifier, title, body, trigger_kind, hour, minute, fire_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (identifier) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			trigger_kind = excluded.trigger_kind,
			hour = excluded.hour,
			minute = excluded.minute,
			fire_at = excluded.fire_at,
			updated_at = excluded.updated_at`)

	_, err := s.DB.ExecContext(ctx, query,
		req.Identifier, req.Title, req.Body, string(req.Trigger.Kind),
		req.Trigger.Hour, req.Trigger.Minute, formatNullTime(req.Trigger.At), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to add notification %s: %w", req.Identifier, err)
	}
	return nil
}

func (s *Store) Pending(ctx context.Context) ([]notify.Request, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT identifier, title, body, trigger_kind, hour, minute, fire_at
		FROM pending_notifications ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	reqs := []notify.Request{}
	for rows.Next() {
		var req notify.Request
		var kind string
		var fireAt sql.NullString
		if err := rows.Scan(&req.Identifier, &req.Title, &req.Body, &kind,
			&req.Trigger.Hour, &req.Trigger.Minute, &fireAt); err != nil {
			return nil, err
		}
		req.Trigger.Kind = notify.TriggerKind(kind)
		if req.Trigger.At, err = parseNullTime("fire_at", fireAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
