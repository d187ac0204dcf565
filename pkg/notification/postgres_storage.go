package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Store implementation backed by the
// notifications table (see internal/db/migrations). Atomic claims are done
// with conditional UPDATE ... RETURNING, so concurrent workers cannot both
// move the same row out of PENDING.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed notification store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const notificationColumns = `id, user_id, recipient, type, channel, subject, content,
	template_name, parameters, status, priority, scheduled_at, sent_at,
	delivery_attempts, max_attempts, error_message, external_message_id,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, n *Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		n.ID, n.UserID, n.Recipient, n.Type, n.Channel, n.Subject, n.Content,
		n.TemplateName, n.Parameters, n.Status, n.Priority, n.ScheduledAt, n.SentAt,
		n.DeliveryAttempts, n.MaxAttempts, n.ErrorMessage, n.ExternalMessageID,
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification %s: %w", n.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications WHERE id = $1`, id)
	return scanNotification(row)
}

func (s *PostgresStore) Update(ctx context.Context, n *Notification) error {
	n.UpdatedAt = time.Now()

	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications SET
			status = $2, sent_at = $3, delivery_attempts = $4,
			error_message = $5, external_message_id = $6, updated_at = $7
		WHERE id = $1`,
		n.ID, n.Status, n.SentAt, n.DeliveryAttempts,
		n.ErrorMessage, n.ExternalMessageID, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %w", n.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ClaimPending(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE notifications SET
			status = $2, delivery_attempts = delivery_attempts + 1, updated_at = now()
		WHERE id = $1 AND status = $3 AND delivery_attempts < max_attempts
		RETURNING `+notificationColumns,
		id, StatusProcessing, StatusPending)

	n, err := scanNotification(row)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Not claimable; report the current state so the caller can decide.
	current, getErr := s.Get(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return current, ErrNotClaimable
}

func (s *PostgresStore) Transition(ctx context.Context, id uuid.UUID, to Status, from ...Status) (*Notification, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE notifications SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING `+notificationColumns,
		id, to, statusStrings(from))

	n, err := scanNotification(row)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	current, getErr := s.Get(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return current, ErrInvalidTransition
}

func (s *PostgresStore) ListDue(ctx context.Context, now time.Time) ([]*Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY priority DESC, scheduled_at ASC`,
		StatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (s *PostgresStore) ListRetryable(ctx context.Context) ([]*Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status = $1 AND delivery_attempts < max_attempts
		ORDER BY priority DESC`,
		StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to list retryable notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(
		&n.ID, &n.UserID, &n.Recipient, &n.Type, &n.Channel, &n.Subject, &n.Content,
		&n.TemplateName, &n.Parameters, &n.Status, &n.Priority, &n.ScheduledAt, &n.SentAt,
		&n.DeliveryAttempts, &n.MaxAttempts, &n.ErrorMessage, &n.ExternalMessageID,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}
	return &n, nil
}

func scanNotifications(rows pgx.Rows) ([]*Notification, error) {
	var out []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return out, nil
}
