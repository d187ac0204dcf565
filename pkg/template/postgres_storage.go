package template

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kstorelabs/notify/pkg/notification"
	"github.com/kstorelabs/notify/pkg/pg"
)

// PostgresStore is the production Store implementation backed by the
// notification_templates table (see internal/db/migrations).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed template store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const templateColumns = `id, name, type, channel, language, subject_template,
	content_template, active, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, t *Template) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Language == "" {
		t.Language = DefaultLanguage
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO notification_templates (`+templateColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		t.ID, t.Name, t.Type, t.Channel, t.Language, t.SubjectTemplate,
		t.ContentTemplate, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrTemplateExists
		}
		return fmt.Errorf("failed to insert template %q: %w", t.Name, err)
	}
	return nil
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM notification_templates
		WHERE name = $1 AND active`, name)
	return scanTemplate(row)
}

func (s *PostgresStore) Find(ctx context.Context, typ notification.Type, channel notification.Channel, language string) (*Template, error) {
	if language == "" {
		language = DefaultLanguage
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM notification_templates
		WHERE type = $1 AND channel = $2 AND lower(language) = lower($3) AND active
		ORDER BY created_at ASC
		LIMIT 1`,
		typ, channel, language)
	return scanTemplate(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+templateColumns+`
		FROM notification_templates
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var out []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return out, nil
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var t Template
	err := row.Scan(
		&t.ID, &t.Name, &t.Type, &t.Channel, &t.Language, &t.SubjectTemplate,
		&t.ContentTemplate, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}
	return &t, nil
}
