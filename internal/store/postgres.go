package store

import (
	"context"
	"errors"
	"time"

	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for unique constraint failures.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS short_urls (
	id          UUID        PRIMARY KEY,
	short_code  TEXT        NOT NULL UNIQUE,
	target_url  TEXT        NOT NULL,
	clicks      BIGINT      NOT NULL DEFAULT 0 CHECK (clicks >= 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NULL
);

CREATE INDEX IF NOT EXISTS idx_short_urls_expires_at ON short_urls (expires_at);
`

const selectColumns = `id, short_code, target_url, clicks, created_at, expires_at`

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the short_urls table and its indexes when missing.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)

	return err
}

func (p *PostgresStore) Create(ctx context.Context, link *shortener.NewLink) (*shortener.ShortLink, error) {
	query := `
		INSERT INTO short_urls (id, short_code, target_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + selectColumns

	row := p.pool.QueryRow(ctx, query,
		link.ID,
		string(link.Code),
		link.TargetURL,
		link.CreatedAt,
		link.ExpiresAt,
	)

	created, err := scanLink(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shortener.ErrConflict
		}

		return nil, err
	}

	return created, nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	query := `SELECT ` + selectColumns + ` FROM short_urls WHERE short_code = $1`

	link, err := scanLink(p.pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresStore) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `UPDATE short_urls SET clicks = clicks + 1 WHERE id = $1`, id)

	return err
}

func (p *PostgresStore) List(ctx context.Context) ([]*shortener.ShortLink, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+selectColumns+` FROM short_urls ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*shortener.ShortLink

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func (p *PostgresStore) DeleteByCode(ctx context.Context, code shortener.Code) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM short_urls WHERE short_code = $1`, string(code))

	return err
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM short_urls WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanLink(row pgx.Row) (*shortener.ShortLink, error) {
	var (
		link shortener.ShortLink
		code string
	)

	err := row.Scan(
		&link.ID,
		&code,
		&link.TargetURL,
		&link.Clicks,
		&link.CreatedAt,
		&link.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	link.Code = shortener.Code(code)

	return &link, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
