package database

import (
	"context"
	"fmt"
	"time"

	"go-dgpa-watcher/internal/dedup"
	"go-dgpa-watcher/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Connection poolers in transaction mode do not support prepared statements,
	// so the statement cache stays off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	id              BIGSERIAL PRIMARY KEY,
	fingerprint     TEXT NOT NULL UNIQUE,
	keyword         TEXT NOT NULL,
	title           TEXT NOT NULL,
	organization    TEXT NOT NULL,
	job_family      TEXT NOT NULL,
	rank_range      TEXT NOT NULL,
	work_location   TEXT NOT NULL,
	validity_period TEXT NOT NULL,
	remarks         TEXT NOT NULL,
	partial         BOOLEAN NOT NULL DEFAULT FALSE,
	first_seen_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_seen_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS runs (
	id         BIGSERIAL PRIMARY KEY,
	keyword    TEXT NOT NULL,
	postings   INTEGER NOT NULL,
	unparsed   INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// EnsureSchema creates the tables on first use.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// ---------------- POSTING OPERATIONS ----------------

// SavePosting inserts a posting or refreshes last_seen_at of an existing one (based on fingerprint)
func (r *Repository) SavePosting(ctx context.Context, p models.JobPosting, keyword string) (*models.PostingRecord, error) {
	query := `
		INSERT INTO postings (fingerprint, keyword, title, organization, job_family, rank_range, work_location, validity_period, remarks, partial)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (fingerprint)
		DO UPDATE SET rank_range = EXCLUDED.rank_range, remarks = EXCLUDED.remarks, partial = EXCLUDED.partial, last_seen_at = NOW()
		RETURNING id, first_seen_at, last_seen_at`

	rec := &models.PostingRecord{
		Fingerprint: dedup.Fingerprint(p),
		Keyword:     keyword,
		Posting:     p,
	}
	err := r.db.QueryRow(ctx, query, rec.Fingerprint, keyword, p.Title, p.Organization, p.JobFamily,
		p.RankRange, p.WorkLocation, p.ValidityPeriod, p.Remarks, p.Partial).
		Scan(&rec.ID, &rec.FirstSeenAt, &rec.LastSeenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save posting: %w", err)
	}

	return rec, nil
}

// ---------------- RUN OPERATIONS ----------------

// RecordRun stores the counts of one extraction
func (r *Repository) RecordRun(ctx context.Context, keyword string, postings, unparsed int) (*models.Run, error) {
	run := &models.Run{Keyword: keyword, Postings: postings, Unparsed: unparsed}
	err := r.db.QueryRow(ctx,
		"INSERT INTO runs (keyword, postings, unparsed) VALUES ($1, $2, $3) RETURNING id, created_at",
		keyword, postings, unparsed).
		Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}
