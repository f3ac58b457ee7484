package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const byDateCacheSize = 256

// pgUniqueViolation is the Postgres error code for unique constraint hits.
const pgUniqueViolation = "23505"

// PostgresStore persists records in Postgres through the pgx stdlib driver.
// By-date reads are served from an LRU cache invalidated on writes.
type PostgresStore struct {
	db     *sql.DB
	byDate *lru.Cache[string, []Record]

	loc *time.Location
	now func() time.Time
}

// NewPostgres opens a connection with the given DSN and bootstraps the
// schema.
func NewPostgres(dsn string, opts Options) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	cache, err := lru.New[string, []Record](byDateCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &PostgresStore{
		db:     db,
		byDate: cache,
		loc:    opts.location(),
		now:    opts.clock(),
	}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dockerfiles (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			created_date TEXT NOT NULL,
			created_time TEXT NOT NULL,
			created_timestamp TEXT NOT NULL,
			timezone TEXT NOT NULL,
			UNIQUE (name, created_date, created_time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_created_date ON dockerfiles (created_date)`,
		`CREATE INDEX IF NOT EXISTS idx_name ON dockerfiles (name)`,
		`CREATE INDEX IF NOT EXISTS idx_name_date ON dockerfiles (name, created_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, name, content string) (Record, error) {
	if name == "" {
		return Record{}, ErrEmptyName
	}

	date, timeOfDay, timestamp, tz := stamp(s.now(), s.loc)
	rec := Record{
		Name:             name,
		Content:          content,
		CreatedDate:      date,
		CreatedTime:      timeOfDay,
		CreatedTimestamp: timestamp,
		Timezone:         tz,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO dockerfiles (name, content, created_date, created_time, created_timestamp, timezone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		name, content, date, timeOfDay, timestamp, tz,
	).Scan(&rec.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Record{}, ErrDuplicate
		}
		return Record{}, fmt.Errorf("failed to store dockerfile: %w", err)
	}

	s.byDate.Remove(date)
	return rec, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]Record, error) {
	return s.queryRecords(ctx,
		`SELECT id, name, content, created_date, created_time, created_timestamp, timezone
		 FROM dockerfiles
		 ORDER BY created_timestamp DESC`)
}

func (s *PostgresStore) ByDate(ctx context.Context, date string) ([]Record, error) {
	if cached, ok := s.byDate.Get(date); ok {
		return cached, nil
	}
	records, err := s.queryRecords(ctx,
		`SELECT id, name, content, created_date, created_time, created_timestamp, timezone
		 FROM dockerfiles
		 WHERE created_date = $1
		 ORDER BY created_time ASC`, date)
	if err != nil {
		return nil, err
	}
	s.byDate.Add(date, records)
	return records, nil
}

func (s *PostgresStore) ByDateAndName(ctx context.Context, date, name string) (Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, content, created_date, created_time, created_timestamp, timezone
		 FROM dockerfiles
		 WHERE created_date = $1 AND name = $2
		 ORDER BY created_time DESC
		 LIMIT 1`, date, name,
	).Scan(&rec.ID, &rec.Name, &rec.Content, &rec.CreatedDate, &rec.CreatedTime, &rec.CreatedTimestamp, &rec.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to query dockerfile: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Dates(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx,
		`SELECT DISTINCT created_date FROM dockerfiles ORDER BY created_date DESC`)
}

func (s *PostgresStore) NamesByDate(ctx context.Context, date string) ([]string, error) {
	return s.queryStrings(ctx,
		`SELECT DISTINCT name FROM dockerfiles WHERE created_date = $1 ORDER BY name ASC`, date)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dockerfiles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete dockerfile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	s.byDate.Purge()
	return affected > 0, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT created_date), COUNT(DISTINCT name) FROM dockerfiles`,
	).Scan(&stats.TotalDockerfiles, &stats.UniqueDates, &stats.UniqueNames)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query statistics: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dockerfiles: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Content, &rec.CreatedDate, &rec.CreatedTime, &rec.CreatedTimestamp, &rec.Timezone); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dockerfiles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
