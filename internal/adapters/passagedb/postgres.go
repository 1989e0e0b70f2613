package passagedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// PostgresStore implements ports.PassageStore on Postgres with the pgvector
// extension. Distance ordering runs inside the database via the <-> (L2)
// operator. Connections come from a pool and are held only for the duration
// of each operation.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgresStore connects to Postgres, ensures the vector extension and
// the companies table exist, and returns the store.
func NewPostgresStore(ctx context.Context, dsn string, dimension int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	store := &PostgresStore{
		pool:      pool,
		dimension: dimension,
	}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

// initSchema creates the vector extension and the companies table.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return err
	}
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS companies (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.dimension)
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// ResetAndLoad replaces all stored passages with the given set in one
// transaction. RESTART IDENTITY keeps ids aligned with insertion order
// across runs.
func (s *PostgresStore) ResetAndLoad(ctx context.Context, passages []entities.Passage) (int, error) {
	for _, p := range passages {
		if len(p.Embedding) != s.dimension {
			return 0, fmt.Errorf("%w: passage %q has %d dimensions, store expects %d",
				entities.ErrDimensionMismatch, p.Name, len(p.Embedding), s.dimension)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE companies RESTART IDENTITY"); err != nil {
		return 0, fmt.Errorf("clearing passages: %w", err)
	}

	for _, p := range passages {
		_, err := tx.Exec(ctx,
			"INSERT INTO companies (name, content, embedding) VALUES ($1, $2, $3)",
			p.Name, p.Text, pgvector.NewVector(p.Embedding),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting passage %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(passages), nil
}

// Nearest returns up to k passages by ascending L2 distance, ties by id.
func (s *PostgresStore) Nearest(ctx context.Context, vector []float32, k int) ([]entities.Match, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			entities.ErrDimensionMismatch, len(vector), s.dimension)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, content, embedding, embedding <-> $1 AS distance
		FROM companies
		ORDER BY embedding <-> $1, id
		LIMIT $2`,
		pgvector.NewVector(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var matches []entities.Match
	for rows.Next() {
		var p entities.Passage
		var emb pgvector.Vector
		var distance float64
		if err := rows.Scan(&p.ID, &p.Name, &p.Text, &emb, &distance); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		p.Embedding = emb.Slice()
		matches = append(matches, entities.Match{Passage: p, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return matches, nil
}

// Count returns the number of stored passages.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&count)
	return count, err
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
