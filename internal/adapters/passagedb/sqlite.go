package passagedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements ports.PassageStore with SQLite-based persistence.
// Embeddings are stored as JSON blobs and ranked in Go; fine for a catalog
// of hundreds of companies, swap in the Postgres backend past that.
type SQLiteStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	dimension int
}

// NewSQLiteStore creates a persistent passage store under dataPath.
func NewSQLiteStore(dataPath string, dimension int) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "passages.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{
		db:        db,
		dimension: dimension,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

// initSchema creates the passages table.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ResetAndLoad replaces all stored passages with the given set.
// Runs in one transaction, so readers observe either the old or the new
// index, never a mixture.
func (s *SQLiteStore) ResetAndLoad(ctx context.Context, passages []entities.Passage) (int, error) {
	for _, p := range passages {
		if len(p.Embedding) != s.dimension {
			return 0, fmt.Errorf("%w: passage %q has %d dimensions, store expects %d",
				entities.ErrDimensionMismatch, p.Name, len(p.Embedding), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM companies"); err != nil {
		return 0, fmt.Errorf("clearing passages: %w", err)
	}
	// Restart ids at 1 so insertion order and id order stay aligned across runs.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'companies'"); err != nil {
		return 0, fmt.Errorf("resetting id sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO companies (name, content, embedding) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range passages {
		embeddingJSON, err := json.Marshal(p.Embedding)
		if err != nil {
			return 0, fmt.Errorf("encoding embedding: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.Name, p.Text, embeddingJSON); err != nil {
			return 0, fmt.Errorf("inserting passage %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(passages), nil
}

// Nearest returns up to k passages by ascending L2 distance, ties by id.
func (s *SQLiteStore) Nearest(ctx context.Context, vector []float32, k int) ([]entities.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content, embedding FROM companies ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var matches []entities.Match
	for rows.Next() {
		var p entities.Passage
		var embeddingJSON []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Text, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal(embeddingJSON, &p.Embedding); err != nil {
			continue // skip corrupted embeddings
		}
		if len(p.Embedding) != len(vector) {
			return nil, fmt.Errorf("%w: stored passage %d has %d dimensions, query has %d",
				entities.ErrDimensionMismatch, p.ID, len(p.Embedding), len(vector))
		}
		matches = append(matches, entities.Match{
			Passage:  p,
			Distance: l2Distance(vector, p.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	// SortStable keeps the id tie-break from the ORDER BY id scan.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of stored passages.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
