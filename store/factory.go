package store

import (
	"fmt"
	"strings"
)

// Open creates a store based on the DSN.
//   - "memory": in-memory store (tests, throwaway runs)
//   - postgres:// or postgresql://: PostgreSQL with pgvector
//   - empty: SQLite at data/pressindex.db
//   - anything else: SQLite at the given path
func Open(dsn string, dimension int) (Store, error) {
	switch {
	case dsn == "memory":
		return NewMemoryStore(dimension), nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		s, err := NewPgStore(dsn, dimension)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	case dsn == "":
		return NewSQLiteStore("data/pressindex.db", dimension)
	default:
		return NewSQLiteStore(dsn, dimension)
	}
}
