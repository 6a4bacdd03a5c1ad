// Package ports defines the interfaces the domain services depend on.
package ports

import (
	"context"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

// Store defines the interface for the relational store the import pipeline
// writes into. Implementations must tolerate concurrent reads but writes
// arrive from a single goroutine.
type Store interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Clear empties every import table so a re-import starts from scratch.
	Clear(ctx context.Context) error

	// WriteWorld stores the singleton world record, replacing any previous one.
	WriteWorld(ctx context.Context, world *entities.World) error

	// WriteBatch inserts rows into table. A row that violates a constraint is
	// reported as a diagnostic and skipped; the rest of the batch commits.
	WriteBatch(ctx context.Context, table string, rows []any) (written int, diags []entities.Diagnostic, err error)

	// Counts returns the row count of every import table.
	Counts(ctx context.Context) (map[string]int64, error)

	// WorldInfo returns the stored world record, or nil when none was imported.
	WorldInfo(ctx context.Context) (*entities.World, error)

	// Path returns the location of the underlying database file.
	Path() string

	// Close closes the database connection.
	Close() error
}
