// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

// Store is a mock implementation of ports.Store. It records every written
// batch in order and keeps rows grouped per table.
type Store struct {
	SchemaErr error
	ClearErr  error
	WriteErr  error

	// Diags is returned from every WriteBatch call.
	Diags []entities.Diagnostic

	// Call tracking
	EnsureSchemaCallCount int
	ClearCallCount        int

	World   *entities.World
	Batches []Batch
	Rows    map[string][]any
}

// Batch is one recorded WriteBatch call.
type Batch struct {
	Table string
	Rows  []any
}

// NewStore creates a new mock Store.
func NewStore() *Store {
	return &Store{Rows: make(map[string][]any)}
}

// EnsureSchema returns the configured error.
func (m *Store) EnsureSchema(ctx context.Context) error {
	m.EnsureSchemaCallCount++
	return m.SchemaErr
}

// Clear returns the configured error.
func (m *Store) Clear(ctx context.Context) error {
	m.ClearCallCount++
	return m.ClearErr
}

// WriteWorld stores the world record.
func (m *Store) WriteWorld(ctx context.Context, world *entities.World) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.World = world
	return nil
}

// WriteBatch records the batch and returns the configured diagnostics.
func (m *Store) WriteBatch(ctx context.Context, table string, rows []any) (int, []entities.Diagnostic, error) {
	if m.WriteErr != nil {
		return 0, nil, m.WriteErr
	}
	m.Batches = append(m.Batches, Batch{Table: table, Rows: rows})
	m.Rows[table] = append(m.Rows[table], rows...)
	return len(rows), m.Diags, nil
}

// Counts returns the per-table row counts written so far.
func (m *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(m.Rows))
	for table, rows := range m.Rows {
		counts[table] = int64(len(rows))
	}
	return counts, nil
}

// WorldInfo returns the stored world record.
func (m *Store) WorldInfo(ctx context.Context) (*entities.World, error) {
	return m.World, nil
}

// Path returns a fixed placeholder path.
func (m *Store) Path() string { return "mock.db" }

// Close is a no-op.
func (m *Store) Close() error { return nil }
