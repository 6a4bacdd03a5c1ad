package handlers

import (
	"context"

	"github.com/ersonp/legends-core/internal/domain/entities"
	"github.com/ersonp/legends-core/internal/domain/ports"
)

// StatsHandler reports what an imported database contains.
type StatsHandler struct {
	store ports.Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store ports.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// Stats is a snapshot of the imported database.
type Stats struct {
	Path   string
	World  *entities.World
	Counts map[string]int64
}

// Handle reads the world record and per-table row counts.
func (h *StatsHandler) Handle(ctx context.Context) (*Stats, error) {
	if err := h.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	world, err := h.store.WorldInfo(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := h.store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Path:   h.store.Path(),
		World:  world,
		Counts: counts,
	}, nil
}
