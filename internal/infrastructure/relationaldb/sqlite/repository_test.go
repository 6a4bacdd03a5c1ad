package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/legends-core/internal/domain/entities"
	"github.com/ersonp/legends-core/internal/infrastructure/config"
)

// setupTestRepo creates a SQLite repository on a temp file for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "legends.db")})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func strp(s string) *string { return &s }
func intp(n int64) *int64   { return &n }

func TestNewRepository(t *testing.T) {
	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "legends.db")
		repo, err := NewRepository(config.SQLiteConfig{Path: path})
		require.NoError(t, err)
		defer repo.Close()
		assert.Equal(t, path, repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	for _, table := range allTables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}

	// idempotent
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestRepository_WriteBatch(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rows := []any{
		&entities.Region{Key: "r1", SourceID: 0, Name: strp("the plains of prestige"), Type: strp("Grassland")},
		&entities.Region{Key: "r2", SourceID: 1, Name: strp("the jungle of scars"), Type: strp("Forest")},
	}
	written, diags, err := repo.WriteBatch(ctx, entities.TableRegions, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Empty(t, diags)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entities.TableRegions])
}

func TestRepository_WriteBatch_NullableColumns(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rows := []any{
		&entities.HistoricalFigure{Key: "h1", SourceID: 100, Name: strp("urist"), BirthYear: intp(12)},
	}
	written, diags, err := repo.WriteBatch(ctx, entities.TableHistoricalFigures, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Empty(t, diags)

	var deathYear *int64
	err = repo.db.QueryRow(`SELECT death_year FROM historical_figures WHERE key='h1'`).Scan(&deathYear)
	require.NoError(t, err)
	assert.Nil(t, deathYear)
}

func TestRepository_WriteBatch_ConstraintIsolation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rows := []any{
		&entities.Region{Key: "r1", SourceID: 0, Name: strp("first")},
		&entities.Region{Key: "r2", SourceID: 0, Name: strp("duplicate source id")},
		&entities.Region{Key: "r3", SourceID: 1, Name: strp("kept")},
	}
	written, diags, err := repo.WriteBatch(ctx, entities.TableRegions, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	require.Len(t, diags, 1)
	assert.Equal(t, entities.DiagConstraintViolation, diags[0].Kind)
	assert.Equal(t, int64(0), diags[0].SourceID)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entities.TableRegions])
}

func TestRepository_WriteBatch_SiteUpsertMerges(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// base export contributes name and coords
	_, _, err := repo.WriteBatch(ctx, entities.TableSites, []any{
		&entities.Site{Key: "s1", SourceID: 7, Name: strp("boltedspire"), Type: strp("fortress"), Coords: strp("55,104")},
	})
	require.NoError(t, err)

	// plus export contributes the owning civ for the same source ID
	written, diags, err := repo.WriteBatch(ctx, entities.TableSites, []any{
		&entities.Site{Key: "s1", SourceID: 7, CivKey: strp("e1")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Empty(t, diags)

	var site entities.Site
	err = repo.db.Get(&site, `SELECT * FROM sites WHERE source_id = 7`)
	require.NoError(t, err)
	assert.Equal(t, "s1", site.Key)
	assert.Equal(t, "boltedspire", *site.Name)
	assert.Equal(t, "fortress", *site.Type)
	assert.Equal(t, "e1", *site.CivKey)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[entities.TableSites])
}

func TestRepository_WriteBatch_ChildRowsBeforeParent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// batches flush per table as they fill, so a structure batch can commit
	// before the site it belongs to
	written, diags, err := repo.WriteBatch(ctx, entities.TableStructures, []any{
		&entities.Structure{SiteKey: "s1", LocalID: intp(1), Type: strp("temple")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Empty(t, diags)

	_, _, err = repo.WriteBatch(ctx, entities.TableSites, []any{
		&entities.Site{Key: "s1", SourceID: 7, Name: strp("boltedspire")},
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, repo.db.Get(&n, `SELECT COUNT(*) FROM structures WHERE site_key = 's1'`))
	assert.Equal(t, int64(1), n)
}

func TestRepository_WriteBatch_UnknownTable(t *testing.T) {
	repo := setupTestRepo(t)

	_, _, err := repo.WriteBatch(context.Background(), "no_such_table", []any{struct{}{}})
	require.Error(t, err)
}

func TestRepository_WriteBatch_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	written, diags, err := repo.WriteBatch(context.Background(), entities.TableRegions, nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Empty(t, diags)
}

func TestRepository_WorldRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	world, err := repo.WorldInfo(ctx)
	require.NoError(t, err)
	assert.Nil(t, world)

	err = repo.WriteWorld(ctx, &entities.World{Name: strp("Orid Tamun"), AltName: strp("The Planar Universe")})
	require.NoError(t, err)

	world, err = repo.WorldInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, world)
	assert.Equal(t, "Orid Tamun", *world.Name)
	assert.Equal(t, "The Planar Universe", *world.AltName)

	// a second write replaces the first
	err = repo.WriteWorld(ctx, &entities.World{Name: strp("Renamed")})
	require.NoError(t, err)
	world, err = repo.WorldInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", *world.Name)
	assert.Nil(t, world.AltName)
}

func TestRepository_Clear(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, _, err := repo.WriteBatch(ctx, entities.TableRegions, []any{
		&entities.Region{Key: "r1", SourceID: 0},
	})
	require.NoError(t, err)
	require.NoError(t, repo.WriteWorld(ctx, &entities.World{Name: strp("x")}))

	require.NoError(t, repo.Clear(ctx))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	for table, n := range counts {
		assert.Zero(t, n, "table %s should be empty", table)
	}
}

func TestRepository_EventExtraDataPersists(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	extra := `{"link":"position","position_id":"0"}`
	_, _, err := repo.WriteBatch(ctx, entities.TableHistoricalEvents, []any{
		&entities.HistoricalEvent{Key: "ev1", SourceID: 900, Year: intp(84), Type: strp("add hf entity link"), ExtraData: &extra},
	})
	require.NoError(t, err)

	var got string
	err = repo.db.QueryRow(`SELECT extra_data FROM historical_events WHERE key='ev1'`).Scan(&got)
	require.NoError(t, err)
	assert.JSONEq(t, extra, got)
}
