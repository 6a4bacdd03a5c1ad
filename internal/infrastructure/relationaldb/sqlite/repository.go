// Package sqlite provides a SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/legends-core/internal/domain/entities"
	"github.com/ersonp/legends-core/internal/infrastructure/config"
)

// Repository implements ports.Store using SQLite.
type Repository struct {
	db   *sqlx.DB
	path string
}

// NewRepository creates a new SQLite repository, creating the parent
// directory of the database file when needed.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// No FOREIGN KEY clauses in the schema: batches flush per table as they
	// fill, so child rows can land before their parent's batch commits.
	// Integrity comes from the key columns and the UNIQUE source_id checks.

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// DB exposes the underlying handle for read-only consumers of the finished
// database.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- World identity, taken from the plus export prologue (single row)
	CREATE TABLE IF NOT EXISTS world (
		name TEXT,
		altname TEXT
	);

	-- Surface regions (base export)
	CREATE TABLE IF NOT EXISTS regions (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		type TEXT
	);

	-- Cavern layers (base export)
	CREATE TABLE IF NOT EXISTS underground_regions (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		type TEXT,
		depth INTEGER
	);

	-- Continents (plus export)
	CREATE TABLE IF NOT EXISTS landmasses (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		coord_1 TEXT,
		coord_2 TEXT
	);

	-- Named peaks (plus export)
	CREATE TABLE IF NOT EXISTS mountain_peaks (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		coords TEXT,
		height INTEGER,
		is_volcano INTEGER NOT NULL DEFAULT 0
	);

	-- Sites, merged from both exports
	CREATE TABLE IF NOT EXISTS sites (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		type TEXT,
		coords TEXT,
		rectangle TEXT,
		civ_key TEXT,
		cur_owner_key TEXT
	);

	CREATE TABLE IF NOT EXISTS structures (
		site_key TEXT NOT NULL,
		local_id INTEGER,
		name TEXT,
		name2 TEXT,
		type TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_structures_site ON structures(site_key);

	CREATE TABLE IF NOT EXISTS site_properties (
		site_key TEXT NOT NULL,
		property_id INTEGER,
		type TEXT,
		owner_hf_key TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_site_properties_site ON site_properties(site_key);

	-- Civilizations and organizations (plus export)
	CREATE TABLE IF NOT EXISTS entities (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		race TEXT,
		type TEXT
	);

	CREATE TABLE IF NOT EXISTS entity_positions (
		entity_key TEXT NOT NULL,
		position_id INTEGER,
		name TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entity_positions_entity ON entity_positions(entity_key);

	CREATE TABLE IF NOT EXISTS entity_position_assignments (
		entity_key TEXT NOT NULL,
		position_id INTEGER,
		hf_key TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_position_assignments_entity ON entity_position_assignments(entity_key);

	-- Historical figures (base export)
	CREATE TABLE IF NOT EXISTS historical_figures (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		race TEXT,
		caste TEXT,
		sex TEXT,
		birth_year INTEGER,
		death_year INTEGER
	);

	CREATE TABLE IF NOT EXISTS hf_entity_links (
		hf_key TEXT NOT NULL,
		entity_key TEXT,
		link_type TEXT,
		link_strength INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_hf_entity_links_hf ON hf_entity_links(hf_key);

	CREATE TABLE IF NOT EXISTS hf_site_links (
		hf_key TEXT NOT NULL,
		site_key TEXT,
		link_type TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_hf_site_links_hf ON hf_site_links(hf_key);

	CREATE TABLE IF NOT EXISTS hf_relationships (
		source_hf_key TEXT,
		target_hf_key TEXT,
		relationship TEXT,
		year INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_hf_relationships_source ON hf_relationships(source_hf_key);

	-- Artifacts (base export)
	CREATE TABLE IF NOT EXISTS artifacts (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		name TEXT,
		item_type TEXT,
		item_subtype TEXT,
		mat TEXT,
		holder_hf_key TEXT,
		site_key TEXT
	);

	-- Historical events (plus export)
	CREATE TABLE IF NOT EXISTS historical_events (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		year INTEGER,
		type TEXT,
		site_key TEXT,
		hf_key TEXT,
		civ_key TEXT,
		entity_key TEXT,
		artifact_key TEXT,
		structure_id INTEGER,
		state TEXT,
		reason TEXT,
		slayer_hf_key TEXT,
		death_cause TEXT,
		extra_data TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_historical_events_year ON historical_events(year);
	CREATE INDEX IF NOT EXISTS idx_historical_events_type ON historical_events(type);
	CREATE INDEX IF NOT EXISTS idx_historical_events_hf ON historical_events(hf_key);
	CREATE INDEX IF NOT EXISTS idx_historical_events_site ON historical_events(site_key);

	-- Written works (plus export)
	CREATE TABLE IF NOT EXISTS written_content (
		key TEXT PRIMARY KEY,
		source_id INTEGER NOT NULL UNIQUE,
		title TEXT,
		type TEXT,
		author_hf_key TEXT,
		page_start INTEGER,
		page_end INTEGER
	);

	CREATE TABLE IF NOT EXISTS written_content_styles (
		content_key TEXT NOT NULL,
		style TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_written_styles_content ON written_content_styles(content_key);

	CREATE TABLE IF NOT EXISTS written_content_references (
		content_key TEXT NOT NULL,
		ref_type TEXT,
		ref_id INTEGER,
		ref_key TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_written_references_content ON written_content_references(content_key);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// allTables lists every table the import writes, world included.
var allTables = []string{
	entities.TableWorld,
	entities.TableRegions,
	entities.TableUndergroundRegions,
	entities.TableLandmasses,
	entities.TableMountainPeaks,
	entities.TableSites,
	entities.TableStructures,
	entities.TableSiteProperties,
	entities.TableEntities,
	entities.TableEntityPositions,
	entities.TablePositionAssignments,
	entities.TableHistoricalFigures,
	entities.TableHFEntityLinks,
	entities.TableHFSiteLinks,
	entities.TableHFRelationships,
	entities.TableArtifacts,
	entities.TableHistoricalEvents,
	entities.TableWrittenContent,
	entities.TableWrittenStyles,
	entities.TableWrittenReferences,
}

// Clear empties every import table so a re-import starts from scratch.
func (r *Repository) Clear(ctx context.Context) error {
	for _, table := range allTables {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// WriteWorld stores the singleton world record, replacing any previous one.
func (r *Repository) WriteWorld(ctx context.Context, world *entities.World) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM world"); err != nil {
		return fmt.Errorf("clearing world: %w", err)
	}
	_, err := r.db.NamedExecContext(ctx,
		"INSERT INTO world (name, altname) VALUES (:name, :altname)", world)
	if err != nil {
		return fmt.Errorf("inserting world: %w", err)
	}
	return nil
}

// WorldInfo returns the stored world record, or nil when none was imported.
func (r *Repository) WorldInfo(ctx context.Context) (*entities.World, error) {
	var world entities.World
	err := r.db.GetContext(ctx, &world, "SELECT name, altname FROM world LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading world: %w", err)
	}
	return &world, nil
}

// Counts returns the row count of every import table.
func (r *Repository) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(allTables))
	for _, table := range allTables {
		var n int64
		if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
