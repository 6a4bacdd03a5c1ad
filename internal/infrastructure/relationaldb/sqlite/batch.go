package sqlite

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

// insertSQL maps each table to its named insert statement. The sites insert
// is an upsert because the base and plus exports each contribute columns for
// the same source ID; later non-null values win, earlier ones survive.
var insertSQL = map[string]string{
	entities.TableRegions: `INSERT INTO regions (key, source_id, name, type)
		VALUES (:key, :source_id, :name, :type)`,

	entities.TableUndergroundRegions: `INSERT INTO underground_regions (key, source_id, type, depth)
		VALUES (:key, :source_id, :type, :depth)`,

	entities.TableLandmasses: `INSERT INTO landmasses (key, source_id, name, coord_1, coord_2)
		VALUES (:key, :source_id, :name, :coord_1, :coord_2)`,

	entities.TableMountainPeaks: `INSERT INTO mountain_peaks (key, source_id, name, coords, height, is_volcano)
		VALUES (:key, :source_id, :name, :coords, :height, :is_volcano)`,

	entities.TableSites: `INSERT INTO sites (key, source_id, name, type, coords, rectangle, civ_key, cur_owner_key)
		VALUES (:key, :source_id, :name, :type, :coords, :rectangle, :civ_key, :cur_owner_key)
		ON CONFLICT(source_id) DO UPDATE SET
			name = COALESCE(excluded.name, name),
			type = COALESCE(excluded.type, type),
			coords = COALESCE(excluded.coords, coords),
			rectangle = COALESCE(excluded.rectangle, rectangle),
			civ_key = COALESCE(excluded.civ_key, civ_key),
			cur_owner_key = COALESCE(excluded.cur_owner_key, cur_owner_key)`,

	entities.TableStructures: `INSERT INTO structures (site_key, local_id, name, name2, type)
		VALUES (:site_key, :local_id, :name, :name2, :type)`,

	entities.TableSiteProperties: `INSERT INTO site_properties (site_key, property_id, type, owner_hf_key)
		VALUES (:site_key, :property_id, :type, :owner_hf_key)`,

	entities.TableEntities: `INSERT INTO entities (key, source_id, name, race, type)
		VALUES (:key, :source_id, :name, :race, :type)`,

	entities.TableEntityPositions: `INSERT INTO entity_positions (entity_key, position_id, name)
		VALUES (:entity_key, :position_id, :name)`,

	entities.TablePositionAssignments: `INSERT INTO entity_position_assignments (entity_key, position_id, hf_key)
		VALUES (:entity_key, :position_id, :hf_key)`,

	entities.TableHistoricalFigures: `INSERT INTO historical_figures (key, source_id, name, race, caste, sex, birth_year, death_year)
		VALUES (:key, :source_id, :name, :race, :caste, :sex, :birth_year, :death_year)`,

	entities.TableHFEntityLinks: `INSERT INTO hf_entity_links (hf_key, entity_key, link_type, link_strength)
		VALUES (:hf_key, :entity_key, :link_type, :link_strength)`,

	entities.TableHFSiteLinks: `INSERT INTO hf_site_links (hf_key, site_key, link_type)
		VALUES (:hf_key, :site_key, :link_type)`,

	entities.TableHFRelationships: `INSERT INTO hf_relationships (source_hf_key, target_hf_key, relationship, year)
		VALUES (:source_hf_key, :target_hf_key, :relationship, :year)`,

	entities.TableArtifacts: `INSERT INTO artifacts (key, source_id, name, item_type, item_subtype, mat, holder_hf_key, site_key)
		VALUES (:key, :source_id, :name, :item_type, :item_subtype, :mat, :holder_hf_key, :site_key)`,

	entities.TableHistoricalEvents: `INSERT INTO historical_events (key, source_id, year, type, site_key, hf_key, civ_key, entity_key, artifact_key, structure_id, state, reason, slayer_hf_key, death_cause, extra_data)
		VALUES (:key, :source_id, :year, :type, :site_key, :hf_key, :civ_key, :entity_key, :artifact_key, :structure_id, :state, :reason, :slayer_hf_key, :death_cause, :extra_data)`,

	entities.TableWrittenContent: `INSERT INTO written_content (key, source_id, title, type, author_hf_key, page_start, page_end)
		VALUES (:key, :source_id, :title, :type, :author_hf_key, :page_start, :page_end)`,

	entities.TableWrittenStyles: `INSERT INTO written_content_styles (content_key, style)
		VALUES (:content_key, :style)`,

	entities.TableWrittenReferences: `INSERT INTO written_content_references (content_key, ref_type, ref_id, ref_key)
		VALUES (:content_key, :ref_type, :ref_id, :ref_key)`,
}

// WriteBatch inserts rows into table inside one transaction. When the batch
// fails on a constraint, it falls back to row-at-a-time inserts so one bad
// row costs a diagnostic instead of the whole batch.
func (r *Repository) WriteBatch(ctx context.Context, table string, rows []any) (int, []entities.Diagnostic, error) {
	if len(rows) == 0 {
		return 0, nil, nil
	}
	query, ok := insertSQL[table]
	if !ok {
		return 0, nil, fmt.Errorf("no insert statement for table %s", table)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, query, rows); err == nil {
		if err := tx.Commit(); err != nil {
			return 0, nil, fmt.Errorf("committing batch: %w", err)
		}
		return len(rows), nil, nil
	} else if !isConstraintErr(err) {
		tx.Rollback()
		return 0, nil, fmt.Errorf("inserting batch into %s: %w", table, err)
	}
	tx.Rollback()

	return r.writeRowByRow(ctx, table, query, rows)
}

// writeRowByRow retries a failed batch one row at a time, isolating the rows
// that violate a constraint.
func (r *Repository) writeRowByRow(ctx context.Context, table, query string, rows []any) (int, []entities.Diagnostic, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var written int
	var diags []entities.Diagnostic
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			if !isConstraintErr(err) {
				return 0, nil, fmt.Errorf("inserting row into %s: %w", table, err)
			}
			diags = append(diags, entities.Diagnostic{
				Kind:     entities.DiagConstraintViolation,
				SourceID: sourceIDOf(row),
				Detail:   fmt.Sprintf("%s: %v", table, err),
			})
			continue
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("committing batch: %w", err)
	}
	return written, diags, nil
}

// isConstraintErr reports whether err is a SQLite constraint violation.
func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}

// sourceIDOf extracts the numeric source ID from a row struct when it has
// one, for diagnostics.
func sourceIDOf(row any) int64 {
	v := reflect.Indirect(reflect.ValueOf(row))
	if v.Kind() != reflect.Struct {
		return 0
	}
	f := v.FieldByName("SourceID")
	if f.IsValid() && f.Kind() == reflect.Int64 {
		return f.Int()
	}
	return 0
}
