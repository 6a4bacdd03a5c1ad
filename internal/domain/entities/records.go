// Package entities defines the record types produced by the legends import
// pipeline. A record is accumulated while its XML element is open and is
// immutable once emitted; reference fields hold surrogate keys (nullable when
// the reference never resolved).
package entities

// World is the singleton world record, taken from the plus export prologue.
type World struct {
	Name    *string `db:"name"`
	AltName *string `db:"altname"`
}

// Region is a surface region from the base export.
type Region struct {
	Key      string  `db:"key"`
	SourceID int64   `db:"source_id"`
	Name     *string `db:"name"`
	Type     *string `db:"type"`
}

// UndergroundRegion is a cavern layer from the base export.
type UndergroundRegion struct {
	Key      string  `db:"key"`
	SourceID int64   `db:"source_id"`
	Type     *string `db:"type"`
	Depth    *int64  `db:"depth"`
}

// Landmass is a continent from the plus export.
type Landmass struct {
	Key      string  `db:"key"`
	SourceID int64   `db:"source_id"`
	Name     *string `db:"name"`
	Coord1   *string `db:"coord_1"`
	Coord2   *string `db:"coord_2"`
}

// MountainPeak is a named peak from the plus export.
type MountainPeak struct {
	Key       string  `db:"key"`
	SourceID  int64   `db:"source_id"`
	Name      *string `db:"name"`
	Coords    *string `db:"coords"`
	Height    *int64  `db:"height"`
	IsVolcano bool    `db:"is_volcano"`
}

// Site is a location. The base export contributes name/type/coords; the plus
// export contributes the owning-civ references and child structures, so the
// same source ID legitimately appears once per document.
type Site struct {
	Key         string  `db:"key"`
	SourceID    int64   `db:"source_id"`
	Name        *string `db:"name"`
	Type        *string `db:"type"`
	Coords      *string `db:"coords"`
	Rectangle   *string `db:"rectangle"`
	CivKey      *string `db:"civ_key"`
	CurOwnerKey *string `db:"cur_owner_key"`
}

// Structure is a building inside a site.
type Structure struct {
	SiteKey string  `db:"site_key"`
	LocalID *int64  `db:"local_id"`
	Name    *string `db:"name"`
	Name2   *string `db:"name2"`
	Type    *string `db:"type"`
}

// SiteProperty is an ownership attribute of a site.
type SiteProperty struct {
	SiteKey    string  `db:"site_key"`
	PropertyID *int64  `db:"property_id"`
	Type       *string `db:"type"`
	OwnerHFKey *string `db:"owner_hf_key"`
}

// Entity is a civilization or organization.
type Entity struct {
	Key      string  `db:"key"`
	SourceID int64   `db:"source_id"`
	Name     *string `db:"name"`
	Race     *string `db:"race"`
	Type     *string `db:"type"`
}

// EntityPosition is a role definition owned by an entity.
type EntityPosition struct {
	EntityKey  string  `db:"entity_key"`
	PositionID *int64  `db:"position_id"`
	Name       *string `db:"name"`
}

// PositionAssignment records a figure holding an entity position.
type PositionAssignment struct {
	EntityKey  string  `db:"entity_key"`
	PositionID *int64  `db:"position_id"`
	HFKey      *string `db:"hf_key"`
}

// HistoricalFigure is a person (or creature) with a life span. Year fields
// are nil when the export marks them unknown (-1); a living figure has a
// nil death year.
type HistoricalFigure struct {
	Key       string  `db:"key"`
	SourceID  int64   `db:"source_id"`
	Name      *string `db:"name"`
	Race      *string `db:"race"`
	Caste     *string `db:"caste"`
	Sex       *string `db:"sex"`
	BirthYear *int64  `db:"birth_year"`
	DeathYear *int64  `db:"death_year"`
}

// HFEntityLink ties a figure to an entity (membership, leadership, ...).
type HFEntityLink struct {
	HFKey        string  `db:"hf_key"`
	EntityKey    *string `db:"entity_key"`
	LinkType     *string `db:"link_type"`
	LinkStrength *int64  `db:"link_strength"`
}

// HFSiteLink ties a figure to a site (residence, lair, ...).
type HFSiteLink struct {
	HFKey    string  `db:"hf_key"`
	SiteKey  *string `db:"site_key"`
	LinkType *string `db:"link_type"`
}

// HFRelationship is a typed relationship between two figures.
type HFRelationship struct {
	SourceHFKey  *string `db:"source_hf_key"`
	TargetHFKey  *string `db:"target_hf_key"`
	Relationship *string `db:"relationship"`
	Year         *int64  `db:"year"`
}

// Artifact is a named object, optionally held by a figure or located at a site.
type Artifact struct {
	Key         string  `db:"key"`
	SourceID    int64   `db:"source_id"`
	Name        *string `db:"name"`
	ItemType    *string `db:"item_type"`
	ItemSubtype *string `db:"item_subtype"`
	Material    *string `db:"mat"`
	HolderHFKey *string `db:"holder_hf_key"`
	SiteKey     *string `db:"site_key"`
}

// HistoricalEvent is a typed event with participant references. Children the
// builder does not recognize are preserved as a JSON object in ExtraData.
type HistoricalEvent struct {
	Key         string  `db:"key"`
	SourceID    int64   `db:"source_id"`
	Year        *int64  `db:"year"`
	Type        *string `db:"type"`
	SiteKey     *string `db:"site_key"`
	HFKey       *string `db:"hf_key"`
	CivKey      *string `db:"civ_key"`
	EntityKey   *string `db:"entity_key"`
	ArtifactKey *string `db:"artifact_key"`
	StructureID *int64  `db:"structure_id"`
	State       *string `db:"state"`
	Reason      *string `db:"reason"`
	SlayerHFKey *string `db:"slayer_hf_key"`
	DeathCause  *string `db:"death_cause"`
	ExtraData   *string `db:"extra_data"`
}

// WrittenContent is an authored work.
type WrittenContent struct {
	Key         string  `db:"key"`
	SourceID    int64   `db:"source_id"`
	Title       *string `db:"title"`
	Type        *string `db:"type"`
	AuthorHFKey *string `db:"author_hf_key"`
	PageStart   *int64  `db:"page_start"`
	PageEnd     *int64  `db:"page_end"`
}

// WrittenContentStyle is a qualitative tag on a written work.
type WrittenContentStyle struct {
	ContentKey string `db:"content_key"`
	Style      string `db:"style"`
}

// WrittenContentReference points from a written work to something it
// mentions. RefKey is resolved for reference types that map to an imported
// kind and stays nil otherwise; the raw numeric ID is always retained.
type WrittenContentReference struct {
	ContentKey string  `db:"content_key"`
	RefType    *string `db:"ref_type"`
	RefID      *int64  `db:"ref_id"`
	RefKey     *string `db:"ref_key"`
}
