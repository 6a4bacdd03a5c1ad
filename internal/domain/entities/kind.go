package entities

// Kind identifies an entity kind from the legends export. Numeric source IDs
// are unique per kind, so the reference resolver keeps one ID space for each.
type Kind string

const (
	KindRegion            Kind = "region"
	KindUndergroundRegion Kind = "underground_region"
	KindLandmass          Kind = "landmass"
	KindMountainPeak      Kind = "mountain_peak"
	KindSite              Kind = "site"
	KindEntity            Kind = "entity"
	KindHistoricalFigure  Kind = "historical_figure"
	KindArtifact          Kind = "artifact"
	KindHistoricalEvent   Kind = "historical_event"
	KindWrittenContent    Kind = "written_content"
)

// Kinds lists every entity kind in report order.
var Kinds = []Kind{
	KindRegion,
	KindUndergroundRegion,
	KindLandmass,
	KindMountainPeak,
	KindSite,
	KindEntity,
	KindHistoricalFigure,
	KindArtifact,
	KindHistoricalEvent,
	KindWrittenContent,
}

// Target table names, one per record type.
const (
	TableWorld               = "world"
	TableRegions             = "regions"
	TableUndergroundRegions  = "underground_regions"
	TableLandmasses          = "landmasses"
	TableMountainPeaks       = "mountain_peaks"
	TableSites               = "sites"
	TableStructures          = "structures"
	TableSiteProperties      = "site_properties"
	TableEntities            = "entities"
	TableEntityPositions     = "entity_positions"
	TablePositionAssignments = "entity_position_assignments"
	TableHistoricalFigures   = "historical_figures"
	TableHFEntityLinks       = "hf_entity_links"
	TableHFSiteLinks         = "hf_site_links"
	TableHFRelationships     = "hf_relationships"
	TableArtifacts           = "artifacts"
	TableHistoricalEvents    = "historical_events"
	TableWrittenContent      = "written_content"
	TableWrittenStyles       = "written_content_styles"
	TableWrittenReferences   = "written_content_references"
)

// Table returns the primary table for a kind.
func (k Kind) Table() string {
	switch k {
	case KindRegion:
		return TableRegions
	case KindUndergroundRegion:
		return TableUndergroundRegions
	case KindLandmass:
		return TableLandmasses
	case KindMountainPeak:
		return TableMountainPeaks
	case KindSite:
		return TableSites
	case KindEntity:
		return TableEntities
	case KindHistoricalFigure:
		return TableHistoricalFigures
	case KindArtifact:
		return TableArtifacts
	case KindHistoricalEvent:
		return TableHistoricalEvents
	case KindWrittenContent:
		return TableWrittenContent
	}
	return string(k)
}
