package builders

import "github.com/ersonp/legends-core/internal/domain/entities"

// siteBuilder handles the site element from both exports: the base export
// carries name/type/coords, the plus export adds owning-civ references,
// structures and site properties for the same source ID.
type siteBuilder struct {
	tracker
	rec   entities.Site
	hasID bool
	refs  []Ref

	structures []*entities.Structure
	properties []*entities.SiteProperty
	curStruct  *entities.Structure
	curProp    *entities.SiteProperty
}

func (b *siteBuilder) Open(tag string) {
	b.tracker.Open(tag)
	switch {
	case b.in("structures", "structure"):
		b.curStruct = &entities.Structure{}
	case b.in("site_properties", "site_property"):
		b.curProp = &entities.SiteProperty{}
	}
}

func (b *siteBuilder) Text(value string) {
	switch {
	case b.depth() == 2:
		b.fieldText(value)
	case b.curStruct != nil && b.depth() == 4 && b.path[1] == "structures":
		b.structureText(value)
	case b.curProp != nil && b.depth() == 4 && b.path[1] == "site_properties":
		b.propertyText(value)
	}
}

func (b *siteBuilder) fieldText(value string) {
	switch b.leaf() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "name":
		b.rec.Name = str(value)
	case "type":
		b.rec.Type = str(value)
	case "coords":
		b.rec.Coords = str(value)
	case "rectangle":
		b.rec.Rectangle = str(value)
	case "civ_id":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindEntity, ID: n, Target: &b.rec.CivKey})
		}
	case "cur_owner_id":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindEntity, ID: n, Target: &b.rec.CurOwnerKey})
		}
	}
}

func (b *siteBuilder) structureText(value string) {
	switch b.leaf() {
	case "id", "local_id":
		if n, ok := parseInt(value); ok {
			b.curStruct.LocalID = &n
		}
	case "name":
		b.curStruct.Name = str(value)
	case "name2":
		b.curStruct.Name2 = str(value)
	case "type":
		b.curStruct.Type = str(value)
	}
}

func (b *siteBuilder) propertyText(value string) {
	switch b.leaf() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.curProp.PropertyID = &n
		}
	case "type":
		b.curProp.Type = str(value)
	case "owner_hfid":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindHistoricalFigure, ID: n, Target: &b.curProp.OwnerHFKey})
		}
	}
}

func (b *siteBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	switch {
	case b.in("structures", "structure"):
		b.structures = append(b.structures, b.curStruct)
		b.curStruct = nil
	case b.in("site_properties", "site_property"):
		b.properties = append(b.properties, b.curProp)
		b.curProp = nil
	}
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindSite, 0, "missing id"), true
	}

	res := &Result{
		Kind:     entities.KindSite,
		Table:    entities.TableSites,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
		Refs:     b.refs,
	}
	for _, s := range b.structures {
		res.Children = append(res.Children, Child{Table: entities.TableStructures, Row: s})
	}
	for _, p := range b.properties {
		res.Children = append(res.Children, Child{Table: entities.TableSiteProperties, Row: p})
	}
	res.setKey = func(k string) {
		b.rec.Key = k
		for _, s := range b.structures {
			s.SiteKey = k
		}
		for _, p := range b.properties {
			p.SiteKey = k
		}
	}
	return res, nil, true
}
