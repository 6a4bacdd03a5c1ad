package builders

import "github.com/ersonp/legends-core/internal/domain/entities"

// figureBuilder handles historical_figure elements, including the entity and
// site link sub-records that ship inline with the figure.
type figureBuilder struct {
	tracker
	rec   entities.HistoricalFigure
	hasID bool
	refs  []Ref

	entityLinks []*entities.HFEntityLink
	siteLinks   []*entities.HFSiteLink
	curEntLink  *entities.HFEntityLink
	curSiteLink *entities.HFSiteLink
}

func (b *figureBuilder) Open(tag string) {
	b.tracker.Open(tag)
	switch {
	case b.in("entity_link"):
		b.curEntLink = &entities.HFEntityLink{}
	case b.in("site_link"):
		b.curSiteLink = &entities.HFSiteLink{}
	}
}

func (b *figureBuilder) Text(value string) {
	switch {
	case b.depth() == 2:
		b.fieldText(value)
	case b.curEntLink != nil && b.depth() == 3 && b.path[1] == "entity_link":
		b.entityLinkText(value)
	case b.curSiteLink != nil && b.depth() == 3 && b.path[1] == "site_link":
		b.siteLinkText(value)
	}
}

func (b *figureBuilder) fieldText(value string) {
	switch b.leaf() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "name":
		b.rec.Name = str(value)
	case "race":
		b.rec.Race = str(value)
	case "caste":
		b.rec.Caste = str(value)
	case "sex":
		b.rec.Sex = str(value)
	case "birth_year":
		if n, ok := parseInt(value); ok {
			b.rec.BirthYear = entities.Year(n)
		}
	case "death_year":
		if n, ok := parseInt(value); ok {
			b.rec.DeathYear = entities.Year(n)
		}
	}
}

func (b *figureBuilder) entityLinkText(value string) {
	switch b.leaf() {
	case "link_type":
		b.curEntLink.LinkType = str(value)
	case "entity_id":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindEntity, ID: n, Target: &b.curEntLink.EntityKey})
		}
	case "link_strength":
		if n, ok := parseInt(value); ok {
			b.curEntLink.LinkStrength = &n
		}
	}
}

func (b *figureBuilder) siteLinkText(value string) {
	switch b.leaf() {
	case "link_type":
		b.curSiteLink.LinkType = str(value)
	case "site_id":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindSite, ID: n, Target: &b.curSiteLink.SiteKey})
		}
	}
}

func (b *figureBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	switch {
	case b.in("entity_link"):
		b.entityLinks = append(b.entityLinks, b.curEntLink)
		b.curEntLink = nil
	case b.in("site_link"):
		b.siteLinks = append(b.siteLinks, b.curSiteLink)
		b.curSiteLink = nil
	}
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindHistoricalFigure, 0, "missing id"), true
	}
	if b.rec.BirthYear != nil && b.rec.DeathYear != nil && *b.rec.BirthYear > *b.rec.DeathYear {
		return nil, malformed(entities.KindHistoricalFigure, b.rec.SourceID, "birth year after death year"), true
	}

	res := &Result{
		Kind:     entities.KindHistoricalFigure,
		Table:    entities.TableHistoricalFigures,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
		Refs:     b.refs,
	}
	for _, l := range b.entityLinks {
		res.Children = append(res.Children, Child{Table: entities.TableHFEntityLinks, Row: l})
	}
	for _, l := range b.siteLinks {
		res.Children = append(res.Children, Child{Table: entities.TableHFSiteLinks, Row: l})
	}
	res.setKey = func(k string) {
		b.rec.Key = k
		for _, l := range b.entityLinks {
			l.HFKey = k
		}
		for _, l := range b.siteLinks {
			l.HFKey = k
		}
	}
	return res, nil, true
}

// relationshipBuilder handles the plus export's figure-to-figure
// relationship records. They carry no ID of their own; both endpoints are
// required.
type relationshipBuilder struct {
	tracker
	rec      entities.HFRelationship
	refs     []Ref
	hasEnds  int
	sourceID int64
}

func (b *relationshipBuilder) Text(value string) {
	switch b.field() {
	case "source_hf":
		if n, ok := parseInt(value); ok {
			b.sourceID = n
			b.hasEnds++
			b.refs = append(b.refs, Ref{Kind: entities.KindHistoricalFigure, ID: n, Target: &b.rec.SourceHFKey})
		}
	case "target_hf":
		if n, ok := parseInt(value); ok {
			b.hasEnds++
			b.refs = append(b.refs, Ref{Kind: entities.KindHistoricalFigure, ID: n, Target: &b.rec.TargetHFKey})
		}
	case "relationship":
		b.rec.Relationship = str(value)
	case "year":
		if n, ok := parseInt(value); ok {
			b.rec.Year = entities.Year(n)
		}
	}
}

func (b *relationshipBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if b.hasEnds < 2 {
		return nil, malformed(entities.KindHistoricalFigure, b.sourceID, "relationship missing an endpoint"), true
	}
	return &Result{
		Table: entities.TableHFRelationships,
		Row:   &b.rec,
		Refs:  b.refs,
	}, nil, true
}
