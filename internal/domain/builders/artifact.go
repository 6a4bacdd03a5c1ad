package builders

import "github.com/ersonp/legends-core/internal/domain/entities"

type artifactBuilder struct {
	tracker
	rec   entities.Artifact
	hasID bool
	refs  []Ref
}

func (b *artifactBuilder) Text(value string) {
	switch b.field() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "name":
		b.rec.Name = str(value)
	case "name_string":
		// older exports use name_string; prefer name when both appear
		if b.rec.Name == nil {
			b.rec.Name = str(value)
		}
	case "item_type":
		b.rec.ItemType = str(value)
	case "item_subtype":
		b.rec.ItemSubtype = str(value)
	case "mat":
		b.rec.Material = str(value)
	case "holder_hfid":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindHistoricalFigure, ID: n, Target: &b.rec.HolderHFKey})
		}
	case "site_id":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindSite, ID: n, Target: &b.rec.SiteKey})
		}
	}
}

func (b *artifactBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindArtifact, 0, "missing id"), true
	}
	res := &Result{
		Kind:     entities.KindArtifact,
		Table:    entities.TableArtifacts,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
		Refs:     b.refs,
	}
	res.setKey = func(k string) { b.rec.Key = k }
	return res, nil, true
}
