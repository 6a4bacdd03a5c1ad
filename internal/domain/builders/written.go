package builders

import (
	"strings"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

// writtenContentBuilder handles written_content elements from the plus
// export, with their repeatable style tags and typed references.
type writtenContentBuilder struct {
	tracker
	rec   entities.WrittenContent
	hasID bool
	refs  []Ref

	styles     []*entities.WrittenContentStyle
	references []*entities.WrittenContentReference
	curRef     *entities.WrittenContentReference
}

func (b *writtenContentBuilder) Open(tag string) {
	b.tracker.Open(tag)
	if b.in("reference") {
		b.curRef = &entities.WrittenContentReference{}
	}
}

func (b *writtenContentBuilder) Text(value string) {
	switch {
	case b.depth() == 2:
		b.fieldText(value)
	case b.curRef != nil && b.depth() == 3 && b.path[1] == "reference":
		b.referenceText(value)
	}
}

func (b *writtenContentBuilder) fieldText(value string) {
	switch b.leaf() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "title":
		b.rec.Title = str(value)
	case "type", "form":
		b.rec.Type = str(value)
	case "author", "author_hfid":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindHistoricalFigure, ID: n, Target: &b.rec.AuthorHFKey})
		}
	case "page_start":
		if n, ok := parseInt(value); ok {
			b.rec.PageStart = &n
		}
	case "page_end":
		if n, ok := parseInt(value); ok {
			b.rec.PageEnd = &n
		}
	case "style":
		b.styles = append(b.styles, &entities.WrittenContentStyle{Style: value})
	}
}

func (b *writtenContentBuilder) referenceText(value string) {
	switch b.leaf() {
	case "type":
		b.curRef.RefType = str(value)
	case "id":
		if n, ok := parseInt(value); ok {
			b.curRef.RefID = &n
		}
	}
}

func (b *writtenContentBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	if b.in("reference") {
		if kind, ok := refKindFor(b.curRef.RefType); ok && b.curRef.RefID != nil {
			b.refs = append(b.refs, Ref{Kind: kind, ID: *b.curRef.RefID, Target: &b.curRef.RefKey})
		}
		b.references = append(b.references, b.curRef)
		b.curRef = nil
	}
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindWrittenContent, 0, "missing id"), true
	}

	res := &Result{
		Kind:     entities.KindWrittenContent,
		Table:    entities.TableWrittenContent,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
		Refs:     b.refs,
	}
	for _, s := range b.styles {
		res.Children = append(res.Children, Child{Table: entities.TableWrittenStyles, Row: s})
	}
	for _, r := range b.references {
		res.Children = append(res.Children, Child{Table: entities.TableWrittenReferences, Row: r})
	}
	res.setKey = func(k string) {
		b.rec.Key = k
		for _, s := range b.styles {
			s.ContentKey = k
		}
		for _, r := range b.references {
			r.ContentKey = k
		}
	}
	return res, nil, true
}

// refKindFor maps a written-content reference type to the record kind it
// points at. Reference types without an imported kind (dance forms, musical
// forms, abstract concepts) keep their raw ID only.
func refKindFor(refType *string) (entities.Kind, bool) {
	if refType == nil {
		return "", false
	}
	switch strings.ToLower(*refType) {
	case "site":
		return entities.KindSite, true
	case "historical_figure":
		return entities.KindHistoricalFigure, true
	case "entity":
		return entities.KindEntity, true
	case "artifact":
		return entities.KindArtifact, true
	case "historical_event":
		return entities.KindHistoricalEvent, true
	case "written_content":
		return entities.KindWrittenContent, true
	case "subregion":
		return entities.KindRegion, true
	}
	return "", false
}
