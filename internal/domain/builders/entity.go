package builders

import "github.com/ersonp/legends-core/internal/domain/entities"

// entityBuilder handles civilization/organization records from the plus
// export, with their inline position definitions and assignments.
type entityBuilder struct {
	tracker
	rec   entities.Entity
	hasID bool
	refs  []Ref

	positions   []*entities.EntityPosition
	assignments []*entities.PositionAssignment
	curPos      *entities.EntityPosition
	curAssign   *entities.PositionAssignment
}

func (b *entityBuilder) Open(tag string) {
	b.tracker.Open(tag)
	switch {
	case b.in("entity_position"):
		b.curPos = &entities.EntityPosition{}
	case b.in("entity_position_assignment"):
		b.curAssign = &entities.PositionAssignment{}
	}
}

func (b *entityBuilder) Text(value string) {
	switch {
	case b.depth() == 2:
		b.fieldText(value)
	case b.curPos != nil && b.depth() == 3 && b.path[1] == "entity_position":
		b.positionText(value)
	case b.curAssign != nil && b.depth() == 3 && b.path[1] == "entity_position_assignment":
		b.assignmentText(value)
	}
}

func (b *entityBuilder) fieldText(value string) {
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
	case "type":
		b.rec.Type = str(value)
	}
}

func (b *entityBuilder) positionText(value string) {
	switch b.leaf() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.curPos.PositionID = &n
		}
	case "name":
		b.curPos.Name = str(value)
	}
}

func (b *entityBuilder) assignmentText(value string) {
	switch b.leaf() {
	case "position_id":
		if n, ok := parseInt(value); ok {
			b.curAssign.PositionID = &n
		}
	case "histfig":
		if n, ok := parseInt(value); ok {
			b.refs = append(b.refs, Ref{Kind: entities.KindHistoricalFigure, ID: n, Target: &b.curAssign.HFKey})
		}
	}
}

func (b *entityBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	switch {
	case b.in("entity_position"):
		b.positions = append(b.positions, b.curPos)
		b.curPos = nil
	case b.in("entity_position_assignment"):
		b.assignments = append(b.assignments, b.curAssign)
		b.curAssign = nil
	}
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindEntity, 0, "missing id"), true
	}

	res := &Result{
		Kind:     entities.KindEntity,
		Table:    entities.TableEntities,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
		Refs:     b.refs,
	}
	for _, p := range b.positions {
		res.Children = append(res.Children, Child{Table: entities.TableEntityPositions, Row: p})
	}
	for _, a := range b.assignments {
		res.Children = append(res.Children, Child{Table: entities.TablePositionAssignments, Row: a})
	}
	res.setKey = func(k string) {
		b.rec.Key = k
		for _, p := range b.positions {
			p.EntityKey = k
		}
		for _, a := range b.assignments {
			a.EntityKey = k
		}
	}
	return res, nil, true
}
