package builders

import "github.com/ersonp/legends-core/internal/domain/entities"

type regionBuilder struct {
	tracker
	rec   entities.Region
	hasID bool
}

func (b *regionBuilder) Text(value string) {
	switch b.field() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "name":
		b.rec.Name = str(value)
	case "type":
		b.rec.Type = str(value)
	}
}

func (b *regionBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindRegion, 0, "missing id"), true
	}
	res := &Result{
		Kind:     entities.KindRegion,
		Table:    entities.TableRegions,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
	}
	res.setKey = func(k string) { b.rec.Key = k }
	return res, nil, true
}

type undergroundRegionBuilder struct {
	tracker
	rec   entities.UndergroundRegion
	hasID bool
}

func (b *undergroundRegionBuilder) Text(value string) {
	switch b.field() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "type":
		b.rec.Type = str(value)
	case "depth":
		if n, ok := parseInt(value); ok {
			b.rec.Depth = &n
		}
	}
}

func (b *undergroundRegionBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindUndergroundRegion, 0, "missing id"), true
	}
	res := &Result{
		Kind:     entities.KindUndergroundRegion,
		Table:    entities.TableUndergroundRegions,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
	}
	res.setKey = func(k string) { b.rec.Key = k }
	return res, nil, true
}

type landmassBuilder struct {
	tracker
	rec   entities.Landmass
	hasID bool
}

func (b *landmassBuilder) Text(value string) {
	switch b.field() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "name":
		b.rec.Name = str(value)
	case "coord_1":
		b.rec.Coord1 = str(value)
	case "coord_2":
		b.rec.Coord2 = str(value)
	}
}

func (b *landmassBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindLandmass, 0, "missing id"), true
	}
	res := &Result{
		Kind:     entities.KindLandmass,
		Table:    entities.TableLandmasses,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
	}
	res.setKey = func(k string) { b.rec.Key = k }
	return res, nil, true
}

type mountainPeakBuilder struct {
	tracker
	rec   entities.MountainPeak
	hasID bool
}

func (b *mountainPeakBuilder) Open(tag string) {
	b.tracker.Open(tag)
	// is_volcano is an empty marker element; presence alone sets the flag
	if b.in("is_volcano") {
		b.rec.IsVolcano = true
	}
}

func (b *mountainPeakBuilder) Text(value string) {
	switch b.field() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "name":
		b.rec.Name = str(value)
	case "coords":
		b.rec.Coords = str(value)
	case "height":
		if n, ok := parseInt(value); ok {
			b.rec.Height = &n
		}
	}
}

func (b *mountainPeakBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindMountainPeak, 0, "missing id"), true
	}
	res := &Result{
		Kind:     entities.KindMountainPeak,
		Table:    entities.TableMountainPeaks,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
	}
	res.setKey = func(k string) { b.rec.Key = k }
	return res, nil, true
}
