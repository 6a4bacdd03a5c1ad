package builders

import (
	"encoding/json"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

// eventBuilder handles historical_event elements. Event types have wildly
// varying participant sets; the recognized participants become resolved
// references and everything else is preserved verbatim in extra_data, the
// same way the display layer expects it.
type eventBuilder struct {
	tracker
	rec   entities.HistoricalEvent
	hasID bool
	refs  []Ref
	extra map[string]string
}

func (b *eventBuilder) Text(value string) {
	if b.depth() < 2 {
		return
	}
	if b.depth() > 2 {
		// unrecognized nested structure, keep it addressable by path
		b.addExtra(b.subpath(), value)
		return
	}
	switch b.leaf() {
	case "id":
		if n, ok := parseInt(value); ok {
			b.rec.SourceID = n
			b.hasID = true
		}
	case "year":
		if n, ok := parseInt(value); ok {
			b.rec.Year = entities.Year(n)
		}
	case "type":
		b.rec.Type = str(value)
	case "site_id", "site":
		b.ref(value, entities.KindSite, &b.rec.SiteKey)
	case "hfid":
		b.ref(value, entities.KindHistoricalFigure, &b.rec.HFKey)
	case "civ_id", "civ":
		b.ref(value, entities.KindEntity, &b.rec.CivKey)
	case "entity_id":
		b.ref(value, entities.KindEntity, &b.rec.EntityKey)
	case "artifact_id":
		b.ref(value, entities.KindArtifact, &b.rec.ArtifactKey)
	case "slayer_hfid", "slayer_hf":
		b.ref(value, entities.KindHistoricalFigure, &b.rec.SlayerHFKey)
	case "structure_id":
		if n, ok := parseInt(value); ok {
			b.rec.StructureID = &n
		}
	case "state":
		b.rec.State = str(value)
	case "reason":
		b.rec.Reason = str(value)
	case "death_cause":
		b.rec.DeathCause = str(value)
	default:
		b.addExtra(b.leaf(), value)
	}
}

func (b *eventBuilder) ref(value string, kind entities.Kind, target **string) {
	if n, ok := parseInt(value); ok {
		b.refs = append(b.refs, Ref{Kind: kind, ID: n, Target: target})
	}
}

func (b *eventBuilder) addExtra(key, value string) {
	if b.extra == nil {
		b.extra = make(map[string]string)
	}
	if prev, ok := b.extra[key]; ok {
		value = prev + "," + value
	}
	b.extra[key] = value
}

func (b *eventBuilder) Close(string) (*Result, *entities.Diagnostic, bool) {
	b.pop()
	if b.depth() > 0 {
		return nil, nil, false
	}
	if !b.hasID {
		return nil, malformed(entities.KindHistoricalEvent, 0, "missing id"), true
	}
	if len(b.extra) > 0 {
		// map keys marshal in sorted order, so extra_data is deterministic
		data, err := json.Marshal(b.extra)
		if err == nil {
			b.rec.ExtraData = str(string(data))
		}
	}
	res := &Result{
		Kind:     entities.KindHistoricalEvent,
		Table:    entities.TableHistoricalEvents,
		SourceID: b.rec.SourceID,
		Row:      &b.rec,
		Refs:     b.refs,
	}
	res.setKey = func(k string) { b.rec.Key = k }
	return res, nil, true
}
