// Package builders turns the tokenizer's element events into finished
// records. One builder accumulates one top-level element; unknown child tags
// are ignored so exports from newer game versions still import.
package builders

import (
	"strconv"
	"strings"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

// DocKind distinguishes the base legends export from the extended plus
// export. The two files carry overlapping element sets with different fields.
type DocKind string

const (
	// DocBase is the classic legends export.
	DocBase DocKind = "legends"
	// DocPlus is the extended export with entities, events and written works.
	DocPlus DocKind = "legends_plus"
)

// Builder accumulates one top-level element. The pipeline calls Open for
// every element start (the top element included), Text for the character
// data of the innermost open element, and Close for every element end.
// Close reports done when the top element closed; the builder then yields
// either a finished Result or a malformed-record Diagnostic, never both.
type Builder interface {
	Open(tag string)
	Text(value string)
	Close(tag string) (res *Result, diag *entities.Diagnostic, done bool)
}

// Result is one finished record: the primary row, child-table rows owned by
// it, and the numeric references that still need surrogate-key resolution.
type Result struct {
	// Kind is empty for pure link records (no ID space of their own).
	Kind     entities.Kind
	Table    string
	SourceID int64
	Row      any
	Children []Child
	Refs     []Ref

	setKey func(string)
}

// SetKey stores the surrogate key into the primary row and into the child
// rows' parent-key columns.
func (r *Result) SetKey(key string) {
	if r.setKey != nil {
		r.setKey(key)
	}
}

// Child is a row destined for a child table of the record.
type Child struct {
	Table string
	Row   any
}

// Ref defers a cross-record reference. Target addresses the nullable key
// column to fill once (Kind, ID) resolves; it stays nil when the reference
// dangles.
type Ref struct {
	Kind   entities.Kind
	ID     int64
	Target **string
}

// ForTag returns a fresh builder for a top-level record tag, or nil when the
// tag carries no record in the given document kind. The mapping mirrors
// which export file each table is loaded from.
func ForTag(tag string, doc DocKind) Builder {
	switch doc {
	case DocBase:
		switch tag {
		case "region":
			return &regionBuilder{}
		case "underground_region":
			return &undergroundRegionBuilder{}
		case "site":
			return &siteBuilder{}
		case "artifact":
			return &artifactBuilder{}
		case "historical_figure":
			return &figureBuilder{}
		}
	case DocPlus:
		switch tag {
		case "landmass":
			return &landmassBuilder{}
		case "mountain_peak":
			return &mountainPeakBuilder{}
		case "site":
			return &siteBuilder{}
		case "entity":
			return &entityBuilder{}
		case "historical_event_relationship":
			return &relationshipBuilder{}
		case "historical_event":
			return &eventBuilder{}
		case "written_content":
			return &writtenContentBuilder{}
		}
	}
	return nil
}

// tracker maintains the open-element path, top element first.
type tracker struct {
	path []string
}

func (t *tracker) Open(tag string) {
	t.path = append(t.path, tag)
}

func (t *tracker) pop() {
	if len(t.path) > 0 {
		t.path = t.path[:len(t.path)-1]
	}
}

func (t *tracker) depth() int { return len(t.path) }

// leaf is the innermost open element.
func (t *tracker) leaf() string {
	if len(t.path) == 0 {
		return ""
	}
	return t.path[len(t.path)-1]
}

// field returns the leaf tag when it is a direct child of the top element,
// and "" otherwise.
func (t *tracker) field() string {
	if len(t.path) != 2 {
		return ""
	}
	return t.path[1]
}

// in reports whether the path below the top element equals parts.
func (t *tracker) in(parts ...string) bool {
	if len(t.path) != len(parts)+1 {
		return false
	}
	for i, p := range parts {
		if t.path[i+1] != p {
			return false
		}
	}
	return true
}

// subpath joins the path below the top element with dots, for preserving
// unrecognized nested fields.
func (t *tracker) subpath() string {
	if len(t.path) < 2 {
		return ""
	}
	return strings.Join(t.path[1:], ".")
}

func str(s string) *string { return &s }

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func malformed(kind entities.Kind, sourceID int64, detail string) *entities.Diagnostic {
	return &entities.Diagnostic{
		Kind:     entities.DiagMalformedRecord,
		Record:   kind,
		SourceID: sourceID,
		Detail:   detail,
	}
}
