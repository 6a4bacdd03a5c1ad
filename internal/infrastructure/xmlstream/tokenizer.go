// Package xmlstream turns a sanitized export into a forward-only sequence of
// element events. It never materializes a document tree, so peak memory is
// bounded by element depth rather than file size.
package xmlstream

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTruncated signals that the stream ended inside an open element. Callers
// match it with errors.Is; the concrete error carries the byte offset.
var ErrTruncated = errors.New("truncated input")

// TruncatedError reports where a truncated stream gave out.
type TruncatedError struct {
	Offset int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input at byte %d", e.Offset)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }

// EventKind discriminates structural events.
type EventKind int

const (
	// StartElement is an element-open event; Name holds the tag.
	StartElement EventKind = iota + 1
	// EndElement is an element-close event; Name holds the tag.
	EndElement
	// Text is trimmed character data between elements.
	Text
)

// Event is one structural event from the stream.
type Event struct {
	Kind EventKind
	Name string
	Text string
}

// Tokenizer streams events from a sanitized reader. Character data split by
// entity references is coalesced into a single Text event.
type Tokenizer struct {
	dec     *xml.Decoder
	depth   int
	pending *Event
}

// NewTokenizer creates a tokenizer over r. The reader must already be
// sanitized; the decoder is strict.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{dec: xml.NewDecoder(r)}
}

// Next returns the next event. It returns io.EOF at a clean end of document
// and an error matching ErrTruncated when the stream ends inside an element.
func (t *Tokenizer) Next() (Event, error) {
	if t.pending != nil {
		ev := *t.pending
		t.pending = nil
		t.applyDepth(ev)
		return ev, nil
	}

	var text strings.Builder
	for {
		tok, err := t.dec.Token()
		if err != nil {
			return Event{}, t.mapErr(err)
		}
		switch v := tok.(type) {
		case xml.CharData:
			text.Write(v)
		case xml.StartElement:
			return t.emit(Event{Kind: StartElement, Name: v.Name.Local}, &text)
		case xml.EndElement:
			return t.emit(Event{Kind: EndElement, Name: v.Name.Local}, &text)
		default:
			// comments, directives and processing instructions carry no records
		}
	}
}

// emit returns ev, first flushing any accumulated character data as a Text
// event with ev held back for the next call.
func (t *Tokenizer) emit(ev Event, text *strings.Builder) (Event, error) {
	if s := strings.TrimSpace(text.String()); s != "" {
		t.pending = &ev
		return Event{Kind: Text, Text: s}, nil
	}
	t.applyDepth(ev)
	return ev, nil
}

func (t *Tokenizer) applyDepth(ev Event) {
	switch ev.Kind {
	case StartElement:
		t.depth++
	case EndElement:
		t.depth--
	}
}

// Depth is the number of currently open elements.
func (t *Tokenizer) Depth() int { return t.depth }

// InputOffset is the byte offset of the decoder in the sanitized stream.
func (t *Tokenizer) InputOffset() int64 { return t.dec.InputOffset() }

// mapErr distinguishes a truncated stream from a clean end of document and
// from genuine syntax errors.
func (t *Tokenizer) mapErr(err error) error {
	truncated := func() error {
		return &TruncatedError{Offset: t.dec.InputOffset()}
	}
	if err == io.EOF {
		if t.depth > 0 {
			return truncated()
		}
		return io.EOF
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return truncated()
	}
	var syn *xml.SyntaxError
	if errors.As(err, &syn) && strings.Contains(syn.Msg, "unexpected EOF") {
		return truncated()
	}
	return err
}
