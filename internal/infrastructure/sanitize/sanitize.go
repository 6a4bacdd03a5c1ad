// Package sanitize repairs the raw byte stream of a legends export before
// XML tokenization. Exports declare CP437 but mix in stray control bytes and
// bare ampersands, any of which aborts a strict XML parser mid-stream.
package sanitize

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// reEncodingDecl matches the legacy encoding declaration so it can be
// rewritten to match the re-encoded output.
var reEncodingDecl = regexp.MustCompile(`(?i)encoding=["']cp437["']`)

const chunkSize = 32 * 1024

// Reader filters a raw export into valid UTF-8 that no longer contains bytes
// illegal inside XML 1.0 text. The transform is pure: the same input always
// produces the same output.
//
// Rules, in order:
//   - tab, LF and CR pass through; other bytes below 0x20 are dropped
//   - a '&' that does not start a predefined or numeric entity becomes "&amp;"
//   - a '<' that cannot open markup becomes "&lt;"
//   - a byte sequence that already forms valid UTF-8 passes through
//   - any other high byte is decoded as CP437
//   - encoding="CP437" in the declaration is rewritten to UTF-8
type Reader struct {
	src   *bufio.Reader
	out   bytes.Buffer
	first bool
	err   error
}

// NewReader wraps r in a sanitizing filter.
func NewReader(r io.Reader) *Reader {
	return &Reader{src: bufio.NewReaderSize(r, chunkSize), first: true}
}

// Read implements io.Reader over the sanitized stream.
func (r *Reader) Read(p []byte) (int, error) {
	for r.out.Len() == 0 && r.err == nil {
		r.fill()
	}
	if r.out.Len() > 0 {
		return r.out.Read(p)
	}
	return 0, r.err
}

// fill sanitizes roughly one chunk of input into the output buffer.
func (r *Reader) fill() {
	var out bytes.Buffer
	for out.Len() < chunkSize {
		b, err := r.src.ReadByte()
		if err != nil {
			if err != io.EOF {
				err = io.ErrUnexpectedEOF
			}
			r.err = err
			break
		}
		switch {
		case b == '\t' || b == '\n' || b == '\r':
			out.WriteByte(b)
		case b < 0x20:
			// illegal in XML 1.0 text, drop
		case b == '&':
			r.writeAmpersand(&out)
		case b == '<':
			r.writeLessThan(&out)
		case b < 0x80:
			out.WriteByte(b)
		default:
			r.writeHighByte(b, &out)
		}
	}
	data := out.Bytes()
	if r.first && len(data) > 0 {
		data = reEncodingDecl.ReplaceAll(data, []byte(`encoding="UTF-8"`))
		r.first = false
	}
	r.out.Write(data)
}

// writeAmpersand passes '&' through when it starts a character or named
// entity and escapes it otherwise.
func (r *Reader) writeAmpersand(out *bytes.Buffer) {
	peek, _ := r.src.Peek(10)
	if startsEntity(peek) {
		out.WriteByte('&')
		return
	}
	out.WriteString("&amp;")
}

// startsEntity reports whether p begins with the tail of an entity a strict
// decoder accepts: one of the five predefined names or a numeric character
// reference. Anything else, "&chips;" included, must be escaped.
func startsEntity(p []byte) bool {
	i := bytes.IndexByte(p, ';')
	if i <= 0 {
		return false
	}
	body := p[:i]
	if body[0] == '#' {
		return validCharRef(body[1:])
	}
	switch string(body) {
	case "lt", "gt", "amp", "apos", "quot":
		return true
	}
	return false
}

// validCharRef reports whether p is the digits of a numeric character
// reference, decimal or "x"-prefixed hex.
func validCharRef(p []byte) bool {
	hex := false
	if len(p) > 0 && (p[0] == 'x' || p[0] == 'X') {
		hex = true
		p = p[1:]
	}
	if len(p) == 0 {
		return false
	}
	for _, c := range p {
		switch {
		case c >= '0' && c <= '9':
		case hex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')):
		default:
			return false
		}
	}
	return true
}

// writeLessThan passes '<' through when the next byte can open markup (a tag
// name, close tag, comment or processing instruction) and escapes a stray
// one in text.
func (r *Reader) writeLessThan(out *bytes.Buffer) {
	peek, _ := r.src.Peek(1)
	if len(peek) == 1 && opensMarkup(peek[0]) {
		out.WriteByte('<')
		return
	}
	out.WriteString("&lt;")
}

func opensMarkup(c byte) bool {
	return c == '/' || c == '!' || c == '?' || c == '_' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// writeHighByte passes through an already-valid UTF-8 sequence starting at b,
// or decodes b as a single CP437 byte.
func (r *Reader) writeHighByte(b byte, out *bytes.Buffer) {
	if n := utf8SeqLen(b); n > 1 {
		rest, _ := r.src.Peek(n - 1)
		if len(rest) == n-1 {
			seq := make([]byte, 1, n)
			seq[0] = b
			seq = append(seq, rest...)
			if ru, size := utf8.DecodeRune(seq); ru != utf8.RuneError && size == n {
				r.src.Discard(n - 1)
				out.Write(seq)
				return
			}
		}
	}
	out.WriteRune(charmap.CodePage437.DecodeByte(b))
}

// utf8SeqLen returns the sequence length a valid UTF-8 lead byte announces,
// or 0 when b cannot lead a multi-byte sequence.
func utf8SeqLen(b byte) int {
	switch {
	case b >= 0xC2 && b <= 0xDF:
		return 2
	case b >= 0xE0 && b <= 0xEF:
		return 3
	case b >= 0xF0 && b <= 0xF4:
		return 4
	}
	return 0
}
