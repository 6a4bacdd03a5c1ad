package sanitize

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sanitizeAll(t *testing.T, input string) string {
	t.Helper()
	out, err := io.ReadAll(NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	return string(out)
}

func TestReader_PassesCleanInput(t *testing.T) {
	input := "<name>The Age of Myth</name>\n"
	assert.Equal(t, input, sanitizeAll(t, input))
}

func TestReader_DropsControlBytes(t *testing.T) {
	input := "<name>Urist\x00\x01 McMiner\x1f</name>"
	assert.Equal(t, "<name>Urist McMiner</name>", sanitizeAll(t, input))
}

func TestReader_KeepsTabAndNewlines(t *testing.T) {
	input := "a\tb\nc\r\nd"
	assert.Equal(t, input, sanitizeAll(t, input))
}

func TestReader_EscapesBareAmpersand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare ampersand", "<name>Bodices & Blood</name>", "<name>Bodices &amp; Blood</name>"},
		{"predefined entity kept", "<name>Bodices &amp; Blood</name>", "<name>Bodices &amp; Blood</name>"},
		{"all predefined kept", "&lt;&gt;&amp;&apos;&quot;", "&lt;&gt;&amp;&apos;&quot;"},
		{"decimal entity kept", "<name>&#233;</name>", "<name>&#233;</name>"},
		{"hex entity kept", "<name>&#xE9;</name>", "<name>&#xE9;</name>"},
		{"undeclared entity escaped", "fish &chips; stew", "fish &amp;chips; stew"},
		{"entity-shaped word escaped", "&copy; 250", "&amp;copy; 250"},
		{"empty numeric ref escaped", "a &#; b", "a &amp;#; b"},
		{"malformed hex ref escaped", "a &#xZZ; b", "a &amp;#xZZ; b"},
		{"ampersand at end", "<name>AT&T", "<name>AT&amp;T"},
		{"ampersand before space", "a & b", "a &amp; b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeAll(t, tt.input))
		})
	}
}

func TestReader_EscapesStrayLessThan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"before digit", "<name>3 < 5</name>", "<name>3 &lt; 5</name>"},
		{"before space", "<name>a <- b</name>", "<name>a &lt;- b</name>"},
		{"at end of input", "<name>a <", "<name>a &lt;"},
		{"open tag kept", "<name>x</name>", "<name>x</name>"},
		{"close tag kept", "</name>", "</name>"},
		{"declaration kept", "<?xml version=\"1.0\"?>", "<?xml version=\"1.0\"?>"},
		{"comment kept", "<!-- note -->", "<!-- note -->"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeAll(t, tt.input))
		})
	}
}

func TestReader_DecodesCP437HighBytes(t *testing.T) {
	// 0x8A is è in CP437
	input := "<name>Sol\x8are</name>"
	assert.Equal(t, "<name>Solère</name>", sanitizeAll(t, input))
}

func TestReader_KeepsValidUTF8(t *testing.T) {
	input := "<name>Solère 世界</name>"
	assert.Equal(t, input, sanitizeAll(t, input))
}

func TestReader_TruncatedUTF8FallsBackToCP437(t *testing.T) {
	// 0xC3 alone cannot complete a UTF-8 sequence; CP437 maps it to ├
	input := "x\xc3"
	assert.Equal(t, "x├", sanitizeAll(t, input))
}

func TestReader_RewritesEncodingDeclaration(t *testing.T) {
	input := `<?xml version="1.0" encoding='CP437'?><df_world></df_world>`
	want := `<?xml version="1.0" encoding="UTF-8"?><df_world></df_world>`
	assert.Equal(t, want, sanitizeAll(t, input))
}

func TestReader_Deterministic(t *testing.T) {
	input := "<a>\x00 & \x8a \xc3\xa8</a>"
	first := sanitizeAll(t, input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, sanitizeAll(t, input))
	}
}

func TestReader_LargeInputCrossesChunks(t *testing.T) {
	// place a CP437 byte either side of the chunk boundary
	var sb strings.Builder
	sb.WriteString("<name>")
	for sb.Len() < chunkSize+10 {
		sb.WriteString("abcdefgh")
	}
	sb.WriteString("\x8a</name>")
	out := sanitizeAll(t, sb.String())
	assert.True(t, strings.HasSuffix(out, "è</name>"))
}
