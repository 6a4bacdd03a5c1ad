package xmlstream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) ([]Event, error) {
	t.Helper()
	tok := NewTokenizer(strings.NewReader(input))
	var events []Event
	for {
		ev, err := tok.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

func TestTokenizer_EmitsElementEvents(t *testing.T) {
	events, err := collect(t, "<df_world><region><id>0</id></region></df_world>")
	require.NoError(t, err)

	want := []Event{
		{Kind: StartElement, Name: "df_world"},
		{Kind: StartElement, Name: "region"},
		{Kind: StartElement, Name: "id"},
		{Kind: Text, Text: "0"},
		{Kind: EndElement, Name: "id"},
		{Kind: EndElement, Name: "region"},
		{Kind: EndElement, Name: "df_world"},
	}
	assert.Equal(t, want, events)
}

func TestTokenizer_CoalescesSplitCharData(t *testing.T) {
	// the entity splits the character data into three decoder tokens
	events, err := collect(t, "<a><n>Bodices &amp; Blood</n></a>")
	require.NoError(t, err)

	var texts []string
	for _, ev := range events {
		if ev.Kind == Text {
			texts = append(texts, ev.Text)
		}
	}
	assert.Equal(t, []string{"Bodices & Blood"}, texts)
}

func TestTokenizer_TrimsAndSkipsWhitespaceText(t *testing.T) {
	events, err := collect(t, "<a>\n  <n>  x  </n>\n</a>")
	require.NoError(t, err)

	want := []Event{
		{Kind: StartElement, Name: "a"},
		{Kind: StartElement, Name: "n"},
		{Kind: Text, Text: "x"},
		{Kind: EndElement, Name: "n"},
		{Kind: EndElement, Name: "a"},
	}
	assert.Equal(t, want, events)
}

func TestTokenizer_CleanEOF(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("<a></a>"))
	for {
		_, err := tok.Next()
		if err != nil {
			assert.Equal(t, io.EOF, err)
			break
		}
	}
	assert.Equal(t, 0, tok.Depth())
}

func TestTokenizer_TruncatedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"mid element", "<df_world><region><id>4"},
		{"open tags", "<df_world><region>"},
		{"mid tag", "<df_world><regi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncated), "got %v", err)

			var trunc *TruncatedError
			require.True(t, errors.As(err, &trunc))
			assert.Greater(t, trunc.Offset, int64(0))
		})
	}
}

func TestTokenizer_DepthTracking(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("<a><b><c></c></b></a>"))

	depths := make(map[string]int)
	for {
		ev, err := tok.Next()
		if err != nil {
			break
		}
		if ev.Kind == StartElement {
			depths[ev.Name] = tok.Depth()
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, depths)
}
