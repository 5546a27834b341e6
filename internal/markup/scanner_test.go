package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}

func TestScan_CompleteDocument(t *testing.T) {
	evs := Scan(`<SLIDE layout="left"><P>Hi</P></SLIDE>`)

	assert.Equal(t, []EventKind{
		EventOpenTagStart, EventAttribute, EventOpenTagEnd,
		EventOpenTagStart, EventOpenTagEnd,
		EventText,
		EventCloseTag,
		EventCloseTag,
		EventEndOfBuffer,
	}, kinds(evs))

	assert.Equal(t, "SLIDE", evs[0].Name)
	assert.Equal(t, "layout", evs[1].Name)
	assert.Equal(t, "left", evs[1].Value)
	assert.Equal(t, "Hi", evs[5].Value)
	assert.Equal(t, "P", evs[6].Name)
	assert.Equal(t, "", evs[8].Value)
}

func TestScan_AlwaysEndsWithSingleEndOfBuffer(t *testing.T) {
	inputs := []string{"", "plain", "<", "<P", "<P>x", "</", "<!--", "<?x", "<<>>", "a < b"}
	for _, in := range inputs {
		evs := Scan(in)
		require.NotEmpty(t, evs, in)
		count := 0
		for _, e := range evs {
			if e.Kind == EventEndOfBuffer {
				count++
			}
		}
		assert.Equal(t, 1, count, in)
		assert.Equal(t, EventEndOfBuffer, evs[len(evs)-1].Kind, in)
	}
}

func TestScan_WithholdsIncompleteConstructs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pending string
	}{
		{"bare angle bracket", "text<", "<"},
		{"tag name", "<SLIDE><H", "<H"},
		{"attribute name", "<P cla", "<P cla"},
		{"quoted value", `<IMG query="sun`, `<IMG query="sun`},
		{"unquoted value", "<P a=b", "<P a=b"},
		{"before equals", "<P a ", "<P a "},
		{"self closing slash", `<IMG query="x" /`, `<IMG query="x" /`},
		{"close tag name", "<P>x</P", "</P"},
		{"close tag marker", "<P>x</", "</"},
		{"comment", "<P>x<!-- no", "<!-- no"},
		{"comment opener", "<P>x<!-", "<!-"},
		{"declaration", "<!DOCTYPE", "<!DOCTYPE"},
		{"processing instruction", "<?xml version", "<?xml version"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evs := Scan(tc.input)
			last := evs[len(evs)-1]
			assert.Equal(t, tc.pending, last.Value)
			for _, e := range evs[:len(evs)-1] {
				assert.NotEqual(t, EventMalformed, e.Kind)
			}
		})
	}
}

func TestScanFinal_ReleasesUnterminatedConstruct(t *testing.T) {
	evs := ScanFinal(`<P title="x>Hello</P>`)

	require.Equal(t, []EventKind{EventText, EventCloseTag, EventEndOfBuffer}, kinds(evs))
	assert.Equal(t, `<P title="x>Hello`, evs[0].Value)
	assert.Equal(t, "P", evs[1].Name)
	assert.Empty(t, evs[2].Value)

	evs = ScanFinal("<P>a</P><!-- note<P>b</P>")
	last := evs[len(evs)-1]
	assert.Empty(t, last.Value)
	require.Len(t, evs, 11)
	assert.Equal(t, EventText, evs[4].Kind)
	assert.Equal(t, "<!-- note", evs[4].Value)
	assert.Equal(t, EventOpenTagStart, evs[5].Kind)
	assert.Equal(t, "P", evs[5].Name)
}

func TestScanFinal_WithholdsCutOffTail(t *testing.T) {
	evs := ScanFinal(`<P>a</P><IMG query="b`)

	last := evs[len(evs)-1]
	assert.Equal(t, EventEndOfBuffer, last.Kind)
	assert.Equal(t, `<IMG query="b`, last.Value)
	assert.Equal(t, Scan(`<P>a</P><IMG query="b`), evs)
}

func TestScan_TagOnlyEmittedWithClosingBracket(t *testing.T) {
	evs := Scan("<SLIDE")
	assert.Equal(t, []EventKind{EventEndOfBuffer}, kinds(evs))

	evs = Scan("<SLIDE>")
	assert.Equal(t, []EventKind{EventOpenTagStart, EventOpenTagEnd, EventEndOfBuffer}, kinds(evs))
}

func TestScan_Attributes(t *testing.T) {
	evs := Scan(`<IMG a="double" b='single' c=bare d e = "spaced" @x="at"/>`)

	var names, values []string
	for _, e := range evs {
		if e.Kind == EventAttribute {
			names = append(names, e.Name)
			values = append(values, e.Value)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "@x"}, names)
	assert.Equal(t, []string{"double", "single", "bare", "", "spaced", "at"}, values)

	end := evs[len(evs)-2]
	assert.Equal(t, EventOpenTagEnd, end.Kind)
	assert.True(t, end.SelfClosing)
}

func TestScan_UnquotedValueBeforeSelfClose(t *testing.T) {
	evs := Scan("<ICON name=rocket/>")

	require.Len(t, evs, 4)
	assert.Equal(t, "rocket", evs[1].Value)
	assert.True(t, evs[2].SelfClosing)
}

func TestScan_LiteralAngleBracket(t *testing.T) {
	evs := Scan("a < b <3")

	assert.Equal(t, []EventKind{EventText, EventEndOfBuffer}, kinds(evs))
	assert.Equal(t, "a < b <3", evs[0].Value)
}

func TestScan_Malformed(t *testing.T) {
	t.Run("tag interrupted by another tag", func(t *testing.T) {
		evs := Scan("<P <H1>x</H1>")
		require.Equal(t, EventMalformed, evs[0].Kind)
		assert.Equal(t, "<P ", evs[0].Value)
		assert.Equal(t, EventOpenTagStart, evs[1].Kind)
		assert.Equal(t, "H1", evs[1].Name)
	})

	t.Run("close tag without name", func(t *testing.T) {
		evs := Scan("</ >")
		require.Equal(t, EventMalformed, evs[0].Kind)
		assert.Equal(t, "</ >", evs[0].Value)
	})
}

func TestScan_SkipsCommentsAndDeclarations(t *testing.T) {
	evs := Scan("<?xml version=\"1.0\"?><!DOCTYPE deck><!-- a <P> inside --><P>x</P>")

	assert.Equal(t, []EventKind{
		EventOpenTagStart, EventOpenTagEnd, EventText, EventCloseTag, EventEndOfBuffer,
	}, kinds(evs))
}

func TestScan_CloseTagWithSpace(t *testing.T) {
	evs := Scan("</ P >")

	require.Equal(t, EventCloseTag, evs[0].Kind)
	assert.Equal(t, "P", evs[0].Name)
}

func TestScan_Offsets(t *testing.T) {
	evs := Scan("ab<P>c")

	assert.Equal(t, 0, evs[0].Offset)
	assert.Equal(t, 2, evs[1].Offset)
	assert.Equal(t, 5, evs[3].Offset)
	assert.Equal(t, 6, evs[4].Offset)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "open-tag-start", EventOpenTagStart.String())
	assert.Equal(t, "end-of-buffer", EventEndOfBuffer.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
