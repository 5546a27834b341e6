package parser

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/deckstream/internal/deck"
)

const sampleDeck = `<PRESENTATION>
<SLIDE layout="left" align="center">
  <H1>Intro</H1>
  <IMG query="city skyline at night" />
  <P>Welcome &amp; hello</P>
  <BULLETS>
    <DIV><H3>First</H3><P>One</P></DIV>
    <DIV><H3>Second</H3><P>Two</P></DIV>
  </BULLETS>
</SLIDE>
<SLIDE>
  <H2>Numbers</H2>
  <CHART charttype="bar">
    <DATA><LABEL>Q1</LABEL><VALUE>10</VALUE></DATA>
    <DATA><LABEL>Q2</LABEL><VALUE>20</VALUE></DATA>
  </CHART>
  <ICONS>
    <DIV><ICON query="rocket" /><H3>Launch</H3></DIV>
  </ICONS>
</SLIDE>
</PRESENTATION>`

func parse(t *testing.T, text string, opts ...Option) []deck.Slide {
	t.Helper()
	p := New(append([]Option{WithPathIDs()}, opts...)...)
	p.ParseChunk(text)
	return p.Slides()
}

func containsGenerating(b deck.Block) bool {
	return deck.HasGenerating([]deck.Slide{{Blocks: []deck.Block{b}}})
}

func TestParseChunk_PartialParagraph(t *testing.T) {
	p := New()

	p.Reset()
	p.ParseChunk("<SLIDE><H1>Intro</H1><P>Hel")
	partial := p.Slides()

	require.Len(t, partial, 1)
	require.Len(t, partial[0].Blocks, 2)
	assert.True(t, partial[0].Generating)
	assert.Equal(t, deck.BlockTypeHeading, partial[0].Blocks[0].Type)
	assert.Equal(t, "Intro", partial[0].Blocks[0].Heading.Text)
	assert.False(t, partial[0].Blocks[0].Generating)
	assert.Equal(t, deck.BlockTypeParagraph, partial[0].Blocks[1].Type)
	assert.Equal(t, "Hel", partial[0].Blocks[1].Paragraph.Text)
	assert.True(t, partial[0].Blocks[1].Generating)

	p.Reset()
	p.ParseChunk("<SLIDE><H1>Intro</H1><P>Hello</P></SLIDE>")
	done := p.Slides()

	require.Len(t, done, 1)
	require.Len(t, done[0].Blocks, 2)
	assert.False(t, done[0].Generating)
	assert.Equal(t, "Hello", done[0].Blocks[1].Paragraph.Text)
	assert.False(t, done[0].Blocks[1].Generating)

	assert.Equal(t, partial[0].ID, done[0].ID, "slide ID must survive completion")
	assert.Equal(t, partial[0].Blocks[1].ID, done[0].Blocks[1].ID)
}

func TestParseChunk_StrayCloseTagIsIgnored(t *testing.T) {
	with := "<SLIDE><H1>Title</H1></BULLETS><P>Body</P></SLIDE>"
	without := "<SLIDE><H1>Title</H1><P>Body</P></SLIDE>"

	p := New()
	p.ParseChunk(with)
	a := p.Slides()
	p.Reset()
	p.ParseChunk(without)
	b := p.Slides()

	assert.Equal(t, b, a)
}

func TestParseChunk_Idempotent(t *testing.T) {
	p := New()
	for i := 0; i <= len(sampleDeck); i += 7 {
		p.ParseChunk(sampleDeck[:i])
		first := p.Slides()
		p.ParseChunk(sampleDeck[:i])
		assert.Equal(t, first, p.Slides(), "prefix %d", i)
	}
}

func TestParseChunk_SharedNamespaceGivesSameIDs(t *testing.T) {
	ns := uuid.New()
	a := New(WithNamespace(ns))
	b := New(WithNamespace(ns))

	a.ParseChunk(sampleDeck)
	b.ParseChunk(sampleDeck)

	assert.Equal(t, a.Slides(), b.Slides())
	_, err := uuid.Parse(a.Slides()[0].ID)
	assert.NoError(t, err)
}

func TestParseChunk_MonotonicPrefix(t *testing.T) {
	p := New()
	p.ParseChunk(sampleDeck)
	full := p.Slides()
	require.Len(t, full, 2)
	require.False(t, deck.HasGenerating(full))

	for i := 0; i < len(sampleDeck); i++ {
		p.Reset()
		p.ParseChunk(sampleDeck[:i])
		got := p.Slides()

		require.LessOrEqual(t, len(got), len(full), "prefix %d", i)
		st := deck.Collect(got)
		require.LessOrEqual(t, st.Generating, 2, "prefix %d", i)

		for k, s := range got {
			if !s.Generating {
				require.Equal(t, full[k], s, "completed slide %d at prefix %d", k, i)
				continue
			}
			require.Equal(t, len(got)-1, k, "only the last slide may be generating (prefix %d)", i)
			require.Equal(t, full[k].ID, s.ID)
			require.LessOrEqual(t, len(s.Blocks), len(full[k].Blocks), "prefix %d", i)
			for j, b := range s.Blocks {
				if containsGenerating(b) {
					require.Equal(t, len(s.Blocks)-1, j, "generating block must be last (prefix %d)", i)
					continue
				}
				require.Equal(t, full[k].Blocks[j], b, "completed block %d of slide %d at prefix %d", j, k, i)
			}
		}
	}
}

func TestParseChunk_TruncationTolerance(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		slides int
		blocks int
	}{
		{"empty", "", 0, 0},
		{"lone angle bracket", "<", 0, 0},
		{"mid slide tag name", "<SLI", 0, 0},
		{"mid block tag name", "<SLIDE><H", 1, 0},
		{"unterminated attribute value", `<SLIDE layout="lef`, 0, 0},
		{"unterminated attribute in block", `<SLIDE><P class="ab`, 1, 0},
		{"mid image attribute", `<SLIDE><H1>A</H1><IMG query="sun`, 1, 1},
		{"mid close tag", "<SLIDE><P>x</P", 1, 1},
		{"unterminated comment", "<SLIDE><!-- note", 1, 0},
		{"dangling close marker", "<SLIDE><P>x</P></", 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var slides []deck.Slide
			require.NotPanics(t, func() { slides = parse(t, tc.input) })
			require.Len(t, slides, tc.slides)

			st := deck.Collect(slides)
			assert.Equal(t, tc.blocks, st.Blocks)
			deck.Walk(slides, deck.Visitor{Block: func(b *deck.Block) {
				assert.NotContains(t, b.Text(), "<", "fabricated markup in %q", tc.input)
			}})
		})
	}
}

func TestParseChunk_UnknownTagPassesChildrenThrough(t *testing.T) {
	slides := parse(t, "<SLIDE><H1>T</H1><FANCY glow=\"yes\"><P>inner</P><BULLETS><DIV><P>a</P></DIV></BULLETS></FANCY><P>after</P></SLIDE>")

	require.Len(t, slides, 1)
	blocks := slides[0].Blocks
	require.Len(t, blocks, 4)
	assert.Equal(t, deck.BlockTypeHeading, blocks[0].Type)
	assert.Equal(t, "inner", blocks[1].Paragraph.Text)
	assert.Equal(t, deck.BlockTypeBullets, blocks[2].Type)
	assert.Equal(t, "after", blocks[3].Paragraph.Text)
	assert.False(t, slides[0].Generating)
}

func TestParseChunk_CaseInsensitiveTags(t *testing.T) {
	lower := parse(t, "<slide><h1>T</h1><p>x</p></slide>")
	upper := parse(t, "<SLIDE><H1>T</H1><P>x</P></SLIDE>")

	assert.Equal(t, upper, lower)
}

func TestParseChunk_OverlappingCloseTags(t *testing.T) {
	slides := parse(t, "<SLIDE><BULLETS><DIV><P>a</BULLETS><P>b</P></SLIDE>")

	require.Len(t, slides, 1)
	require.Len(t, slides[0].Blocks, 2)
	bullets := slides[0].Blocks[0]
	require.Equal(t, deck.BlockTypeBullets, bullets.Type)
	require.Len(t, bullets.Layout.Items, 1)
	assert.Equal(t, "a", bullets.Layout.Items[0].Blocks[0].Paragraph.Text)
	assert.Equal(t, "b", slides[0].Blocks[1].Paragraph.Text)
}

func TestParseChunk_MissingSlideCloseStartsNewSlide(t *testing.T) {
	slides := parse(t, "<SLIDE><H1>A</H1><SLIDE><H1>B</H1></SLIDE>")

	require.Len(t, slides, 2)
	assert.False(t, slides[0].Generating)
	assert.Equal(t, "A", slides[0].Title())
	assert.Equal(t, "B", slides[1].Title())
}

func TestParseChunk_StrayTextBecomesParagraph(t *testing.T) {
	slides := parse(t, "<SLIDE><H1>T</H1>loose words <B>bold</B> more</SLIDE>")

	require.Len(t, slides, 1)
	require.Len(t, slides[0].Blocks, 2)
	assert.Equal(t, "loose words bold more", slides[0].Blocks[1].Paragraph.Text)
}

func TestParseChunk_StrayTextAtEndIsGenerating(t *testing.T) {
	slides := parse(t, "<SLIDE><H1>T</H1>still typ")

	require.Len(t, slides, 1)
	require.Len(t, slides[0].Blocks, 2)
	assert.True(t, slides[0].Blocks[1].Generating)
	assert.Equal(t, "still typ", slides[0].Blocks[1].Paragraph.Text)
}

func TestParseChunk_TextOutsideSlides(t *testing.T) {
	slides := parse(t, "Here is your deck:\n<SLIDE><H1>A</H1></SLIDE>")

	require.Len(t, slides, 2)
	assert.Equal(t, "Here is your deck:", slides[0].Blocks[0].Paragraph.Text)
	assert.Equal(t, "A", slides[1].Title())
}

func TestParseChunk_DecodesFixedEntitySet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fixed set", "Tom &amp; Jerry &lt;3 &gt; &quot;q&quot; &apos;a&apos;", `Tom & Jerry <3 > "q" 'a'`},
		{"nbsp collapses", "x&nbsp;&nbsp;y", "x y"},
		{"numeric reference stays literal", "it&#39;s", "it&#39;s"},
		{"named entity outside set stays literal", "&copy; 2024", "&copy; 2024"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slides := parse(t, "<SLIDE><P>"+tc.in+"</P></SLIDE>")
			require.Len(t, slides[0].Blocks, 1)
			assert.Equal(t, tc.want, slides[0].Blocks[0].Paragraph.Text)
		})
	}
}

func TestParseChunk_CodeFences(t *testing.T) {
	input := "```xml\n<SLIDE><H1>A</H1></SLIDE>\n```"

	assert.Len(t, parse(t, input), 1)
	assert.Len(t, parse(t, input, WithoutFenceStripping()), 3)
	assert.Len(t, parse(t, "```xml\n<SLIDE><H1>A</H1></SLIDE>\n``"), 1)
}

func TestParseChunk_SlideAttributesAndRootImage(t *testing.T) {
	slides := parse(t, sampleDeck)

	s := slides[0]
	assert.Equal(t, deck.OrientationLeft, s.Layout.Orientation)
	assert.Equal(t, deck.AlignCenter, s.Layout.Align)
	require.NotNil(t, s.RootImage)
	assert.Equal(t, "city skyline at night", s.RootImage.Query)
	assert.Equal(t, "Welcome & hello", s.Blocks[1].Paragraph.Text)

	chart := slides[1].Blocks[1]
	require.Equal(t, deck.BlockTypeChart, chart.Type)
	assert.Equal(t, "bar", chart.Chart.ChartType)
	assert.Equal(t, []deck.ChartRow{{Label: "Q1", Value: "10"}, {Label: "Q2", Value: "20"}}, chart.Chart.Rows)

	icons := slides[1].Blocks[2]
	require.Equal(t, deck.BlockTypeIcons, icons.Type)
	require.NotNil(t, icons.Layout.Items[0].Icon())
	assert.Equal(t, "rocket", icons.Layout.Items[0].Icon().Name)
}

func TestParseChunk_GeneratingMarksOnlyDeepest(t *testing.T) {
	slides := parse(t, "<SLIDE><BULLETS><DIV><H3>Point</H3><P>Deta")

	require.Len(t, slides, 1)
	st := deck.Collect(slides)
	assert.Equal(t, 2, st.Generating)

	bullets := slides[0].Blocks[0]
	assert.False(t, bullets.Generating)
	assert.False(t, bullets.Layout.Items[0].Generating)
	assert.True(t, bullets.Layout.Items[0].Blocks[1].Generating)
}

func TestParseChunk_OpenChartMarksChart(t *testing.T) {
	slides := parse(t, `<SLIDE><CHART charttype="pie"><DATA><LABEL>A</LABEL><VALUE>4`)

	require.Len(t, slides, 1)
	chart := slides[0].Blocks[0]
	assert.True(t, chart.Generating)
	assert.Equal(t, []deck.ChartRow{{Label: "A", Value: "4"}}, chart.Chart.Rows)
}

func TestFinalize_RoundTrip(t *testing.T) {
	p := New()
	p.ParseChunk(sampleDeck)
	p.Finalize()
	p.ClearAllGeneratingMarks()

	slides := p.Slides()
	require.Len(t, slides, 2)
	assert.False(t, deck.HasGenerating(slides))
	deck.Walk(slides, deck.Visitor{Block: func(b *deck.Block) {
		if b.Layout != nil {
			assert.NotEmpty(t, b.Layout.Items)
		}
	}})
	assert.True(t, p.Finalized())
}

func TestFinalize_RepairsEmptyContainers(t *testing.T) {
	p := New(WithPathIDs())
	p.ParseChunk("<SLIDE><BULLETS></BULLETS><COLUMNS><DIV></DIV></COLUMNS></SLIDE>")
	p.Finalize()

	blocks := p.Slides()[0].Blocks
	require.Len(t, blocks, 2)

	require.Len(t, blocks[0].Layout.Items, 1)
	item := blocks[0].Layout.Items[0]
	require.Len(t, item.Blocks, 1)
	assert.Equal(t, deck.BlockTypeParagraph, item.Blocks[0].Type)
	assert.Equal(t, "s0/b0/i0", item.ID)

	require.Len(t, blocks[1].Layout.Items, 1)
	require.Len(t, blocks[1].Layout.Items[0].Blocks, 1)
	assert.Equal(t, "", blocks[1].Layout.Items[0].Blocks[0].Paragraph.Text)
}

func TestFinalize_DropsTrailingEmptySlides(t *testing.T) {
	p := New()
	p.ParseChunk("<SLIDE><H1>A</H1></SLIDE><SLIDE></SLIDE><SLIDE>")
	require.Len(t, p.Slides(), 3)

	p.Finalize()

	require.Len(t, p.Slides(), 1)
	assert.Equal(t, "A", p.Slides()[0].Title())
}

func TestFinalize_KeepsGeneratingMarks(t *testing.T) {
	p := New()
	p.ParseChunk("<SLIDE><H1>Intro</H1><P>Hel")
	p.Finalize()

	assert.True(t, deck.HasGenerating(p.Slides()))

	p.ClearAllGeneratingMarks()
	assert.False(t, deck.HasGenerating(p.Slides()))

	before := p.Slides()
	p.ClearAllGeneratingMarks()
	assert.Equal(t, before, p.Slides())
}

func TestFinalize_ReleasesUnterminatedQuote(t *testing.T) {
	p := New(WithPathIDs())
	p.ParseChunk(`<SLIDE><P title="x>Hello</P></SLIDE><SLIDE><H1>Two</H1></SLIDE>`)

	require.Len(t, p.Slides(), 1)
	assert.NotEmpty(t, p.Pending())

	p.ClearAllGeneratingMarks()
	p.Finalize()

	slides := p.Slides()
	require.Len(t, slides, 2)
	require.Len(t, slides[0].Blocks, 1)
	assert.Equal(t, `<P title="x>Hello`, slides[0].Blocks[0].Paragraph.Text)
	assert.Equal(t, "Two", slides[1].Title())
	assert.Empty(t, p.Pending())
	assert.Equal(t, 0, p.Open())
	assert.False(t, deck.HasGenerating(slides))
	assert.True(t, p.Finalized())
}

func TestFinalize_ReleasesUnterminatedComment(t *testing.T) {
	p := New(WithPathIDs())
	p.ParseChunk("<SLIDE><P>a</P><!-- note</SLIDE><SLIDE><H1>Two</H1></SLIDE>")
	p.Finalize()
	p.ClearAllGeneratingMarks()

	slides := p.Slides()
	require.Len(t, slides, 2)
	require.Len(t, slides[0].Blocks, 2)
	assert.Equal(t, "a", slides[0].Blocks[0].Paragraph.Text)
	assert.Equal(t, "<!-- note", slides[0].Blocks[1].Paragraph.Text)
	assert.Equal(t, "Two", slides[1].Title())
}

func TestFinalize_DropsCutOffTail(t *testing.T) {
	p := New(WithPathIDs())
	p.ParseChunk(`<SLIDE><H1>A</H1><IMG query="sun`)
	p.Finalize()

	slides := p.Slides()
	require.Len(t, slides, 1)
	require.Len(t, slides[0].Blocks, 1)
	assert.Equal(t, "A", slides[0].Title())
	assert.Equal(t, `<IMG query="sun`, p.Pending())
}

func TestClearAllGeneratingMarks_DoesNotMutateSnapshots(t *testing.T) {
	p := New()
	p.ParseChunk("<SLIDE><BULLETS><DIV><P>x")
	snapshot := p.Slides()

	p.ClearAllGeneratingMarks()

	assert.True(t, deck.HasGenerating(snapshot))
	assert.False(t, deck.HasGenerating(p.Slides()))
}

func TestReset(t *testing.T) {
	p := New()
	p.ParseChunk(sampleDeck)
	p.Reset()

	assert.Empty(t, p.Slides())
	assert.Equal(t, "", p.Text())
	assert.Equal(t, 0, p.Open())
}

func TestParseChunk_AdversarialInput(t *testing.T) {
	inputs := []string{
		"<<<>>>",
		"</SLIDE></SLIDE><SLIDE",
		"<SLIDE><P <H1>x</H1></SLIDE>",
		"<SLIDE></>text</ >more",
		strings.Repeat("<DIV>", 200) + "deep",
		"<CHART>loose<DATA>x<LABEL>l</LABEL>y</DATA><VALUE>v</VALUE></CHART>",
		"<? pi ?><!DOCTYPE x><SLIDE a=b c d='e'>t</SLIDE>",
	}

	for _, in := range inputs {
		p := New()
		require.NotPanics(t, func() {
			p.ParseChunk(in)
			p.Finalize()
			p.ClearAllGeneratingMarks()
		}, in)
		assert.False(t, deck.HasGenerating(p.Slides()), in)
	}
}
