package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSlide() Slide {
	s := NewSlide("s0")
	s.AddBlock(NewHeading("s0/b0", 1, "Intro"))

	bullets := NewLayout("s0/b1", BlockTypeBullets)
	item := NewItem("s0/b1/i0")
	item.Blocks = append(item.Blocks, NewHeading("s0/b1/i0/b0", 3, "Point"), NewParagraph("s0/b1/i0/b1", "Detail"))
	bullets.Layout.AddItem(item)
	s.AddBlock(bullets)

	chart := NewChart("s0/b2", "bar")
	chart.Chart.AddRow("Q1", "10")
	s.AddBlock(chart)
	return *s
}

func TestNewDeck(t *testing.T) {
	d := NewDeck("Title", nil)

	assert.Equal(t, Version, d.Version)
	assert.NotNil(t, d.Slides)
	assert.Empty(t, d.Slides)
}

func TestNewHeading_ClampsLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{0, 1},
		{1, 1},
		{3, 3},
		{6, 3},
	}

	for _, tc := range tests {
		b := NewHeading("h", tc.level, "x")
		assert.Equal(t, tc.expected, b.Heading.Level, "level %d", tc.level)
	}
}

func TestBlockType_IsLayout(t *testing.T) {
	for _, lt := range LayoutTypes {
		assert.True(t, lt.IsLayout(), string(lt))
	}
	assert.False(t, BlockTypeHeading.IsLayout())
	assert.False(t, BlockTypeChart.IsLayout())
}

func TestSlide_Title(t *testing.T) {
	s := sampleSlide()
	assert.Equal(t, "Intro", s.Title())

	empty := NewSlide("x")
	assert.Equal(t, "", empty.Title())
	assert.True(t, empty.IsEmpty())
}

func TestBlock_PlainText(t *testing.T) {
	s := sampleSlide()

	assert.Equal(t, "Point Detail", s.Blocks[1].PlainText())
	assert.Equal(t, "Q1 10", s.Blocks[2].PlainText())
}

func TestSlide_CloneIsDeep(t *testing.T) {
	s := sampleSlide()
	s.RootImage = &ImageBlock{Query: "mountains"}

	c := s.Clone()
	c.Blocks[0].Heading.Text = "Changed"
	c.Blocks[1].Layout.Items[0].Blocks[1].Paragraph.Text = "Changed"
	c.Blocks[2].Chart.Rows[0].Value = "99"
	c.RootImage.Query = "sea"

	assert.Equal(t, "Intro", s.Blocks[0].Heading.Text)
	assert.Equal(t, "Detail", s.Blocks[1].Layout.Items[0].Blocks[1].Paragraph.Text)
	assert.Equal(t, "10", s.Blocks[2].Chart.Rows[0].Value)
	assert.Equal(t, "mountains", s.RootImage.Query)
}

func TestCollect(t *testing.T) {
	slides := []Slide{sampleSlide()}
	slides[0].Generating = true
	slides[0].Blocks[1].Layout.Items[0].Blocks[1].Generating = true

	st := Collect(slides)

	assert.Equal(t, 1, st.Slides)
	assert.Equal(t, 5, st.Blocks)
	assert.Equal(t, 1, st.Items)
	assert.Equal(t, 2, st.Generating)
	assert.True(t, HasGenerating(slides))
}

func TestParseAttributes(t *testing.T) {
	assert.Equal(t, OrientationLeft, ParseOrientation("left"))
	assert.Equal(t, OrientationNone, ParseOrientation("diagonal"))
	assert.Equal(t, WidthLarge, ParseWidth("l"))
	assert.Equal(t, WidthNone, ParseWidth("XL"))
	assert.Equal(t, AlignCenter, ParseAlignment("center"))
	assert.Equal(t, AlignNone, ParseAlignment("middle"))
}

func TestDeck_JSONShape(t *testing.T) {
	d := NewDeck("Demo", []Slide{sampleSlide()})

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	slides, ok := raw["slides"].([]any)
	require.True(t, ok)
	require.Len(t, slides, 1)

	first := slides[0].(map[string]any)
	blocks := first["blocks"].([]any)
	bullets := blocks[1].(map[string]any)
	assert.Equal(t, "bullets", bullets["type"])
	assert.NotContains(t, first, "generating")
}
