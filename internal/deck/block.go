package deck

import "strings"

// BlockType identifies the variant held by a Block.
type BlockType string

const (
	BlockTypeHeading   BlockType = "heading"
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeImage     BlockType = "image"
	BlockTypeIcon      BlockType = "icon"
	BlockTypeChart     BlockType = "chart"

	// Layout containers. All of them carry a LayoutBlock.
	BlockTypeColumns   BlockType = "columns"
	BlockTypeBullets   BlockType = "bullets"
	BlockTypeIcons     BlockType = "icons"
	BlockTypeCycle     BlockType = "cycle"
	BlockTypeArrows    BlockType = "arrows"
	BlockTypeTimeline  BlockType = "timeline"
	BlockTypePyramid   BlockType = "pyramid"
	BlockTypeStaircase BlockType = "staircase"
)

// LayoutTypes lists the layout container variants in declaration order.
var LayoutTypes = []BlockType{
	BlockTypeColumns,
	BlockTypeBullets,
	BlockTypeIcons,
	BlockTypeCycle,
	BlockTypeArrows,
	BlockTypeTimeline,
	BlockTypePyramid,
	BlockTypeStaircase,
}

// IsLayout reports whether t is a layout container type.
func (t BlockType) IsLayout() bool {
	for _, lt := range LayoutTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// Block is a content node on a slide. Exactly one variant pointer matching Type is set.
type Block struct {
	ID         string          `json:"id"`
	Type       BlockType       `json:"type"`
	Generating bool            `json:"generating,omitempty"`
	Heading    *HeadingBlock   `json:"heading,omitempty"`
	Paragraph  *ParagraphBlock `json:"paragraph,omitempty"`
	Layout     *LayoutBlock    `json:"layout,omitempty"`
	Image      *ImageBlock     `json:"image,omitempty"`
	Icon       *IconBlock      `json:"icon,omitempty"`
	Chart      *ChartBlock     `json:"chart,omitempty"`
}

// HeadingBlock is a heading of level 1 to 3.
type HeadingBlock struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ParagraphBlock is a run of body text.
type ParagraphBlock struct {
	Text string `json:"text"`
}

// NewHeading creates a heading block. Levels are clamped to 1..3.
func NewHeading(id string, level int, text string) Block {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return Block{
		ID:      id,
		Type:    BlockTypeHeading,
		Heading: &HeadingBlock{Level: level, Text: text},
	}
}

// NewParagraph creates a paragraph block.
func NewParagraph(id, text string) Block {
	return Block{
		ID:        id,
		Type:      BlockTypeParagraph,
		Paragraph: &ParagraphBlock{Text: text},
	}
}

// NewLayout creates an empty layout container of the given type.
func NewLayout(id string, t BlockType) Block {
	return Block{
		ID:     id,
		Type:   t,
		Layout: &LayoutBlock{Items: make([]Item, 0)},
	}
}

// NewImage creates an image block.
func NewImage(id, query, url string) Block {
	return Block{
		ID:    id,
		Type:  BlockTypeImage,
		Image: &ImageBlock{Query: query, URL: url},
	}
}

// NewIcon creates an icon block.
func NewIcon(id, name string) Block {
	return Block{
		ID:   id,
		Type: BlockTypeIcon,
		Icon: &IconBlock{Name: name},
	}
}

// NewChart creates an empty chart block.
func NewChart(id, chartType string) Block {
	return Block{
		ID:    id,
		Type:  BlockTypeChart,
		Chart: &ChartBlock{ChartType: chartType, Rows: make([]ChartRow, 0)},
	}
}

// Text returns the inline text of a heading or paragraph block.
func (b Block) Text() string {
	switch {
	case b.Heading != nil:
		return b.Heading.Text
	case b.Paragraph != nil:
		return b.Paragraph.Text
	}
	return ""
}

// PlainText flattens the block and its descendants into space separated text.
func (b Block) PlainText() string {
	var parts []string
	switch {
	case b.Heading != nil:
		parts = append(parts, b.Heading.Text)
	case b.Paragraph != nil:
		parts = append(parts, b.Paragraph.Text)
	case b.Layout != nil:
		for _, item := range b.Layout.Items {
			for _, child := range item.Blocks {
				parts = append(parts, child.PlainText())
			}
		}
	case b.Image != nil:
		parts = append(parts, b.Image.Query)
	case b.Icon != nil:
		parts = append(parts, b.Icon.Name)
	case b.Chart != nil:
		for _, row := range b.Chart.Rows {
			parts = append(parts, row.Label, row.Value)
		}
	}
	return strings.Join(nonEmpty(parts), " ")
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	if b.Heading != nil {
		h := *b.Heading
		out.Heading = &h
	}
	if b.Paragraph != nil {
		p := *b.Paragraph
		out.Paragraph = &p
	}
	if b.Layout != nil {
		out.Layout = &LayoutBlock{Items: make([]Item, len(b.Layout.Items))}
		for i, item := range b.Layout.Items {
			out.Layout.Items[i] = item.Clone()
		}
	}
	if b.Image != nil {
		img := *b.Image
		out.Image = &img
	}
	if b.Icon != nil {
		icon := *b.Icon
		out.Icon = &icon
	}
	if b.Chart != nil {
		c := *b.Chart
		if b.Chart.Rows != nil {
			c.Rows = make([]ChartRow, len(b.Chart.Rows))
			copy(c.Rows, b.Chart.Rows)
		}
		out.Chart = &c
	}
	return out
}

func cloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i := range blocks {
		out[i] = blocks[i].Clone()
	}
	return out
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
