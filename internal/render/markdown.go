// Package render turns slide lists into Markdown and terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/roboco-io/deckstream/internal/deck"
)

// SlideSeparator separates slides in Markdown output.
const SlideSeparator = "---\n\n"

// Markdown converts slides to Markdown. Icon grid items without an icon get a
// fallback from a fresh IconPicker.
func Markdown(slides []deck.Slide) string {
	return MarkdownWithIcons(slides, NewIconPicker(nil))
}

// MarkdownWithIcons is Markdown with a caller supplied icon picker.
func MarkdownWithIcons(slides []deck.Slide, picker *IconPicker) string {
	if picker != nil {
		slides = picker.Assign(slides)
	}

	var sb strings.Builder
	for i := range slides {
		if i > 0 {
			sb.WriteString(SlideSeparator)
		}
		writeSlide(&sb, &slides[i])
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeSlide(sb *strings.Builder, s *deck.Slide) {
	if s.RootImage != nil {
		writeImage(sb, s.RootImage)
	}
	for _, b := range s.Blocks {
		writeBlock(sb, b)
	}
	if s.Generating {
		sb.WriteString("_…_\n\n")
	}
}

func writeBlock(sb *strings.Builder, b deck.Block) {
	switch {
	case b.Heading != nil:
		text := strings.TrimSpace(b.Heading.Text)
		if text == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", b.Heading.Level), text))
	case b.Paragraph != nil:
		text := strings.TrimSpace(b.Paragraph.Text)
		if text == "" {
			return
		}
		sb.WriteString(text + "\n\n")
	case b.Image != nil:
		writeImage(sb, b.Image)
	case b.Icon != nil:
		if b.Icon.Name != "" {
			sb.WriteString(fmt.Sprintf("[icon: %s]\n\n", b.Icon.Name))
		}
	case b.Chart != nil:
		writeChart(sb, b.Chart)
	case b.Layout != nil:
		writeLayout(sb, b.Type, b.Layout)
	}
}

func writeImage(sb *strings.Builder, img *deck.ImageBlock) {
	path := img.URL
	if path == "" {
		path = "#"
	}
	sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", img.Query, path))
}

func writeChart(sb *strings.Builder, c *deck.ChartBlock) {
	if len(c.Rows) == 0 {
		return
	}
	if c.ChartType != "" {
		sb.WriteString(fmt.Sprintf("_%s chart_\n\n", c.ChartType))
	}
	sb.WriteString("| Label | Value |\n| --- | --- |\n")
	for _, row := range c.Rows {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", escapeCell(row.Label), escapeCell(row.Value)))
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// orderedLayouts are containers whose items have a sequence.
var orderedLayouts = map[deck.BlockType]bool{
	deck.BlockTypeTimeline:  true,
	deck.BlockTypeStaircase: true,
	deck.BlockTypeArrows:    true,
	deck.BlockTypeCycle:     true,
	deck.BlockTypePyramid:   true,
}

func writeLayout(sb *strings.Builder, t deck.BlockType, l *deck.LayoutBlock) {
	written := 0
	for _, item := range l.Items {
		line := itemLine(item)
		if line == "" {
			continue
		}
		written++
		if orderedLayouts[t] {
			sb.WriteString(fmt.Sprintf("%d. %s\n", written, line))
		} else {
			sb.WriteString("- " + line + "\n")
		}
	}
	if written > 0 {
		sb.WriteString("\n")
	}
}

// itemLine flattens an item into a single list entry.
func itemLine(item deck.Item) string {
	var parts []string
	for _, b := range item.Blocks {
		switch {
		case b.Icon != nil && b.Icon.Name != "":
			parts = append(parts, fmt.Sprintf("[%s]", b.Icon.Name))
		case b.Heading != nil && b.Heading.Text != "":
			parts = append(parts, "**"+b.Heading.Text+"**")
		case b.Image != nil:
			parts = append(parts, fmt.Sprintf("![%s](%s)", b.Image.Query, b.Image.URL))
		case b.Layout != nil, b.Chart != nil:
			if text := b.PlainText(); text != "" {
				parts = append(parts, text)
			}
		default:
			if text := b.Text(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}
