package parser

import (
	"strings"

	"github.com/roboco-io/deckstream/internal/deck"
)

// entityReplacer decodes the fixed entity set. Anything else is left as written.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&nbsp;", " ",
)

// normalizeText decodes entities and collapses whitespace.
func normalizeText(s string) string {
	if s == "" {
		return s
	}
	if strings.IndexByte(s, '&') >= 0 {
		s = entityReplacer.Replace(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// normalizeSlides rewrites text fields of freshly built slides in place.
func normalizeSlides(slides []deck.Slide) {
	deck.Walk(slides, deck.Visitor{
		Slide: func(s *deck.Slide) {
			if s.RootImage != nil {
				s.RootImage.Query = normalizeText(s.RootImage.Query)
				s.RootImage.URL = strings.TrimSpace(s.RootImage.URL)
			}
		},
		Block: func(b *deck.Block) {
			switch {
			case b.Heading != nil:
				b.Heading.Text = normalizeText(b.Heading.Text)
			case b.Paragraph != nil:
				b.Paragraph.Text = normalizeText(b.Paragraph.Text)
			case b.Image != nil:
				b.Image.Query = normalizeText(b.Image.Query)
				b.Image.URL = strings.TrimSpace(b.Image.URL)
			case b.Icon != nil:
				b.Icon.Name = normalizeText(b.Icon.Name)
			case b.Chart != nil:
				b.Chart.ChartType = strings.ToLower(strings.TrimSpace(b.Chart.ChartType))
				for i := range b.Chart.Rows {
					b.Chart.Rows[i].Label = normalizeText(b.Chart.Rows[i].Label)
					b.Chart.Rows[i].Value = normalizeText(b.Chart.Rows[i].Value)
				}
			}
		},
	})
}

// stripFences removes Markdown code fence lines (```xml, ```) that models
// often wrap around markup. A trailing line that may still grow into a fence
// is removed as well.
func stripFences(text string) string {
	if strings.IndexByte(text, '`') < 0 {
		return text
	}

	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	sb.Grow(len(text))
	for i, line := range lines {
		last := i == len(lines)-1 && !strings.HasSuffix(line, "\n")
		if isFenceLine(line, last) {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func isFenceLine(line string, last bool) bool {
	s := strings.TrimSpace(line)
	ticks := 0
	for ticks < len(s) && s[ticks] == '`' {
		ticks++
	}
	if ticks == 0 || (ticks < 3 && !last) || ticks > 3 {
		return false
	}
	if ticks < 3 {
		return ticks == len(s)
	}
	for _, c := range s[ticks:] {
		if !isInfoChar(c) {
			return false
		}
	}
	return true
}

func isInfoChar(c rune) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
