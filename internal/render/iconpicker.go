package render

import (
	"strings"

	"github.com/roboco-io/deckstream/internal/deck"
)

// DefaultIcons is the fallback icon pool.
var DefaultIcons = []string{
	"star", "rocket", "lightbulb", "target", "chart", "shield", "globe", "users",
	"clock", "heart", "leaf", "gear", "book", "flag", "trophy", "compass",
}

// IconPicker assigns fallback icons within one document. It prefers icons
// named in the item text and avoids repeats until the pool is exhausted.
// A picker is not safe for concurrent use; create one per document.
type IconPicker struct {
	pool []string
	used map[string]bool
	next int
}

// NewIconPicker creates a picker over pool, or DefaultIcons when pool is empty.
func NewIconPicker(pool []string) *IconPicker {
	if len(pool) == 0 {
		pool = DefaultIcons
	}
	return &IconPicker{pool: pool, used: make(map[string]bool)}
}

// Use records name as taken.
func (p *IconPicker) Use(name string) {
	if name != "" {
		p.used[strings.ToLower(name)] = true
	}
}

// Pick returns an icon for an item described by hint.
func (p *IconPicker) Pick(hint string) string {
	for _, word := range strings.Fields(strings.ToLower(hint)) {
		word = strings.Trim(word, ".,:;!?()\"'")
		for _, name := range p.pool {
			if word == name && !p.used[name] {
				p.used[name] = true
				return name
			}
		}
	}

	for range p.pool {
		name := p.pool[p.next%len(p.pool)]
		p.next++
		if !p.used[name] {
			p.used[name] = true
			return name
		}
	}

	// Pool exhausted: start over.
	clear(p.used)
	name := p.pool[p.next%len(p.pool)]
	p.next++
	p.used[name] = true
	return name
}

// Assign returns slides where every icon grid item has an icon. Icons already
// present are reserved first. slides is not modified.
func (p *IconPicker) Assign(slides []deck.Slide) []deck.Slide {
	missing := false
	deck.Walk(slides, deck.Visitor{
		Block: func(b *deck.Block) {
			if b.Icon != nil {
				p.Use(b.Icon.Name)
			}
			if b.Type == deck.BlockTypeIcons && b.Layout != nil {
				for _, it := range b.Layout.Items {
					if it.Icon() == nil {
						missing = true
					}
				}
			}
		},
	})
	if !missing {
		return slides
	}

	out := deck.CloneSlides(slides)
	deck.Walk(out, deck.Visitor{
		Block: func(b *deck.Block) {
			if b.Type != deck.BlockTypeIcons || b.Layout == nil {
				return
			}
			for i := range b.Layout.Items {
				it := &b.Layout.Items[i]
				if it.Icon() != nil {
					continue
				}
				name := p.Pick(itemText(*it))
				icon := deck.NewIcon(it.ID+"/icon", name)
				it.Blocks = append([]deck.Block{icon}, it.Blocks...)
			}
		},
	})
	return out
}

func itemText(it deck.Item) string {
	parts := make([]string, 0, len(it.Blocks))
	for _, b := range it.Blocks {
		parts = append(parts, b.PlainText())
	}
	return strings.Join(parts, " ")
}
