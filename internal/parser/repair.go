package parser

import "github.com/roboco-io/deckstream/internal/deck"

// repair returns a structurally complete copy of slides:
//   - trailing slides without any content are dropped,
//   - layout containers without items get one item holding an empty paragraph,
//   - items without blocks get an empty paragraph.
func repair(slides []deck.Slide, id func(string) string) []deck.Slide {
	end := len(slides)
	for end > 0 && slides[end-1].IsEmpty() {
		end--
	}
	out := deck.CloneSlides(slides[:end])
	if out == nil {
		out = make([]deck.Slide, 0)
	}

	deck.Walk(out, deck.Visitor{
		Block: func(b *deck.Block) {
			if b.Layout == nil || !b.Layout.IsEmpty() {
				return
			}
			item := deck.NewItem(id(b.ID + "/i0"))
			item.Blocks = append(item.Blocks, deck.NewParagraph(id(b.ID+"/i0/b0"), ""))
			b.Layout.AddItem(item)
		},
		Item: func(it *deck.Item) {
			if len(it.Blocks) == 0 {
				it.Blocks = append(it.Blocks, deck.NewParagraph(id(it.ID+"/b0"), ""))
			}
		},
	})
	return out
}

// clearGenerating returns a copy of slides without generating marks.
func clearGenerating(slides []deck.Slide) []deck.Slide {
	if !deck.HasGenerating(slides) {
		return slides
	}
	out := deck.CloneSlides(slides)
	deck.Walk(out, deck.Visitor{
		Slide: func(s *deck.Slide) { s.Generating = false },
		Block: func(b *deck.Block) { b.Generating = false },
		Item:  func(it *deck.Item) { it.Generating = false },
	})
	return out
}
