package deck

// Visitor receives every slide, block and item of a deck in document order.
// Pointers refer to the visited slice elements and may be modified in place.
type Visitor struct {
	Slide func(s *Slide)
	Block func(b *Block)
	Item  func(it *Item)
}

// Walk visits slides depth first.
func Walk(slides []Slide, v Visitor) {
	for i := range slides {
		s := &slides[i]
		if v.Slide != nil {
			v.Slide(s)
		}
		walkBlocks(s.Blocks, v)
	}
}

func walkBlocks(blocks []Block, v Visitor) {
	for i := range blocks {
		b := &blocks[i]
		if v.Block != nil {
			v.Block(b)
		}
		if b.Layout == nil {
			continue
		}
		for j := range b.Layout.Items {
			it := &b.Layout.Items[j]
			if v.Item != nil {
				v.Item(it)
			}
			walkBlocks(it.Blocks, v)
		}
	}
}

// Stats summarizes a slide list.
type Stats struct {
	Slides     int `json:"slides"`
	Blocks     int `json:"blocks"`
	Items      int `json:"items"`
	Generating int `json:"generating"`
}

// Collect computes statistics over slides.
func Collect(slides []Slide) Stats {
	var st Stats
	Walk(slides, Visitor{
		Slide: func(s *Slide) {
			st.Slides++
			if s.Generating {
				st.Generating++
			}
		},
		Block: func(b *Block) {
			st.Blocks++
			if b.Generating {
				st.Generating++
			}
		},
		Item: func(it *Item) {
			st.Items++
			if it.Generating {
				st.Generating++
			}
		},
	})
	return st
}

// HasGenerating reports whether any node in slides is marked as generating.
func HasGenerating(slides []Slide) bool {
	return Collect(slides).Generating > 0
}
