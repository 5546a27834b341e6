package markup

import (
	"strings"

	"github.com/roboco-io/deckstream/internal/deck"
)

// frame is an open element on the builder stack.
type frame struct {
	spec     tagSpec
	implicit bool // opened by the builder to hold stray content
	path     string
	attrs    map[string]string
	children int // child path counter

	text      strings.Builder  // heading, paragraph, label, value
	blocks    []deck.Block     // slide, item
	items     []deck.Item      // layout
	rows      []deck.ChartRow  // chart
	label     strings.Builder  // row
	value     strings.Builder  // row
	labelSet  bool             // row label came from a LABEL element
	rootImage *deck.ImageBlock // slide
	sawImage  bool             // slide
	slides    []deck.Slide     // root
}

func newFrame(spec tagSpec) *frame {
	return &frame{spec: spec, attrs: make(map[string]string)}
}

func implicitFrame(k kind) *frame {
	f := newFrame(tagSpec{kind: k})
	f.implicit = true
	if k == kindParagraph {
		f.spec.block = deck.BlockTypeParagraph
	}
	return f
}

// structural frames ignore whitespace-only text and coerce other text into
// implicit children.
func (f *frame) structural() bool {
	switch f.spec.kind {
	case kindRoot, kindSlide, kindLayout, kindItem, kindChart, kindRow:
		return true
	}
	return false
}

func (f *frame) leaf() bool {
	switch f.spec.kind {
	case kindHeading, kindParagraph, kindLabel, kindValue:
		return true
	}
	return false
}

func (f *frame) attr(names ...string) string {
	for _, name := range names {
		if v, ok := f.attrs[name]; ok {
			return v
		}
	}
	return ""
}

// appendText adds inline text to a leaf frame.
func (f *frame) appendText(s string) {
	f.text.WriteString(s)
}

// appendFlattened adds the text of a flattened child, keeping words apart.
func (f *frame) appendFlattened(s string) {
	if s == "" {
		return
	}
	if f.text.Len() > 0 && !endsWithSpace(f.text.String()) {
		f.text.WriteByte(' ')
	}
	f.text.WriteString(s)
}

func (f *frame) slideLayout() deck.SlideLayout {
	return deck.SlideLayout{
		Orientation:     deck.ParseOrientation(strings.ToLower(f.attr("layout", "orientation"))),
		BackgroundColor: f.attr("bg-color", "bg", "background-color", "background"),
		Width:           deck.ParseWidth(f.attr("width")),
		Align:           deck.ParseAlignment(strings.ToLower(f.attr("align", "alignment"))),
		HeadingColor:    f.attr("heading-color"),
		BodyColor:       f.attr("body-color"),
		HeadingFont:     f.attr("heading-font"),
		BodyFont:        f.attr("body-font"),
	}
}

func endsWithSpace(s string) bool {
	return s != "" && isSpace(s[len(s)-1])
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}

// nodeKind identifies what a closed frame materialised into.
type nodeKind int

const (
	nodeNone nodeKind = iota
	nodeSlide
	nodeBlock
	nodeItem
	nodeRow
	nodeLabel
	nodeValue
)

// node is a materialised frame on its way to the parent frame.
type node struct {
	kind  nodeKind
	path  string
	slide deck.Slide
	block deck.Block
	item  deck.Item
	row   deck.ChartRow
	text  string
}

// flaggable reports whether the node may carry the generating mark itself.
func (n *node) flaggable() bool {
	return n.kind == nodeBlock || n.kind == nodeItem
}

func (n *node) setGenerating() {
	switch n.kind {
	case nodeSlide:
		n.slide.Generating = true
	case nodeBlock:
		n.block.Generating = true
	case nodeItem:
		n.item.Generating = true
	}
}

// plainText is the text a node contributes when flattened into a leaf.
func (n *node) plainText() string {
	switch n.kind {
	case nodeBlock:
		return n.block.PlainText()
	case nodeItem:
		parts := make([]string, 0, len(n.item.Blocks))
		for _, b := range n.item.Blocks {
			if t := b.PlainText(); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	case nodeRow:
		return strings.TrimSpace(n.row.Label + " " + n.row.Value)
	case nodeLabel, nodeValue:
		return n.text
	case nodeSlide:
		parts := make([]string, 0, len(n.slide.Blocks))
		for _, b := range n.slide.Blocks {
			if t := b.PlainText(); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// blocks returns the node as a list of slide-level blocks.
func (n *node) blocks() []deck.Block {
	switch n.kind {
	case nodeBlock:
		return []deck.Block{n.block}
	case nodeItem:
		return n.item.Blocks
	case nodeSlide:
		return n.slide.Blocks
	}
	return nil
}
