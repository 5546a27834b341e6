package markup

import (
	"strconv"
	"strings"

	"github.com/roboco-io/deckstream/internal/deck"
)

// IDFunc derives a node identifier from the node's structural path, for example
// "s1/b0/i2". It must be deterministic for reparses to keep identifiers stable.
type IDFunc func(path string) string

// Options configures the tree builder.
type Options struct {
	IDFunc IDFunc
	// Final marks the buffer as complete; see ScanFinal.
	Final bool
}

// Result is the output of a build.
type Result struct {
	Slides []deck.Slide
	// Open is the number of elements still open when the buffer ended.
	Open int
	// Pending is the trailing fragment the scanner could not decide yet.
	Pending string
}

// Parse scans and builds buf in one step.
func Parse(buf string, opts Options) Result {
	if opts.Final {
		return Build(ScanFinal(buf), opts)
	}
	return Build(Scan(buf), opts)
}

// Build consumes scanner events and assembles slides. Events after the first
// EndOfBuffer are ignored; a missing EndOfBuffer is treated as present.
func Build(events []Event, opts Options) Result {
	b := newBuilder(opts)
	for _, ev := range events {
		if ev.Kind == EventEndOfBuffer {
			b.pending = ev.Value
			break
		}
		b.handle(ev)
	}
	return b.finish()
}

type builder struct {
	id      IDFunc
	stack   []*frame
	opening *frame
	pending string
}

func newBuilder(opts Options) *builder {
	id := opts.IDFunc
	if id == nil {
		id = func(path string) string { return path }
	}
	root := newFrame(tagSpec{kind: kindRoot})
	return &builder{id: id, stack: []*frame{root}}
}

func (b *builder) handle(ev Event) {
	switch ev.Kind {
	case EventOpenTagStart:
		b.opening = newFrame(lookup(ev.Name))
	case EventAttribute:
		if b.opening != nil {
			b.opening.attrs[strings.ToLower(ev.Name)] = ev.Value
		}
	case EventOpenTagEnd:
		if b.opening != nil {
			b.open(b.opening, ev.SelfClosing)
			b.opening = nil
		}
	case EventCloseTag:
		b.close(ev.Name)
	case EventText, EventMalformed:
		b.text(ev.Value)
	}
}

func (b *builder) top() *frame {
	return b.stack[len(b.stack)-1]
}

func (b *builder) push(f *frame) {
	b.stack = append(b.stack, f)
}

// target is the nearest frame that is not a passthrough.
func (b *builder) target() *frame {
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].spec.kind != kindPassthrough {
			return b.stack[i]
		}
	}
	return b.stack[0]
}

func (b *builder) childPath(parent *frame, prefix string) string {
	idx := parent.children
	parent.children++
	if parent.path == "" {
		return prefix + strconv.Itoa(idx)
	}
	return parent.path + "/" + prefix + strconv.Itoa(idx)
}

func pathPrefix(k kind) string {
	switch k {
	case kindSlide:
		return "s"
	case kindItem:
		return "i"
	case kindRow:
		return "r"
	case kindLabel, kindValue:
		return "c"
	default:
		return "b"
	}
}

func (b *builder) open(f *frame, selfClosing bool) {
	if f.spec.kind == kindPassthrough {
		if !selfClosing {
			b.push(f)
		}
		return
	}

	b.closeImplicitLeaves()

	var parent *frame
	if f.spec.kind == kindSlide {
		b.closeOpenSlide()
		parent = b.target()
	} else {
		parent = b.target()
		if parent.implicit && (parent.spec.kind == kindItem || parent.spec.kind == kindRow) {
			b.closeThrough(parent)
			parent = b.target()
		}
		if parent.spec.kind == kindRoot {
			parent = b.openImplicit(parent, kindSlide)
		}
	}

	f.path = b.childPath(parent, pathPrefix(f.spec.kind))
	if f.spec.void || selfClosing {
		n := b.materialize(f)
		b.accept(parent, n)
		return
	}
	b.push(f)
}

func (b *builder) openImplicit(parent *frame, k kind) *frame {
	f := implicitFrame(k)
	f.path = b.childPath(parent, pathPrefix(k))
	b.push(f)
	return f
}

// closeImplicitLeaves closes implicit paragraphs sitting on top of the stack.
func (b *builder) closeImplicitLeaves() {
	for {
		f := b.top()
		if !f.implicit || !f.leaf() {
			return
		}
		b.pop()
	}
}

// closeOpenSlide closes the open slide, explicit or implicit, and everything
// above it. Slides never nest.
func (b *builder) closeOpenSlide() {
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].spec.kind == kindSlide {
			b.popTo(i)
			return
		}
	}
}

// closeThrough closes f and every frame above it.
func (b *builder) closeThrough(f *frame) {
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i] == f {
			b.popTo(i)
			return
		}
	}
}

func (b *builder) close(name string) {
	canonical := lookup(name).canonical
	for i := len(b.stack) - 1; i > 0; i-- {
		f := b.stack[i]
		if !f.implicit && f.spec.canonical == canonical {
			b.popTo(i)
			return
		}
	}
	// Close tag without a matching open element: ignored.
}

// popTo pops frames until the stack has exactly i frames.
func (b *builder) popTo(i int) {
	for len(b.stack) > i {
		b.pop()
	}
}

func (b *builder) pop() {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	if f.spec.kind == kindPassthrough {
		return
	}
	n := b.materialize(f)
	b.accept(b.target(), n)
}

func (b *builder) text(s string) {
	if s == "" {
		return
	}
	parent := b.target()
	if parent.structural() && isBlank(s) {
		return
	}

	switch parent.spec.kind {
	case kindRoot:
		slide := b.openImplicit(parent, kindSlide)
		b.openImplicit(slide, kindParagraph).appendText(s)
	case kindSlide, kindItem:
		b.openImplicit(parent, kindParagraph).appendText(s)
	case kindLayout:
		item := b.openImplicit(parent, kindItem)
		b.openImplicit(item, kindParagraph).appendText(s)
	case kindChart:
		b.openImplicit(parent, kindRow).label.WriteString(s)
	case kindRow:
		if parent.labelSet {
			parent.value.WriteString(s)
		} else {
			parent.label.WriteString(s)
		}
	default:
		parent.appendText(s)
	}
}

// materialize converts a frame into a node using whatever it has collected.
func (b *builder) materialize(f *frame) node {
	n := node{path: f.path}
	id := b.id(f.path)

	switch f.spec.kind {
	case kindSlide:
		n.kind = nodeSlide
		blocks := f.blocks
		if blocks == nil {
			blocks = make([]deck.Block, 0)
		}
		n.slide = deck.Slide{
			ID:        id,
			Blocks:    blocks,
			Layout:    f.slideLayout(),
			RootImage: f.rootImage,
		}
	case kindHeading:
		n.kind = nodeBlock
		n.block = deck.NewHeading(id, f.spec.level, f.text.String())
	case kindParagraph:
		n.kind = nodeBlock
		n.block = deck.NewParagraph(id, f.text.String())
	case kindLayout:
		n.kind = nodeBlock
		n.block = deck.NewLayout(id, f.spec.block)
		if f.items != nil {
			n.block.Layout.Items = f.items
		}
	case kindItem:
		n.kind = nodeItem
		n.item = deck.NewItem(id)
		if f.blocks != nil {
			n.item.Blocks = f.blocks
		}
	case kindChart:
		n.kind = nodeBlock
		n.block = deck.NewChart(id, f.attr("charttype", "chart-type", "type"))
		if f.rows != nil {
			n.block.Chart.Rows = f.rows
		}
	case kindRow:
		n.kind = nodeRow
		n.row = deck.ChartRow{Label: f.label.String(), Value: f.value.String()}
	case kindLabel:
		n.kind = nodeLabel
		n.text = f.text.String()
	case kindValue:
		n.kind = nodeValue
		n.text = f.text.String()
	case kindImage:
		n.kind = nodeBlock
		n.block = deck.NewImage(id, f.attr("query", "alt", "prompt"), f.attr("src", "url", "href"))
	case kindIcon:
		n.kind = nodeBlock
		n.block = deck.NewIcon(id, f.attr("query", "name", "icon"))
	}
	return n
}

// accept attaches n to parent, coercing it to a shape the parent can hold.
// It reports whether n survived as a node of its own rather than being
// flattened into text or into its parent's block list.
func (b *builder) accept(parent *frame, n node) bool {
	if n.kind == nodeNone {
		return false
	}

	switch parent.spec.kind {
	case kindRoot:
		if n.kind == nodeSlide {
			parent.slides = append(parent.slides, n.slide)
			return true
		}
		slide := deck.Slide{ID: b.id(n.path + "/w"), Blocks: b.asBlocks(n)}
		parent.slides = append(parent.slides, slide)
		return false

	case kindSlide:
		if n.kind == nodeBlock && n.block.Type == deck.BlockTypeImage && !parent.sawImage {
			parent.sawImage = true
			parent.rootImage = n.block.Image
			return true
		}
		if n.kind == nodeBlock && n.block.Type == deck.BlockTypeImage {
			parent.blocks = append(parent.blocks, n.block)
			return true
		}
		parent.blocks = append(parent.blocks, b.asBlocks(n)...)
		return n.kind == nodeBlock

	case kindItem:
		parent.blocks = append(parent.blocks, b.asBlocks(n)...)
		return n.kind == nodeBlock

	case kindLayout:
		if n.kind == nodeItem {
			parent.items = append(parent.items, n.item)
			return true
		}
		wrapper := deck.NewItem(b.id(n.path + "/w"))
		wrapper.Blocks = b.asBlocks(n)
		parent.items = append(parent.items, wrapper)
		return n.kind == nodeBlock

	case kindChart:
		switch n.kind {
		case nodeRow:
			parent.rows = append(parent.rows, n.row)
		case nodeValue:
			if last := len(parent.rows) - 1; last >= 0 && parent.rows[last].Value == "" {
				parent.rows[last].Value = n.text
			} else {
				parent.rows = append(parent.rows, deck.ChartRow{Value: n.text})
			}
		default:
			parent.rows = append(parent.rows, deck.ChartRow{Label: n.plainText()})
		}
		return false

	case kindRow:
		switch n.kind {
		case nodeLabel:
			parent.label.Reset()
			parent.label.WriteString(n.text)
			parent.labelSet = true
		case nodeValue:
			parent.value.Reset()
			parent.value.WriteString(n.text)
		default:
			if parent.labelSet {
				parent.value.WriteString(n.plainText())
			} else {
				parent.label.WriteString(n.plainText())
			}
		}
		return false

	default:
		parent.appendFlattened(n.plainText())
		return false
	}
}

// markSurvives reports whether a generating mark inside n outlived n being
// flattened into parent. Structural parents keep n's blocks, flags included;
// leaves and charts only keep its text.
func markSurvives(parent *frame, n node) bool {
	switch parent.spec.kind {
	case kindRoot, kindSlide, kindItem, kindLayout:
		return deck.HasGenerating([]deck.Slide{{Blocks: n.blocks()}})
	}
	return false
}

// asBlocks coerces a node into slide-level blocks.
func (b *builder) asBlocks(n node) []deck.Block {
	switch n.kind {
	case nodeBlock, nodeItem, nodeSlide:
		return n.blocks()
	}
	text := n.plainText()
	if text == "" {
		return nil
	}
	return []deck.Block{deck.NewParagraph(b.id(n.path+"/t"), text)}
}

// finish materialises every open frame. The deepest block or item gets the
// generating mark, as does the enclosing slide. When the node holding the
// mark is flattened into its parent, at any depth, the mark moves to the
// next node up that can carry it.
func (b *builder) finish() Result {
	open := 0
	armed := true
	// carrying is set while the node being materialised contains the mark.
	carrying := false
	for len(b.stack) > 1 {
		f := b.top()
		b.stack = b.stack[:len(b.stack)-1]
		if f.spec.kind == kindPassthrough {
			continue
		}
		open++

		n := b.materialize(f)
		switch {
		case n.kind == nodeSlide:
			n.setGenerating()
			armed = false
			carrying = false
		case armed && n.flaggable():
			n.setGenerating()
			armed = false
			carrying = true
		}
		parent := b.target()
		if kept := b.accept(parent, n); carrying && !kept && !markSurvives(parent, n) {
			armed = true
			carrying = false
		}
	}

	root := b.stack[0]
	slides := root.slides
	if slides == nil {
		slides = make([]deck.Slide, 0)
	}
	return Result{Slides: slides, Open: open, Pending: b.pending}
}
