// Package parser assembles streamed slide markup into a deck.
//
// A Parser is fed the whole text received so far on every call and rebuilds
// the slide list from scratch, so it can be driven directly from a cumulative
// LLM stream. It is not safe for concurrent use.
package parser

import (
	"github.com/google/uuid"

	"github.com/roboco-io/deckstream/internal/deck"
	"github.com/roboco-io/deckstream/internal/markup"
)

// Option configures a Parser.
type Option func(*Parser)

// WithNamespace sets the namespace node identifiers are derived from. Parsers
// sharing a namespace assign identical IDs to identical documents.
func WithNamespace(ns uuid.UUID) Option {
	return func(p *Parser) {
		p.namespace = ns
	}
}

// WithPathIDs makes node identifiers the raw structural paths ("s0/b1").
func WithPathIDs() Option {
	return func(p *Parser) {
		p.pathIDs = true
	}
}

// WithoutFenceStripping keeps Markdown code fence lines in the input.
func WithoutFenceStripping() Option {
	return func(p *Parser) {
		p.stripFences = false
	}
}

// Parser is the document assembler.
type Parser struct {
	namespace   uuid.UUID
	pathIDs     bool
	stripFences bool

	text      string
	slides    []deck.Slide
	open      int
	pending   string
	finalized bool
	cleared   bool
}

// New creates a parser with a fresh ID namespace.
func New(opts ...Option) *Parser {
	p := &Parser{
		namespace:   uuid.New(),
		stripFences: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset discards the current document.
func (p *Parser) Reset() {
	p.text = ""
	p.slides = make([]deck.Slide, 0)
	p.open = 0
	p.pending = ""
	p.finalized = false
	p.cleared = false
}

// ParseChunk reparses text, which must be the complete text accumulated so
// far, and replaces the current slide list.
func (p *Parser) ParseChunk(text string) {
	p.text = text
	p.finalized = false
	p.cleared = false
	p.build(false)
}

// Finalize runs the end-of-stream repair pass. A fragment that was withheld
// as undecidable is reparsed as literal text, since no more input will come.
// Generating marks are left in place; use ClearAllGeneratingMarks to remove
// them.
func (p *Parser) Finalize() {
	if p.pending != "" {
		p.build(true)
		if p.cleared {
			p.slides = clearGenerating(p.slides)
		}
	}
	p.slides = repair(p.slides, p.nodeID)
	p.finalized = true
}

func (p *Parser) build(final bool) {
	src := p.text
	if p.stripFences {
		src = stripFences(src)
	}

	res := markup.Parse(src, markup.Options{IDFunc: p.nodeID, Final: final})
	normalizeSlides(res.Slides)

	p.slides = res.Slides
	p.open = res.Open
	p.pending = res.Pending
}

// ClearAllGeneratingMarks removes every generating mark from the document.
func (p *Parser) ClearAllGeneratingMarks() {
	p.slides = clearGenerating(p.slides)
	p.cleared = true
}

// Slides returns the current slide list. The returned slides must not be
// modified; later calls never mutate a list that has been handed out.
func (p *Parser) Slides() []deck.Slide {
	return p.slides
}

// Deck wraps the current slides in a deck document.
func (p *Parser) Deck(title string) *deck.Deck {
	return deck.NewDeck(title, p.slides)
}

// Text returns the text passed to the last ParseChunk.
func (p *Parser) Text() string {
	return p.text
}

// Open returns the number of elements left open by the last parse.
func (p *Parser) Open() int {
	return p.open
}

// Pending returns the trailing fragment the last parse could not decide yet.
func (p *Parser) Pending() string {
	return p.pending
}

// Finalized reports whether Finalize ran since the last ParseChunk.
func (p *Parser) Finalized() bool {
	return p.finalized
}

func (p *Parser) nodeID(path string) string {
	if p.pathIDs {
		return path
	}
	return uuid.NewSHA1(p.namespace, []byte(path)).String()
}
