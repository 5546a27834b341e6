// Package markup turns slide-deck markup into a tree of slides.
//
// Scanning and tree building are both total: any input, including a buffer
// truncated in the middle of a tag, yields a best-effort result and never an
// error. The streaming assembler in package parser builds on these two steps.
package markup

import "fmt"

// EventKind identifies a lexical event produced by the scanner.
type EventKind int

const (
	EventOpenTagStart EventKind = iota
	EventAttribute
	EventOpenTagEnd
	EventCloseTag
	EventText
	EventMalformed
	EventEndOfBuffer
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventOpenTagStart:
		return "open-tag-start"
	case EventAttribute:
		return "attribute"
	case EventOpenTagEnd:
		return "open-tag-end"
	case EventCloseTag:
		return "close-tag"
	case EventText:
		return "text"
	case EventMalformed:
		return "malformed"
	case EventEndOfBuffer:
		return "end-of-buffer"
	default:
		return "unknown"
	}
}

// Event is a single lexical event.
//
// Name holds the tag or attribute name as written. Value holds the attribute
// value, the text content, the raw malformed fragment, or for EndOfBuffer the
// trailing fragment that could not be decided yet.
type Event struct {
	Kind        EventKind
	Name        string
	Value       string
	SelfClosing bool
	Offset      int // byte offset of the construct in the buffer
}

func (e Event) String() string {
	switch e.Kind {
	case EventOpenTagStart, EventCloseTag:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Name)
	case EventAttribute:
		return fmt.Sprintf("%s(%s=%q)", e.Kind, e.Name, e.Value)
	case EventOpenTagEnd:
		return fmt.Sprintf("%s(self-closing=%t)", e.Kind, e.SelfClosing)
	default:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Value)
	}
}
