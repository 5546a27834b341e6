package markup

import "strings"

// tagStatus is the outcome of scanning a construct starting at '<'.
type tagStatus int

const (
	tagLiteral    tagStatus = iota // '<' does not start a tag and is plain text
	tagIncomplete                  // buffer ends before the construct can be decided
	tagDone                        // construct scanned; events (possibly none) emitted
)

// Scan tokenizes the whole buffer. The returned slice always ends with a single
// EndOfBuffer event. Scan never fails: a construct cut off by the end of the
// buffer is withheld and reported as the EndOfBuffer's pending fragment.
func Scan(buf string) []Event {
	s := &scanner{buf: buf}
	s.run()
	return s.events
}

// ScanFinal tokenizes a buffer that will not grow any more. A construct that
// never completes but runs over later markup is not withheld: its '<' is
// taken as literal text and scanning resumes right after it, so the content
// behind it is kept. A plain cut-off tail such as `<IMG query="a` is still
// withheld.
func ScanFinal(buf string) []Event {
	s := &scanner{buf: buf, final: true}
	s.run()
	return s.events
}

type scanner struct {
	buf    string
	final  bool
	events []Event
}

func (s *scanner) run() {
	n := len(s.buf)
	textStart := 0
	i := 0
	for i < n {
		if s.buf[i] != '<' {
			i++
			continue
		}

		evs, next, status := s.construct(i)
		switch status {
		case tagLiteral:
			i++
		case tagIncomplete:
			if s.final && strings.ContainsAny(s.buf[i+1:], "<>") {
				i++
				continue
			}
			s.text(textStart, i)
			s.emit(Event{Kind: EventEndOfBuffer, Value: s.buf[i:], Offset: i})
			return
		case tagDone:
			s.text(textStart, i)
			s.events = append(s.events, evs...)
			i = next
			textStart = i
		}
	}
	s.text(textStart, n)
	s.emit(Event{Kind: EventEndOfBuffer, Offset: n})
}

func (s *scanner) emit(e Event) {
	s.events = append(s.events, e)
}

func (s *scanner) text(from, to int) {
	if to > from {
		s.emit(Event{Kind: EventText, Value: s.buf[from:to], Offset: from})
	}
}

// construct scans the markup construct starting at s.buf[i] == '<'.
func (s *scanner) construct(i int) ([]Event, int, tagStatus) {
	n := len(s.buf)
	if i+1 >= n {
		return nil, 0, tagIncomplete
	}

	switch c := s.buf[i+1]; {
	case c == '!':
		return s.skipBang(i)
	case c == '?':
		end := strings.Index(s.buf[i+2:], "?>")
		if end < 0 {
			return nil, 0, tagIncomplete
		}
		return nil, i + 2 + end + 2, tagDone
	case c == '/':
		return s.closeTag(i)
	case isNameStart(c):
		return s.openTag(i)
	default:
		return nil, 0, tagLiteral
	}
}

// skipBang skips comments and declarations.
func (s *scanner) skipBang(i int) ([]Event, int, tagStatus) {
	rest := s.buf[i:]
	if strings.HasPrefix(rest, "<!--") {
		end := strings.Index(rest[4:], "-->")
		if end < 0 {
			return nil, 0, tagIncomplete
		}
		return nil, i + 4 + end + 3, tagDone
	}
	if strings.HasPrefix("<!--", rest) {
		return nil, 0, tagIncomplete
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return nil, 0, tagIncomplete
	}
	return nil, i + end + 1, tagDone
}

func (s *scanner) closeTag(i int) ([]Event, int, tagStatus) {
	n := len(s.buf)
	j := skipSpace(s.buf, i+2)
	nameStart := j
	for j < n && isNameChar(s.buf[j]) {
		j++
	}
	if j >= n {
		return nil, 0, tagIncomplete
	}
	name := s.buf[nameStart:j]

	end := strings.IndexByte(s.buf[j:], '>')
	if end < 0 {
		return nil, 0, tagIncomplete
	}
	next := j + end + 1
	if name == "" {
		return []Event{{Kind: EventMalformed, Value: s.buf[i:next], Offset: i}}, next, tagDone
	}
	return []Event{{Kind: EventCloseTag, Name: name, Offset: i}}, next, tagDone
}

func (s *scanner) openTag(i int) ([]Event, int, tagStatus) {
	n := len(s.buf)
	j := i + 1
	for j < n && isNameChar(s.buf[j]) {
		j++
	}
	if j >= n {
		return nil, 0, tagIncomplete
	}

	evs := []Event{{Kind: EventOpenTagStart, Name: s.buf[i+1 : j], Offset: i}}
	for {
		j = skipSpace(s.buf, j)
		if j >= n {
			return nil, 0, tagIncomplete
		}

		switch c := s.buf[j]; {
		case c == '>':
			evs = append(evs, Event{Kind: EventOpenTagEnd, Offset: j})
			return evs, j + 1, tagDone
		case c == '/':
			if j+1 >= n {
				return nil, 0, tagIncomplete
			}
			if s.buf[j+1] == '>' {
				evs = append(evs, Event{Kind: EventOpenTagEnd, SelfClosing: true, Offset: j})
				return evs, j + 2, tagDone
			}
			j++
		case c == '<':
			// A new tag starts before this one was closed.
			return []Event{{Kind: EventMalformed, Value: s.buf[i:j], Offset: i}}, j, tagDone
		case isAttrNameChar(c):
			attr, next, ok := s.attribute(j)
			if !ok {
				return nil, 0, tagIncomplete
			}
			evs = append(evs, attr)
			j = next
		default:
			j++
		}
	}
}

// attribute scans name[=value] starting at j. ok is false when the buffer ends
// before the attribute is complete.
func (s *scanner) attribute(j int) (Event, int, bool) {
	n := len(s.buf)
	start := j
	for j < n && isAttrNameChar(s.buf[j]) {
		j++
	}
	if j >= n {
		return Event{}, 0, false
	}
	attr := Event{Kind: EventAttribute, Name: s.buf[start:j], Offset: start}

	k := skipSpace(s.buf, j)
	if k >= n {
		return Event{}, 0, false
	}
	if s.buf[k] != '=' {
		return attr, j, true
	}

	k = skipSpace(s.buf, k+1)
	if k >= n {
		return Event{}, 0, false
	}
	switch q := s.buf[k]; q {
	case '"', '\'':
		end := strings.IndexByte(s.buf[k+1:], q)
		if end < 0 {
			return Event{}, 0, false
		}
		attr.Value = s.buf[k+1 : k+1+end]
		return attr, k + 1 + end + 1, true
	case '>':
		return attr, k, true
	default:
		v := k
		for v < n && !isSpace(s.buf[v]) && s.buf[v] != '>' {
			if s.buf[v] == '/' && v+1 < n && s.buf[v+1] == '>' {
				break
			}
			v++
		}
		if v >= n {
			return Event{}, 0, false
		}
		attr.Value = s.buf[k:v]
		return attr, v, true
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':' || c == '.'
}

func isAttrNameChar(c byte) bool {
	return isNameChar(c) || c == '@'
}
