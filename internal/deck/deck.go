// Package deck defines the slide deck model produced by the streaming parser.
// Slides hold an ordered list of typed blocks; the model is consumed by rendering
// and persistence and carries no behavior beyond construction and traversal.
package deck

// Version is the schema version written into persisted decks.
const Version = "1.0"

// Deck wraps a slide list with document-level metadata for persistence.
type Deck struct {
	Version string  `json:"version"`
	Title   string  `json:"title,omitempty"`
	Prompt  string  `json:"prompt,omitempty"`
	Slides  []Slide `json:"slides"`
}

// NewDeck creates a deck around the given slides.
func NewDeck(title string, slides []Slide) *Deck {
	if slides == nil {
		slides = make([]Slide, 0)
	}
	return &Deck{
		Version: Version,
		Title:   title,
		Slides:  slides,
	}
}

// Orientation is the slide layout orientation.
type Orientation string

const (
	OrientationNone       Orientation = ""
	OrientationLeft       Orientation = "left"
	OrientationRight      Orientation = "right"
	OrientationVertical   Orientation = "vertical"
	OrientationBackground Orientation = "background"
)

// WidthClass is the content width of a slide.
type WidthClass string

const (
	WidthNone   WidthClass = ""
	WidthSmall  WidthClass = "S"
	WidthMedium WidthClass = "M"
	WidthLarge  WidthClass = "L"
)

// Alignment is the vertical alignment of slide content.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// ParseOrientation returns the orientation for s, or OrientationNone when s is not
// one of the known values.
func ParseOrientation(s string) Orientation {
	switch o := Orientation(s); o {
	case OrientationLeft, OrientationRight, OrientationVertical, OrientationBackground:
		return o
	}
	return OrientationNone
}

// ParseWidth returns the width class for s (case-insensitive S/M/L).
func ParseWidth(s string) WidthClass {
	switch s {
	case "S", "s":
		return WidthSmall
	case "M", "m":
		return WidthMedium
	case "L", "l":
		return WidthLarge
	}
	return WidthNone
}

// ParseAlignment returns the alignment for s, or AlignNone.
func ParseAlignment(s string) Alignment {
	switch a := Alignment(s); a {
	case AlignStart, AlignCenter, AlignEnd:
		return a
	}
	return AlignNone
}

// SlideLayout is the closed set of presentation attributes a slide may carry.
type SlideLayout struct {
	Orientation     Orientation `json:"orientation,omitempty"`
	BackgroundColor string      `json:"background_color,omitempty"`
	Width           WidthClass  `json:"width,omitempty"`
	Align           Alignment   `json:"align,omitempty"`
	HeadingColor    string      `json:"heading_color,omitempty"`
	BodyColor       string      `json:"body_color,omitempty"`
	HeadingFont     string      `json:"heading_font,omitempty"`
	BodyFont        string      `json:"body_font,omitempty"`
}

// Slide is a single slide of the deck.
type Slide struct {
	ID         string      `json:"id"`
	Blocks     []Block     `json:"blocks"`
	Layout     SlideLayout `json:"layout"`
	RootImage  *ImageBlock `json:"root_image,omitempty"`
	Generating bool        `json:"generating,omitempty"`
}

// NewSlide creates an empty slide with the given ID.
func NewSlide(id string) *Slide {
	return &Slide{
		ID:     id,
		Blocks: make([]Block, 0),
	}
}

// AddBlock appends a block to the slide.
func (s *Slide) AddBlock(b Block) {
	s.Blocks = append(s.Blocks, b)
}

// IsEmpty returns true if the slide has neither blocks nor a root image.
func (s *Slide) IsEmpty() bool {
	return len(s.Blocks) == 0 && s.RootImage == nil
}

// Title returns the text of the first heading on the slide, if any.
func (s *Slide) Title() string {
	for _, b := range s.Blocks {
		if b.Type == BlockTypeHeading && b.Heading != nil {
			return b.Heading.Text
		}
	}
	return ""
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	out.Blocks = cloneBlocks(s.Blocks)
	if s.RootImage != nil {
		img := *s.RootImage
		out.RootImage = &img
	}
	return out
}

// CloneSlides deep-copies a slide list.
func CloneSlides(slides []Slide) []Slide {
	if slides == nil {
		return nil
	}
	out := make([]Slide, len(slides))
	for i := range slides {
		out[i] = slides[i].Clone()
	}
	return out
}
