package markup

import (
	"sort"
	"strings"

	"github.com/roboco-io/deckstream/internal/deck"
)

// kind is the structural role of an element in the tree builder.
type kind int

const (
	kindPassthrough kind = iota // unknown or wrapper: children go to the parent
	kindRoot
	kindSlide
	kindHeading
	kindParagraph
	kindLayout
	kindItem
	kindChart
	kindRow
	kindLabel
	kindValue
	kindImage
	kindIcon
)

// tagSpec describes how a recognised tag is built.
type tagSpec struct {
	canonical string         // name used for close-tag matching across aliases
	kind      kind           //
	block     deck.BlockType // block variant for block-producing kinds
	level     int            // heading level
	void      bool           // materialised at the open tag, never pushed
}

// tagTable maps upper-cased tag names to their spec. Names absent from the
// table are passthrough containers.
var tagTable = map[string]tagSpec{
	"PRESENTATION": {canonical: "PRESENTATION", kind: kindPassthrough},

	"SLIDE":   {canonical: "SLIDE", kind: kindSlide},
	"SECTION": {canonical: "SLIDE", kind: kindSlide},

	"H1": {canonical: "H1", kind: kindHeading, block: deck.BlockTypeHeading, level: 1},
	"H2": {canonical: "H2", kind: kindHeading, block: deck.BlockTypeHeading, level: 2},
	"H3": {canonical: "H3", kind: kindHeading, block: deck.BlockTypeHeading, level: 3},
	"P":  {canonical: "P", kind: kindParagraph, block: deck.BlockTypeParagraph},

	"COLUMNS":   {canonical: "COLUMNS", kind: kindLayout, block: deck.BlockTypeColumns},
	"BULLETS":   {canonical: "BULLETS", kind: kindLayout, block: deck.BlockTypeBullets},
	"ICONS":     {canonical: "ICONS", kind: kindLayout, block: deck.BlockTypeIcons},
	"CYCLE":     {canonical: "CYCLE", kind: kindLayout, block: deck.BlockTypeCycle},
	"ARROWS":    {canonical: "ARROWS", kind: kindLayout, block: deck.BlockTypeArrows},
	"TIMELINE":  {canonical: "TIMELINE", kind: kindLayout, block: deck.BlockTypeTimeline},
	"PYRAMID":   {canonical: "PYRAMID", kind: kindLayout, block: deck.BlockTypePyramid},
	"STAIRCASE": {canonical: "STAIRCASE", kind: kindLayout, block: deck.BlockTypeStaircase},

	"DIV":  {canonical: "DIV", kind: kindItem},
	"ITEM": {canonical: "DIV", kind: kindItem},

	"CHART": {canonical: "CHART", kind: kindChart, block: deck.BlockTypeChart},
	"DATA":  {canonical: "DATA", kind: kindRow},
	"LABEL": {canonical: "LABEL", kind: kindLabel},
	"VALUE": {canonical: "VALUE", kind: kindValue},

	"IMG":  {canonical: "IMG", kind: kindImage, block: deck.BlockTypeImage, void: true},
	"ICON": {canonical: "ICON", kind: kindIcon, block: deck.BlockTypeIcon, void: true},
}

// lookup returns the spec for a tag name as written.
func lookup(name string) tagSpec {
	upper := strings.ToUpper(name)
	if spec, ok := tagTable[upper]; ok {
		return spec
	}
	return tagSpec{canonical: upper, kind: kindPassthrough}
}

// Vocabulary returns the recognised tag names in sorted order.
func Vocabulary() []string {
	names := make([]string, 0, len(tagTable))
	for name := range tagTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isKnownTag reports whether name is part of the recognised vocabulary.
func isKnownTag(name string) bool {
	_, ok := tagTable[strings.ToUpper(name)]
	return ok
}

// IsLayoutTag reports whether name opens a layout container.
func IsLayoutTag(name string) bool {
	spec, ok := tagTable[strings.ToUpper(name)]
	return ok && spec.kind == kindLayout
}
