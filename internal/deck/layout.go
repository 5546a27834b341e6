package deck

// LayoutBlock is a container holding an ordered list of items.
type LayoutBlock struct {
	Items []Item `json:"items"`
}

// Item is one entry of a layout container: a small bundle of headings,
// paragraphs, icons and images.
type Item struct {
	ID         string  `json:"id"`
	Blocks     []Block `json:"blocks"`
	Generating bool    `json:"generating,omitempty"`
}

// NewItem creates an empty item.
func NewItem(id string) Item {
	return Item{
		ID:     id,
		Blocks: make([]Block, 0),
	}
}

// AddItem appends an item to the container.
func (l *LayoutBlock) AddItem(item Item) {
	l.Items = append(l.Items, item)
}

// IsEmpty returns true if the container has no items.
func (l *LayoutBlock) IsEmpty() bool {
	return len(l.Items) == 0
}

// Icon returns the first icon of the item, or nil.
func (it Item) Icon() *IconBlock {
	for _, b := range it.Blocks {
		if b.Icon != nil {
			return b.Icon
		}
	}
	return nil
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Blocks = cloneBlocks(it.Blocks)
	return out
}
