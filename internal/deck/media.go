package deck

// ImageBlock references an image by descriptive query and/or resolved URL.
type ImageBlock struct {
	Query string `json:"query,omitempty"` // description used to search or generate the image
	URL   string `json:"url,omitempty"`   // resolved image location
}

// HasURL returns true if the image has been resolved to a location.
func (img *ImageBlock) HasURL() bool {
	return img.URL != ""
}

// IconBlock references an icon by symbolic name.
type IconBlock struct {
	Name string `json:"name"`
}
