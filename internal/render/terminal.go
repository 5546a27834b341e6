package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Terminal renders Markdown for display in a terminal.
type Terminal struct {
	md        *glamour.TermRenderer
	plainText bool
}

// NewTerminal creates a terminal renderer. With plainText set, Markdown is
// passed through unchanged. width <= 0 selects 100 columns.
func NewTerminal(plainText bool, width int) (*Terminal, error) {
	if plainText {
		return &Terminal{plainText: true}, nil
	}
	if width <= 0 {
		width = 100
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Terminal{md: md}, nil
}

// Render formats content.
func (t *Terminal) Render(content string) (string, error) {
	if t.plainText {
		return content, nil
	}
	out, err := t.md.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}
