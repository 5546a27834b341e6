package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/roboco-io/deckstream/internal/deck"
)

var (
	statusBusy   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusDone   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	statusLabel  = lipgloss.NewStyle().Faint(true)
	statusNumber = lipgloss.NewStyle().Bold(true)
	statusTitle  = lipgloss.NewStyle().Italic(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress is the input of a status line.
type Progress struct {
	Stats   deck.Stats
	Chars   int
	Elapsed time.Duration
	Title   string // current slide title
	Done    bool
	Frame   int
}

// Status formats a one-line progress summary.
func Status(p Progress) string {
	var head string
	if p.Done {
		head = statusDone.Render("✓ 완료")
	} else {
		head = statusBusy.Render(spinnerFrames[p.Frame%len(spinnerFrames)] + " 생성 중")
	}

	parts := []string{
		head,
		field("슬라이드", p.Stats.Slides),
		field("블록", p.Stats.Blocks),
		field("글자", p.Chars),
		statusLabel.Render(p.Elapsed.Round(100 * time.Millisecond).String()),
	}
	if p.Title != "" && !p.Done {
		parts = append(parts, statusTitle.Render(truncate(p.Title, 40)))
	}
	return strings.Join(parts, "  ")
}

func field(label string, n int) string {
	return statusLabel.Render(label) + " " + statusNumber.Render(fmt.Sprint(n))
}

// CurrentTitle returns the title of the last slide, which is the one being
// written while a deck streams.
func CurrentTitle(slides []deck.Slide) string {
	if len(slides) == 0 {
		return ""
	}
	return slides[len(slides)-1].Title()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
