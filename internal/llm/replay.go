package llm

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

// ReplayProvider replays a fixed text in small chunks as if a model were
// producing it. It is used by tests and by the parse command to preview the
// streaming behaviour of a markup file.
type ReplayProvider struct {
	text      string
	chunkSize int
	delay     time.Duration
}

// NewReplay creates a replay provider emitting chunks of chunkSize bytes
// (rounded to rune boundaries) with delay between them.
func NewReplay(text string, chunkSize int, delay time.Duration) *ReplayProvider {
	if chunkSize <= 0 {
		chunkSize = 16
	}
	return &ReplayProvider{text: text, chunkSize: chunkSize, delay: delay}
}

func (p *ReplayProvider) Name() string { return "replay" }

func (p *ReplayProvider) Validate() error { return nil }

func (p *ReplayProvider) Stream(ctx context.Context, req *Request, onDelta DeltaFunc) (*Result, error) {
	var timer *time.Timer
	if p.delay > 0 {
		timer = time.NewTimer(p.delay)
		defer timer.Stop()
	}

	for i := 0; i < len(p.text); {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay stream: %w", err)
		}

		end := min(i+p.chunkSize, len(p.text))
		for end < len(p.text) && !utf8.RuneStart(p.text[end]) {
			end++
		}
		onDelta(p.text[i:end])
		i = end

		if timer != nil && i < len(p.text) {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("replay stream: %w", ctx.Err())
			case <-timer.C:
				timer.Reset(p.delay)
			}
		}
	}

	return &Result{
		Text:  p.text,
		Model: "replay",
		Usage: TokenUsage{OutputTokens: utf8.RuneCountInString(p.text), TotalTokens: utf8.RuneCountInString(p.text)},
	}, nil
}
