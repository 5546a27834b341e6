// Package generate drives an LLM stream through the deck parser and reports
// live snapshots of the deck while it is being written.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/roboco-io/deckstream/internal/deck"
	"github.com/roboco-io/deckstream/internal/llm"
	"github.com/roboco-io/deckstream/internal/parser"
)

// DefaultRefreshInterval bounds how often Update callbacks fire.
const DefaultRefreshInterval = 50 * time.Millisecond

// Options configures a generation session.
type Options struct {
	Topic           string
	Language        string
	Slides          int
	Model           string
	MaxTokens       int
	Temperature     float64
	RefreshInterval time.Duration
	// Raw skips the prompt templates and sends Topic as the user prompt.
	Raw bool
	// KeepGenerating leaves the final slides unfinalized, marks included.
	KeepGenerating bool
}

// Update is a snapshot of the deck while it streams.
type Update struct {
	Slides []deck.Slide
	Stats  deck.Stats
	Chars  int
	Done   bool
}

// UpdateFunc receives snapshots. Slides must be treated as read-only.
type UpdateFunc func(Update)

// Result is the outcome of a session.
type Result struct {
	Deck  *deck.Deck
	Text  string
	Model string
	Usage llm.TokenUsage
}

// chunk is one message from the provider goroutine.
type chunk struct {
	content string
	result  *llm.Result
	err     error
	done    bool
}

// Session generates one deck.
type Session struct {
	provider llm.Provider
	opts     Options
	parser   *parser.Parser
	log      zerolog.Logger
}

// NewSession creates a session streaming from provider.
func NewSession(provider llm.Provider, opts Options, log zerolog.Logger, parserOpts ...parser.Option) *Session {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	return &Session{
		provider: provider,
		opts:     opts,
		parser:   parser.New(parserOpts...),
		log:      log,
	}
}

func (s *Session) request() *llm.Request {
	req := llm.DefaultRequest(UserPrompt(s.opts.Topic, s.opts.Slides))
	if s.opts.Raw {
		req.Prompt = s.opts.Topic
	} else {
		req.System = SystemPrompt(s.opts.Language)
	}
	req.Model = s.opts.Model
	if s.opts.MaxTokens > 0 {
		req.MaxTokens = s.opts.MaxTokens
	}
	if s.opts.Temperature > 0 {
		req.Temperature = s.opts.Temperature
	}
	return req
}

// Run streams the deck. onUpdate may be nil. It is called from the calling
// goroutine at most once per refresh interval, plus once with Done set when
// the stream ends.
//
// When the provider fails or ctx is cancelled, Run still returns the deck
// assembled from the text received so far together with the error.
func (s *Session) Run(ctx context.Context, onUpdate UpdateFunc) (*Result, error) {
	if onUpdate == nil {
		onUpdate = func(Update) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make(chan chunk, 64)
	go s.produce(ctx, chunks)

	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()

	var (
		text    strings.Builder
		dirty   bool
		res     *llm.Result
		runErr  error
		updates int
	)

	publish := func(done bool) {
		s.parser.Reset()
		s.parser.ParseChunk(text.String())
		if done && !s.opts.KeepGenerating {
			s.parser.Finalize()
			s.parser.ClearAllGeneratingMarks()
		}
		slides := s.parser.Slides()
		onUpdate(Update{Slides: slides, Stats: deck.Collect(slides), Chars: text.Len(), Done: done})
		updates++
		dirty = false
	}

loop:
	for {
		select {
		case c := <-chunks:
			if c.done {
				res, runErr = c.result, c.err
				break loop
			}
			text.WriteString(c.content)
			dirty = true
		case <-ticker.C:
			if dirty {
				publish(false)
			}
		}
	}

	publish(true)

	s.log.Debug().
		Str("provider", s.provider.Name()).
		Int("chars", text.Len()).
		Int("slides", len(s.parser.Slides())).
		Int("updates", updates).
		Int("open", s.parser.Open()).
		Str("pending", s.parser.Pending()).
		Bool("finalized", s.parser.Finalized()).
		Msg("generation finished")

	out := &Result{
		Deck: s.parser.Deck(deckTitle(s.parser.Slides(), s.opts.Topic)),
		Text: text.String(),
	}
	out.Deck.Prompt = s.opts.Topic
	if res != nil {
		out.Model = res.Model
		out.Usage = res.Usage
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			return out, fmt.Errorf("generation interrupted: %w", runErr)
		}
		return out, fmt.Errorf("generation failed: %w", runErr)
	}
	return out, nil
}

// produce runs the provider and forwards its deltas. The final message always
// carries done.
func (s *Session) produce(ctx context.Context, out chan<- chunk) {
	res, err := s.provider.Stream(ctx, s.request(), func(delta string) {
		select {
		case out <- chunk{content: delta}:
		case <-ctx.Done():
		}
	})
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	// Run reads until it sees done, so this send never blocks forever.
	out <- chunk{done: true, result: res, err: err}
}

func deckTitle(slides []deck.Slide, fallback string) string {
	for i := range slides {
		if t := slides[i].Title(); t != "" {
			return t
		}
	}
	return strings.TrimSpace(fallback)
}
