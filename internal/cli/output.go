package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roboco-io/deckstream/internal/deck"
	"github.com/roboco-io/deckstream/internal/generate"
	"github.com/roboco-io/deckstream/internal/render"
)

// Output formats accepted by --format.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatMarkup   = "markup"
)

var outputFormats = []string{formatMarkdown, formatJSON, formatMarkup}

// outputOptions are the output flags shared by generate, parse and decks show.
type outputOptions struct {
	format string
	output string
	plain  bool
}

func (o *outputOptions) register(cmd *cobra.Command, withMarkup bool) {
	usage := "출력 형식 (markdown, json)"
	if withMarkup {
		usage = "출력 형식 (markdown, json, markup)"
	}
	cmd.Flags().StringVarP(&o.format, "format", "f", formatMarkdown, usage)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	cmd.Flags().BoolVar(&o.plain, "plain", false, "터미널 서식 없이 출력")
}

func (o *outputOptions) validate() error {
	if !contains(outputFormats, o.format) {
		return fmt.Errorf("지원하지 않는 출력 형식입니다: %s (지원: markdown, json, markup)", o.format)
	}
	return nil
}

// writeDeck writes d in the requested format. markup is the raw model text
// and may be empty when the deck did not come from a stream.
func writeDeck(cmd *cobra.Command, d *deck.Deck, markup string, o outputOptions) error {
	var content string
	switch o.format {
	case formatMarkdown:
		content = render.Markdown(d.Slides)
		if o.output == "" {
			term, err := render.NewTerminal(o.plain, 0)
			if err != nil {
				return err
			}
			if content, err = term.Render(content); err != nil {
				return err
			}
		}
	case formatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON 변환 실패: %w", err)
		}
		content = string(data) + "\n"
	case formatMarkup:
		if markup == "" {
			return fmt.Errorf("원본 마크업이 없습니다. markdown 또는 json 형식을 사용하세요")
		}
		content = markup
	default:
		return fmt.Errorf("지원하지 않는 출력 형식입니다: %s", o.format)
	}

	if o.output == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}
	if err := os.WriteFile(o.output, []byte(content), 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "저장 완료: %s\n", o.output)
	return nil
}

// liveStatus returns an update callback drawing a status line on w. It is a
// no-op when quiet is set.
func liveStatus(w io.Writer, quiet bool) generate.UpdateFunc {
	if quiet {
		return nil
	}
	start := time.Now()
	frame := 0
	return func(u generate.Update) {
		line := render.Status(render.Progress{
			Stats:   u.Stats,
			Chars:   u.Chars,
			Elapsed: time.Since(start),
			Title:   render.CurrentTitle(u.Slides),
			Done:    u.Done,
			Frame:   frame,
		})
		frame++
		fmt.Fprint(w, "\r\033[K"+line)
		if u.Done {
			fmt.Fprintln(w)
		}
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
