package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roboco-io/deckstream/internal/deck"
	"github.com/roboco-io/deckstream/internal/generate"
	"github.com/roboco-io/deckstream/internal/llm"
	"github.com/roboco-io/deckstream/internal/parser"
)

var (
	parseSimulate int
	parseDelay    time.Duration
	parseFinal    bool
	parseQuiet    bool
	parseOutput   outputOptions
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "슬라이드 마크업 파일 파싱",
	Long: `슬라이드 마크업 파일(또는 JSON으로 저장된 덱)을 읽어 덱으로 조립합니다.

--simulate를 지정하면 파일 내용을 지정한 크기의 조각으로 나누어
LLM 스트리밍처럼 재생하면서 덱이 조립되는 과정을 보여줍니다.

지원 형식:
  .xml .deck .slides .txt   슬라이드 마크업
  .json                     JSON 덱

예시:
  deckstream parse deck.xml
  deckstream parse deck.xml --simulate 12 --delay 20ms
  deckstream parse partial.xml --final=false -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().IntVar(&parseSimulate, "simulate", 0, "N 바이트 조각으로 스트리밍 재생 (0: 사용 안 함)")
	parseCmd.Flags().DurationVar(&parseDelay, "delay", 10*time.Millisecond, "재생 시 조각 사이 대기 시간")
	parseCmd.Flags().BoolVar(&parseFinal, "final", true, "마무리 처리(빈 컨테이너 보정, 생성 표시 제거) 적용")
	parseCmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false, "진행 상황 표시 안 함")
	parseOutput.register(parseCmd, true)

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := parseOutput.validate(); err != nil {
		return err
	}
	path := args[0]

	format, err := detectInputFormat(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("파일 읽기 실패: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	logger.Debug().Str("path", path).Str("format", format.String()).Int("bytes", len(data)).Msg("parsing file")

	if format == parser.FormatJSON {
		var d deck.Deck
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("JSON 덱 파싱 실패: %w", err)
		}
		return writeDeck(cmd, &d, "", parseOutput)
	}

	text := string(data)
	var d *deck.Deck
	if parseSimulate > 0 {
		res, err := simulate(cmd, text)
		if err != nil {
			return err
		}
		d = res.Deck
		d.Title = deckTitleOr(d.Slides, title)
		d.Prompt = ""
	} else {
		p := parser.New()
		p.ParseChunk(text)
		if parseFinal {
			p.Finalize()
			p.ClearAllGeneratingMarks()
		} else if !parseQuiet && (p.Open() > 0 || p.Pending() != "") {
			fmt.Fprintf(cmd.ErrOrStderr(), "미완성 요소 %d개, 대기 중인 조각: %q\n", p.Open(), p.Pending())
		}
		d = p.Deck(deckTitleOr(p.Slides(), title))
	}

	return writeDeck(cmd, d, text, parseOutput)
}

// simulate replays text through a generation session in parseSimulate sized
// chunks.
func simulate(cmd *cobra.Command, text string) (*generate.Result, error) {
	provider := llm.NewReplay(text, parseSimulate, parseDelay)
	opts := generate.Options{
		Topic:          text,
		Raw:            true,
		KeepGenerating: !parseFinal,
	}
	return runSession(cmd.Context(), cmd, provider, opts, parseQuiet)
}

func detectInputFormat(path string) (parser.Format, error) {
	if f := parser.DetectFormat(path); f != parser.FormatUnknown {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return parser.FormatUnknown, fmt.Errorf("파일 열기 실패: %w", err)
	}
	defer file.Close()

	f, err := parser.DetectFormatFromReader(file)
	if err != nil {
		return parser.FormatUnknown, fmt.Errorf("형식 감지 실패: %w", err)
	}
	if f == parser.FormatUnknown {
		return f, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", path)
	}
	return f, nil
}

func deckTitleOr(slides []deck.Slide, fallback string) string {
	for _, s := range slides {
		if t := s.Title(); t != "" {
			return t
		}
	}
	return fallback
}
