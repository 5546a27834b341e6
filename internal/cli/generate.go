package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/deckstream/internal/generate"
	"github.com/roboco-io/deckstream/internal/llm"
)

var (
	generateProvider string
	generateModel    string
	generateSlides   int
	generateLanguage string
	generateSave     bool
	generateQuiet    bool
	generateOutput   outputOptions
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "주제로 슬라이드 덱 생성",
	Long: `LLM에게 주제에 맞는 슬라이드 덱을 요청하고, 응답을 스트리밍으로 받아
실시간으로 덱을 조립합니다.

환경 변수:
  DECKSTREAM_PROVIDER=xxx   LLM 프로바이더 (anthropic, openai, gemini, ollama)
  DECKSTREAM_MODEL=xxx      모델 이름

예시:
  deckstream generate "태양광 발전의 미래"
  deckstream generate "Go 동시성" --slides 5 --language ko
  deckstream generate "quarterly review" --provider openai --model gpt-4o -f json -o deck.json
  deckstream generate "onboarding" --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "LLM 프로바이더 (anthropic, openai, gemini, ollama)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "LLM 모델 이름")
	generateCmd.Flags().IntVar(&generateSlides, "slides", 0, "슬라이드 수 (기본: 설정값)")
	generateCmd.Flags().StringVar(&generateLanguage, "language", "", "슬라이드 언어 (기본: 설정값)")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "생성된 덱을 로컬 데이터베이스에 저장")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "진행 상황 표시 안 함")
	generateOutput.register(generateCmd, true)

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := generateOutput.validate(); err != nil {
		return err
	}
	topic := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, pc, err := newRegistry(cfg).Resolve(generateProvider, generateModel)
	switch {
	case errors.Is(err, llm.ErrProviderNotFound):
		return fmt.Errorf("프로바이더 생성 실패: %w", err)
	case err != nil:
		return fmt.Errorf("프로바이더 설정 오류: %w\n'deckstream providers'로 상태를 확인하세요", err)
	}

	opts := generate.Options{
		Topic:           topic,
		Language:        cfg.Generation.Language,
		Slides:          cfg.Generation.Slides,
		Temperature:     cfg.Generation.Temperature,
		MaxTokens:       pc.MaxTokens,
		RefreshInterval: cfg.Generation.RefreshInterval,
	}
	if generateSlides > 0 {
		opts.Slides = generateSlides
	}
	if generateLanguage != "" {
		opts.Language = generateLanguage
	}

	logger.Info().Str("provider", provider.Name()).Str("model", pc.Model).Int("slides", opts.Slides).Msg("generating deck")

	res, err := runSession(cmd.Context(), cmd, provider, opts, generateQuiet)
	if err != nil {
		return err
	}

	if err := writeDeck(cmd, res.Deck, res.Text, generateOutput); err != nil {
		return err
	}

	if generateSave {
		id, err := saveDeck(cmd.Context(), cfg, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "덱 저장됨: %s\n", id)
	}
	return nil
}

// runSession streams a deck and reports progress on stderr. A partial deck is
// returned with the error when the stream breaks off.
func runSession(ctx context.Context, cmd *cobra.Command, provider llm.Provider, opts generate.Options, quiet bool) (*generate.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	session := generate.NewSession(provider, opts, logger)
	res, err := session.Run(ctx, liveStatus(cmd.ErrOrStderr(), quiet))
	if err != nil {
		if res != nil && len(res.Deck.Slides) > 0 && errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Int("slides", len(res.Deck.Slides)).Msg("stream interrupted, keeping partial deck")
			return res, nil
		}
		return nil, fmt.Errorf("덱 생성 실패: %w", err)
	}
	logger.Debug().Str("model", res.Model).Int("output_tokens", res.Usage.OutputTokens).Msg("stream complete")
	return res, nil
}
