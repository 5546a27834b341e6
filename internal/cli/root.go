// Package cli implements the deckstream command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/deckstream/internal/config"
	"github.com/roboco-io/deckstream/internal/logging"
)

var (
	version = "dev"

	configFile string
	verbose    bool

	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "deckstream",
	Short: "LLM 스트리밍 출력을 실시간 슬라이드 덱으로 변환",
	Long: `deckstream은 LLM이 생성하는 슬라이드 마크업을 스트리밍으로 받아
실시간으로 슬라이드 덱을 조립합니다.

중간에 끊긴 태그나 잘못된 마크업도 오류 없이 처리하며,
생성이 끝나면 Markdown, JSON 또는 원본 마크업으로 출력하거나
로컬 데이터베이스에 저장할 수 있습니다.

예시:
  deckstream generate "쿠버네티스 입문" --slides 6
  deckstream parse deck.xml --simulate 12
  deckstream decks list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(cmd.ErrOrStderr(), verbose)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deckstream %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "설정 파일 경로 (기본: ~/.deckstream/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 로그 출력")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx. Cancelling ctx stops a
// running generation; the deck received so far is still written.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newLoader returns the loader for --config or the default location.
func newLoader() (*config.Loader, error) {
	if configFile != "" {
		return config.NewLoaderWithPath(configFile), nil
	}
	return config.NewLoader()
}

func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	logger.Debug().Str("path", loader.ConfigPath()).Str("provider", cfg.DefaultProvider).Msg("config loaded")
	return cfg, nil
}
