package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/deckstream/internal/config"
	"github.com/roboco-io/deckstream/internal/llm"
)

type providerInfo struct {
	Name        string
	EnvKey      string
	Description string
}

var providers = []providerInfo{
	{Name: llm.ProviderAnthropic, EnvKey: "ANTHROPIC_API_KEY", Description: "Anthropic Claude API"},
	{Name: llm.ProviderOpenAI, EnvKey: "OPENAI_API_KEY", Description: "OpenAI GPT API"},
	{Name: llm.ProviderGemini, EnvKey: "GOOGLE_API_KEY", Description: "Google Gemini API"},
	{Name: llm.ProviderOllama, EnvKey: "OLLAMA_HOST", Description: "Local Ollama server"},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "사용 가능한 LLM 프로바이더 목록",
	Long: `덱 생성에 사용할 수 있는 LLM 프로바이더 목록을 표시합니다.

각 프로바이더는 설정 파일이나 환경 변수에 API 키가 있어야 사용할 수 있습니다.
(ollama는 로컬 서버로 API 키가 필요하지 않습니다)

사용 예시:
  deckstream generate "제품 소개" --provider anthropic
  deckstream generate "제품 소개" --provider openai --model gpt-4o`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg := newRegistry(cfg)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "프로바이더\t모델\t환경 변수\t상태\t설명")
	fmt.Fprintln(w, "---------\t----\t-------\t----\t----")

	for _, p := range providers {
		pc, _ := reg.Config(p.Name)
		name := p.Name
		if p.Name == cfg.DefaultProvider {
			name += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name, pc.Model, p.EnvKey, checkProviderStatus(p, reg.Check(p.Name) == nil), p.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if configured := reg.Configured(); len(configured) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n사용 가능: %s\n", strings.Join(configured, ", "))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "\n사용 가능한 프로바이더가 없습니다")
	}
	return nil
}

// newRegistry builds the providers named in cfg. Providers that fail to build
// are logged and left out.
func newRegistry(cfg *config.Config) *llm.Registry {
	reg, errs := llm.NewRegistryFromConfig(cfg, logger)
	for _, err := range errs {
		logger.Debug().Err(err).Msg("provider skipped")
	}
	return reg
}

// checkProviderStatus reports whether a provider has credentials, either from
// the config file or from its environment variable.
func checkProviderStatus(p providerInfo, configured bool) string {
	if p.Name == llm.ProviderOllama {
		// Ollama doesn't require API key
		return "✓ 사용가능"
	}

	if configured || os.Getenv(p.EnvKey) != "" {
		return "✓ 설정됨"
	}
	return "✗ 미설정"
}
