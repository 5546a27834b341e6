package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// GeminiProvider streams from the Gemini API.
type GeminiProvider struct {
	apiKey    string
	model     string
	maxTokens int
	log       zerolog.Logger
}

// NewGemini creates a Gemini provider.
func NewGemini(apiKey, model string, maxTokens int, log zerolog.Logger) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		log:       log,
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Validate() error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: gemini API key is empty", ErrNotConfigured)
	}
	return nil
}

func (p *GeminiProvider) Stream(ctx context.Context, req *Request, onDelta DeltaFunc) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	model := req.model(p.model)
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.maxTokens(p.maxTokens)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	p.log.Debug().Str("provider", p.Name()).Str("model", model).Msg("stream start")

	var sb strings.Builder
	res := &Result{Model: model}
	for resp, err := range client.Models.GenerateContentStream(ctx, model, genai.Text(req.Prompt), cfg) {
		if err != nil {
			return nil, fmt.Errorf("gemini stream: %w", err)
		}
		if u := resp.UsageMetadata; u != nil {
			res.Usage = TokenUsage{
				InputTokens:  int(u.PromptTokenCount),
				OutputTokens: int(u.CandidatesTokenCount),
				TotalTokens:  int(u.TotalTokenCount),
			}
		}
		if delta := resp.Text(); delta != "" {
			sb.WriteString(delta)
			onDelta(delta)
		}
	}

	res.Text = sb.String()
	p.log.Debug().Str("provider", p.Name()).Int("chars", sb.Len()).Msg("stream done")
	return res, nil
}
