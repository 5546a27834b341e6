package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

// AnthropicProvider streams from the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	log       zerolog.Logger
}

// NewAnthropic creates an Anthropic provider.
func NewAnthropic(apiKey, model string, maxTokens int, endpoint string, log zerolog.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		endpoint:  endpoint,
		log:       log,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Validate() error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: anthropic API key is empty", ErrNotConfigured)
	}
	return nil
}

func (p *AnthropicProvider) Stream(ctx context.Context, req *Request, onDelta DeltaFunc) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(p.apiKey)}
	if p.endpoint != "" {
		opts = append(opts, option.WithBaseURL(p.endpoint))
	}
	client := anthropic.NewClient(opts...)

	model := req.model(p.model)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.maxTokens(p.maxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	p.log.Debug().Str("provider", p.Name()).Str("model", model).Msg("stream start")

	stream := client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var sb strings.Builder
	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, fmt.Errorf("anthropic stream: %w", err)
		}
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				sb.WriteString(delta.Text)
				onDelta(delta.Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("anthropic stream: %w", err)
	}

	in, out := int(message.Usage.InputTokens), int(message.Usage.OutputTokens)
	p.log.Debug().Str("provider", p.Name()).Int("chars", sb.Len()).Int("output_tokens", out).Msg("stream done")

	return &Result{
		Text:  sb.String(),
		Model: model,
		Usage: TokenUsage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
	}, nil
}
