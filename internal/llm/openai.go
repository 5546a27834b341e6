package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider streams chat completions from OpenAI or any OpenAI compatible
// server such as Ollama.
type OpenAIProvider struct {
	name      string
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	keyless   bool
	log       zerolog.Logger
}

// NewOpenAI creates an OpenAI provider. endpoint may be empty.
func NewOpenAI(apiKey, model string, maxTokens int, endpoint string, log zerolog.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		name:      "openai",
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   endpoint,
		log:       log,
	}
}

// NewOllama creates a provider for a local Ollama server using its OpenAI
// compatible /v1 API.
func NewOllama(endpoint, model string, maxTokens int, log zerolog.Logger) *OpenAIProvider {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return &OpenAIProvider{
		name:      "ollama",
		apiKey:    "ollama",
		model:     model,
		maxTokens: maxTokens,
		baseURL:   strings.TrimSuffix(endpoint, "/") + "/v1",
		keyless:   true,
		log:       log,
	}
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Validate() error {
	if !p.keyless && p.apiKey == "" {
		return fmt.Errorf("%w: %s API key is empty", ErrNotConfigured, p.name)
	}
	if p.model == "" {
		return fmt.Errorf("%w: %s model is empty", ErrNotConfigured, p.name)
	}
	return nil
}

func (p *OpenAIProvider) client() *openai.Client {
	cfg := openai.DefaultConfig(p.apiKey)
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (p *OpenAIProvider) Stream(ctx context.Context, req *Request, onDelta DeltaFunc) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	model := req.model(p.model)
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	p.log.Debug().Str("provider", p.name).Str("model", model).Msg("stream start")

	stream, err := p.client().CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:         model,
		Messages:      messages,
		MaxTokens:     req.maxTokens(p.maxTokens),
		Temperature:   float32(req.Temperature),
		Stream:        true,
		StreamOptions: &openai.StreamOptions{IncludeUsage: true},
	})
	if err != nil {
		return nil, fmt.Errorf("%s stream: %w", p.name, err)
	}
	defer stream.Close()

	var sb strings.Builder
	res := &Result{Model: model}
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s stream: %w", p.name, err)
		}
		if resp.Model != "" {
			res.Model = resp.Model
		}
		if resp.Usage != nil {
			res.Usage = TokenUsage{
				InputTokens:  resp.Usage.PromptTokens,
				OutputTokens: resp.Usage.CompletionTokens,
				TotalTokens:  resp.Usage.TotalTokens,
			}
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			sb.WriteString(delta)
			onDelta(delta)
		}
	}

	res.Text = sb.String()
	p.log.Debug().Str("provider", p.name).Int("chars", sb.Len()).Msg("stream done")
	return res, nil
}
