package llm

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/roboco-io/deckstream/internal/config"
	"github.com/roboco-io/deckstream/internal/logging"
)

// stubProvider streams a single slide and fails validation when err is set.
type stubProvider struct {
	name string
	err  error
}

func (m *stubProvider) Name() string {
	return m.name
}

func (m *stubProvider) Stream(ctx context.Context, req *Request, onDelta DeltaFunc) (*Result, error) {
	onDelta("<SLIDE>")
	return &Result{Text: "<SLIDE>", Model: req.model("stub")}, nil
}

func (m *stubProvider) Validate() error {
	return m.err
}

// testConfig has credentials for openai and ollama only.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.DefaultProvider = ProviderOpenAI
	cfg.SetProvider(ProviderOpenAI, config.Provider{APIKey: "sk-test", Model: "gpt-4o-mini", MaxTokens: 4096})
	cfg.SetProvider(ProviderAnthropic, config.Provider{Model: "claude-sonnet-4-20250514", MaxTokens: 8192})
	cfg.SetProvider(ProviderGemini, config.Provider{Model: "gemini-2.0-flash", MaxTokens: 8192})
	return cfg
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry("", logging.Nop())

	if err := r.Register(&stubProvider{name: "stub"}, config.Provider{Model: "m"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if err := r.Register(&stubProvider{name: "stub"}, config.Provider{}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if err := r.Register(nil, config.Provider{}); err == nil {
		t.Error("expected error for nil provider")
	}
	if err := r.Register(&stubProvider{}, config.Provider{}); err == nil {
		t.Error("expected error for empty name")
	}

	pc, ok := r.Config("stub")
	if !ok || pc.Model != "m" {
		t.Errorf("expected stored config with model 'm', got %+v (ok=%v)", pc, ok)
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	r := NewRegistry("", logging.Nop())
	_ = r.Register(&stubProvider{name: "stub"}, config.Provider{})

	if _, err := r.Get("stub"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	_, err := r.Get("nonexistent")
	if !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	r, errs := NewRegistryFromConfig(testConfig(), logging.Nop())

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []string{"anthropic", "gemini", "ollama", "openai"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestRegistry_Configured(t *testing.T) {
	r, _ := NewRegistryFromConfig(testConfig(), logging.Nop())

	want := []string{"ollama", "openai"}
	if got := r.Configured(); !reflect.DeepEqual(got, want) {
		t.Errorf("Configured() = %v, want %v", got, want)
	}
	if err := r.Check(ProviderAnthropic); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured for anthropic, got %v", err)
	}
	if err := r.Check("bogus"); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r, _ := NewRegistryFromConfig(testConfig(), logging.Nop())

	tests := []struct {
		name      string
		provider  string
		model     string
		wantName  string
		wantModel string
		wantErr   error
	}{
		{"default provider", "", "", "openai", "gpt-4o-mini", nil},
		{"detected from model", "", "gpt-4o", "openai", "gpt-4o", nil},
		{"unknown model goes to ollama", "", "mistral", "ollama", "mistral", nil},
		{"explicit provider", "ollama", "", "ollama", "llama3.2", nil},
		{"explicit beats model", "ollama", "gpt-4o", "ollama", "gpt-4o", nil},
		{"missing credentials", "", "claude-3-haiku", "", "", ErrNotConfigured},
		{"unknown provider", "bogus", "", "", "", ErrProviderNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, pc, err := r.Resolve(tc.provider, tc.model)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tc.wantName {
				t.Errorf("expected provider %s, got %s", tc.wantName, p.Name())
			}
			if pc.Model != tc.wantModel {
				t.Errorf("expected model %s, got %s", tc.wantModel, pc.Model)
			}
		})
	}
}

func TestRegistry_ResolveKeepsRegisteredConfig(t *testing.T) {
	r, _ := NewRegistryFromConfig(testConfig(), logging.Nop())

	if _, _, err := r.Resolve("", "gpt-4o"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pc, _ := r.Config(ProviderOpenAI)
	if pc.Model != "gpt-4o-mini" || pc.MaxTokens != 4096 {
		t.Errorf("registered config changed: %+v", pc)
	}
}

func TestRegistry_ResolveWithoutDefault(t *testing.T) {
	r := NewRegistry("", logging.Nop())
	_ = r.Register(&stubProvider{name: ProviderAnthropic}, config.Provider{Model: "claude"})

	p, _, err := r.Resolve("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderAnthropic {
		t.Errorf("expected anthropic fallback, got %s", p.Name())
	}
}

func TestRegistry_ResolveValidationError(t *testing.T) {
	r := NewRegistry("stub", logging.Nop())
	broken := errors.New("broken")
	_ = r.Register(&stubProvider{name: "stub", err: broken}, config.Provider{})

	if _, _, err := r.Resolve("", ""); !errors.Is(err, broken) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDefaultRequest(t *testing.T) {
	req := DefaultRequest("topic")

	if req.Prompt != "topic" {
		t.Errorf("expected prompt 'topic', got %s", req.Prompt)
	}
	if req.MaxTokens != 8192 {
		t.Errorf("expected max_tokens 8192, got %d", req.MaxTokens)
	}
	if req.Temperature != 0.4 {
		t.Errorf("expected temperature 0.4, got %f", req.Temperature)
	}
}

func TestRequest_Fallbacks(t *testing.T) {
	req := &Request{}
	if got := req.model("base"); got != "base" {
		t.Errorf("expected fallback model, got %s", got)
	}
	if got := req.maxTokens(0); got != 8192 {
		t.Errorf("expected 8192, got %d", got)
	}

	req = &Request{Model: "override", MaxTokens: 10}
	if got := req.model("base"); got != "override" {
		t.Errorf("expected override model, got %s", got)
	}
	if got := req.maxTokens(100); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}
