package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roboco-io/deckstream/internal/config"
)

// ErrProviderNotFound is returned when a name is not in the registry.
var ErrProviderNotFound = errors.New("provider not found")

// entry is a registered provider together with the configuration it was
// built from, so it can be rebuilt for another model.
type entry struct {
	provider Provider
	config   config.Provider
}

// Registry holds the providers available for generation.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]entry
	defaultName string
	log         zerolog.Logger
}

// NewRegistry creates an empty registry. defaultName is used by Resolve when
// neither a provider nor a model is given.
func NewRegistry(defaultName string, log zerolog.Logger) *Registry {
	return &Registry{
		entries:     make(map[string]entry),
		defaultName: defaultName,
		log:         log,
	}
}

// NewRegistryFromConfig builds every provider named in cfg. Providers that
// cannot be built are skipped and reported in the returned error list.
func NewRegistryFromConfig(cfg *config.Config, log zerolog.Logger) (*Registry, []error) {
	r := NewRegistry(cfg.DefaultProvider, log)
	var errs []error
	for _, name := range Names {
		pc, ok := cfg.GetProvider(name)
		if !ok {
			continue
		}
		p, err := NewFromConfig(name, *pc, log)
		if err == nil {
			err = r.Register(p, *pc)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return r, errs
}

// Register adds a provider built from pc.
func (r *Registry) Register(p Provider, pc config.Provider) error {
	if p == nil {
		return fmt.Errorf("cannot register nil provider")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}
	r.entries[name] = entry{provider: p, config: pc}
	return nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, r.notFound(name)
	}
	return e.provider, nil
}

// Config returns the configuration a provider was registered with.
func (r *Registry) Config(name string) (config.Provider, bool) {
	e, ok := r.lookup(name)
	return e.config, ok
}

// List returns all registered provider names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check validates the named provider without contacting it.
func (r *Registry) Check(name string) error {
	p, err := r.Get(name)
	if err != nil {
		return err
	}
	return p.Validate()
}

// Configured returns the sorted names of providers that pass validation.
func (r *Registry) Configured() []string {
	var out []string
	for _, name := range r.List() {
		if r.Check(name) == nil {
			out = append(out, name)
		}
	}
	return out
}

// Resolve picks a provider and returns it validated, with the configuration
// it runs with. The name wins; otherwise the provider is detected from model;
// with neither, the registry default is used. A model different from the
// configured one rebuilds the provider for that model.
func (r *Registry) Resolve(name, model string) (Provider, config.Provider, error) {
	if name == "" {
		name = r.detect(model)
	}

	e, ok := r.lookup(name)
	if !ok {
		return nil, config.Provider{}, r.notFound(name)
	}

	p, pc := e.provider, e.config
	if model != "" && model != pc.Model {
		pc.Model = model
		rebuilt, err := NewFromConfig(name, pc, r.log)
		if err != nil {
			return nil, config.Provider{}, err
		}
		p = rebuilt
	}

	if err := p.Validate(); err != nil {
		return nil, config.Provider{}, err
	}
	r.log.Debug().Str("provider", name).Str("model", pc.Model).Msg("provider resolved")
	return p, pc, nil
}

func (r *Registry) detect(model string) string {
	if model == "" && r.defaultName != "" {
		return r.defaultName
	}
	return DetectProviderFromModel(model)
}

func (r *Registry) lookup(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

func (r *Registry) notFound(name string) error {
	return fmt.Errorf("%w: %s (registered: %s)", ErrProviderNotFound, name, strings.Join(r.List(), ", "))
}
