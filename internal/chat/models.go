package chat

import (
	"fmt"
	"sync/atomic"
)

const (
	ModelDefault  = "default"
	ModelAdvanced = "advanced"
)

// ModelNames is the fixed set of model aliases clients may select.
var ModelNames = []string{ModelDefault, ModelAdvanced}

type ModelInfo struct {
	Name   string
	Engine string
}

// ModelRegistry maps model aliases to backend engine ids and holds the
// process-wide active alias used when a request does not pick one.
type ModelRegistry struct {
	engines map[string]string
	active  atomic.Value // string
}

func NewModelRegistry(engines map[string]string, initial string) (*ModelRegistry, error) {
	registry := &ModelRegistry{engines: make(map[string]string, len(ModelNames))}

	for _, name := range ModelNames {
		engine, ok := engines[name]
		if !ok || engine == "" {
			return nil, fmt.Errorf("no engine configured for model %s", name)
		}
		registry.engines[name] = engine
	}

	if err := registry.SetActive(initial); err != nil {
		return nil, fmt.Errorf("invalid initial model: %w", err)
	}

	return registry, nil
}

func (r *ModelRegistry) Engine(name string) (string, error) {
	engine, ok := r.engines[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, name)
	}
	return engine, nil
}

func (r *ModelRegistry) Active() string {
	return r.active.Load().(string)
}

// SetActive switches the default model. Unknown names leave it unchanged.
func (r *ModelRegistry) SetActive(name string) error {
	if _, err := r.Engine(name); err != nil {
		return err
	}
	r.active.Store(name)
	return nil
}

func (r *ModelRegistry) Models() []ModelInfo {
	models := make([]ModelInfo, 0, len(ModelNames))
	for _, name := range ModelNames {
		models = append(models, ModelInfo{Name: name, Engine: r.engines[name]})
	}
	return models
}
