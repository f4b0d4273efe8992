package options

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-messenger/pkg/domain"
	opts "github.com/goliatone/go-options"
	layering "github.com/goliatone/go-options/layering"
)

// Layer is one scope of messenger defaults. Keys are setting paths built by
// SettingPath and TogglePath.
type Layer struct {
	Scope  opts.Scope
	Values map[string]any
}

// Stack is the merged view of the default layers. Higher priority scopes win.
type Stack struct {
	merged *opts.Options[map[string]any]
}

var ErrNoLayers = errors.New("options: at least one layer is required")

const togglePrefix = "toggle_"

// SettingPath is the stack path of a text setting.
func SettingPath(key domain.SettingKey) string { return string(key) }

// TogglePath is the stack path of a toggle.
func TogglePath(t domain.Toggle) string { return togglePrefix + string(t) }

// NewStack merges layers by scope priority.
func NewStack(layers ...Layer) (*Stack, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	stackLayers := make([]opts.Layer[map[string]any], 0, len(layers))
	for _, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, errors.New("options: layer scope name is required")
		}
		var values map[string]any
		if len(layer.Values) > 0 {
			values = layering.Clone(layer.Values)
		}
		stackLayers = append(stackLayers, opts.NewLayer(layer.Scope, values))
	}
	stack, err := opts.NewStack(stackLayers...)
	if err != nil {
		return nil, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return nil, err
	}
	return &Stack{merged: merged}, nil
}

// Text returns the winning value of key. Missing or non-string values
// yield "".
func (s *Stack) Text(key domain.SettingKey) string {
	value, _, err := s.lookup(SettingPath(key))
	if err != nil {
		return ""
	}
	text, _ := value.(string)
	return text
}

// Toggle returns the winning value of t and whether any layer holds a
// boolean for it.
func (s *Stack) Toggle(t domain.Toggle) (value bool, ok bool) {
	raw, _, err := s.lookup(TogglePath(t))
	if err != nil {
		return false, false
	}
	value, ok = raw.(bool)
	return value, ok
}

// Explain reports which scopes supplied the value at path.
func (s *Stack) Explain(path string) (opts.Trace, error) {
	_, trace, err := s.lookup(path)
	return trace, err
}

func (s *Stack) lookup(path string) (any, opts.Trace, error) {
	if s == nil || s.merged == nil {
		return nil, opts.Trace{Path: path}, fmt.Errorf("options: stack not initialised")
	}
	return s.merged.ResolveWithTrace(path)
}
