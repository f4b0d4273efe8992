package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-messenger/pkg/domain"
)

// Poster is implemented by delivery adapters (Slack webhook, console, ...).
type Poster interface {
	Name() string
	Post(ctx context.Context, delivery domain.Delivery) error
}

// ErrAdapterNotFound is returned when no poster is registered under a name.
var ErrAdapterNotFound = errors.New("adapters: no adapter matches name")

// StatusError reports a non-success response from a webhook endpoint.
type StatusError struct {
	Adapter    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Adapter, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Adapter, e.StatusCode)
}

// Retryable reports whether the request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsRetryable reports whether err is worth another attempt. Errors that are
// not StatusError (network failures, timeouts) are retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Retryable()
	}
	return true
}

// Registry stores available posters by name.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Poster
}

// NewRegistry builds a registry with the supplied posters.
func NewRegistry(posters ...Poster) *Registry {
	reg := &Registry{adapters: make(map[string]Poster)}
	for _, p := range posters {
		reg.Register(p)
	}
	return reg
}

// Register adds a poster, replacing any poster with the same name.
func (r *Registry) Register(p Poster) {
	if r == nil || p == nil {
		return
	}
	name := normalizeKey(p.Name())
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[name] = p
}

// Route returns the poster registered under name.
func (r *Registry) Route(name string) (Poster, error) {
	if r == nil {
		return nil, ErrAdapterNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if adapter, ok := r.adapters[normalizeKey(name)]; ok {
		return adapter, nil
	}
	return nil, ErrAdapterNotFound
}

// Describe returns the sorted names of the registered posters.
func (r *Registry) Describe() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
