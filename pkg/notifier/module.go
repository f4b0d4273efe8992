package notifier

import (
	"context"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-messenger/internal/di"
	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/commands"
	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-messenger/pkg/interfaces/cache"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/interfaces/queue"
	"github.com/goliatone/go-messenger/pkg/links"
	"github.com/goliatone/go-messenger/pkg/messenger"
	"github.com/goliatone/go-messenger/pkg/render"
	"github.com/goliatone/go-messenger/pkg/settings"
	"github.com/goliatone/go-messenger/pkg/storage"
)

// ModuleOptions configure the messenger module facade.
type ModuleOptions struct {
	Config      config.Config
	Storage     storage.Providers
	Logger      logger.Logger
	Translator  i18n.Translator
	Formatter   render.FieldFormatter
	Links       links.LinkBuilder
	Queue       queue.Queue
	Posters     []adapters.Poster
	Cache       cache.Cache
	Broadcaster broadcaster.Broadcaster
}

// Module bundles the container and exposes high-level accessors.
type Module struct {
	container *di.Container
	manager   *Manager
}

// NewModule assembles repositories, resolvers, dispatcher, manager, and commands.
func NewModule(opts ModuleOptions) (*Module, error) {
	container, err := di.New(di.Options{
		Config:      opts.Config,
		Storage:     opts.Storage,
		Logger:      opts.Logger,
		Translator:  opts.Translator,
		Formatter:   opts.Formatter,
		Links:       opts.Links,
		Queue:       opts.Queue,
		Posters:     opts.Posters,
		Cache:       opts.Cache,
		Broadcaster: opts.Broadcaster,
	})
	if err != nil {
		return nil, err
	}
	manager, err := New(Dependencies{
		Builder:    container.Builder,
		Dispatcher: container.Dispatcher,
		Logger:     container.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Module{container: container, manager: manager}, nil
}

// Start launches the background delivery workers.
func (m *Module) Start(ctx context.Context) {
	if m == nil || m.container == nil {
		return
	}
	m.container.Start(ctx)
}

// Close drains queued deliveries.
func (m *Module) Close(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close(ctx)
}

// Manager returns the synchronous notifier manager.
func (m *Module) Manager() *Manager {
	if m == nil || m.container == nil {
		return nil
	}
	return m.manager
}

// Messenger returns the queueing notification service.
func (m *Module) Messenger() *messenger.Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Messenger
}

// Settings returns the project settings resolver.
func (m *Module) Settings() *settings.Resolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Settings
}

// Commands returns the go-command registry.
func (m *Module) Commands() *commands.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands
}

// AdapterRegistry exposes the configured poster registry.
func (m *Module) AdapterRegistry() *adapters.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Adapters
}

// Config returns the effective module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}

// Container returns the internal DI container.
// This is exposed for advanced use cases like direct storage access.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}
