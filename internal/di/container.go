package di

import (
	"context"
	"reflect"
	"time"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-messenger/internal/dispatcher"
	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/adapters/console"
	"github.com/goliatone/go-messenger/pkg/adapters/slack"
	"github.com/goliatone/go-messenger/pkg/commands"
	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-messenger/pkg/interfaces/cache"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/interfaces/queue"
	"github.com/goliatone/go-messenger/pkg/links"
	"github.com/goliatone/go-messenger/pkg/mentions"
	"github.com/goliatone/go-messenger/pkg/messenger"
	"github.com/goliatone/go-messenger/pkg/options"
	"github.com/goliatone/go-messenger/pkg/render"
	"github.com/goliatone/go-messenger/pkg/settings"
	"github.com/goliatone/go-messenger/pkg/storage"
)

// Options configure the DI container.
type Options struct {
	Config      config.Config
	Storage     storage.Providers
	Logger      logger.Logger
	Translator  i18n.Translator
	Formatter   render.FieldFormatter
	Links       links.LinkBuilder
	Queue       queue.Queue
	Posters     []adapters.Poster
	Cache       cache.Cache
	CacheTTL    time.Duration
	Broadcaster broadcaster.Broadcaster
}

// DefaultCacheTTL bounds how long entity lookups stay cached.
const DefaultCacheTTL = time.Minute

// Container wires repositories, resolvers, builder, dispatcher, and commands.
type Container struct {
	Config     config.Config
	Storage    storage.Providers
	Defaults   domain.SystemDefaults
	Settings   *settings.Resolver
	Labels     *render.Labels
	Links      links.LinkBuilder
	Renderer   *render.Renderer
	Builder    *messenger.Builder
	Messenger  *messenger.Service
	Dispatcher *dispatcher.Service
	Queue      queue.Queue
	Commands   *commands.Registry
	Adapters   *adapters.Registry
	Logger     logger.Logger
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers := opts.Storage
	if providers.Projects == nil {
		providers = storage.NewMemoryProviders()
	}

	lgr := logger.OrNop(opts.Logger)

	defaults, err := options.SystemDefaults(cfg.Messenger)
	if err != nil {
		return nil, err
	}

	resolver := settings.New(settings.Dependencies{
		Tree:     providers.Tree(),
		Defaults: defaults,
		Logger:   lgr,
	})

	translator := opts.Translator
	if translator == nil {
		translator, err = render.NewTranslator()
		if err != nil {
			return nil, err
		}
	}
	labels := render.NewLabels(translator, cfg.Localization.DefaultLocale)

	linker := opts.Links
	if linker == nil {
		hostLinks, err := links.NewHostBuilder(cfg.Links.HostName, cfg.Links.Protocol)
		if err != nil {
			return nil, err
		}
		linker = hostLinks
	}

	directory := providers.Directory()
	if opts.Cache != nil {
		directory.Cache = opts.Cache
		directory.TTL = opts.CacheTTL
		if directory.TTL <= 0 {
			directory.TTL = DefaultCacheTTL
		}
	}

	renderer, err := render.New(render.Dependencies{
		Toggles:      resolver,
		Entities:     directory,
		CustomFields: directory,
		Formatter:    opts.Formatter,
		Links:        linker,
		Labels:       labels,
		HoursFormat:  cfg.Hours.Format,
		Logger:       lgr,
	})
	if err != nil {
		return nil, err
	}

	summary, err := messenger.NewSummary(cfg.Summary)
	if err != nil {
		return nil, err
	}

	builder, err := messenger.NewBuilder(messenger.BuilderDependencies{
		Settings: resolver,
		Renderer: renderer,
		Mentions: mentions.New(resolver),
		Summary:  summary,
		Links:    linker,
		Labels:   labels,
		Logger:   lgr,
	})
	if err != nil {
		return nil, err
	}

	posters := opts.Posters
	if len(posters) == 0 {
		posters = []adapters.Poster{
			slack.New(lgr, slack.WithConfig(slack.Config{Timeout: cfg.Dispatcher.TimeoutDuration()})),
			console.New(lgr, console.WithStructured(true)),
		}
	}
	adapterRegistry := adapters.NewRegistry(posters...)
	poster, err := adapterRegistry.Route(cfg.Dispatcher.Adapter)
	if err != nil {
		return nil, err
	}

	dispatcherSvc, err := dispatcher.New(dispatcher.Dependencies{
		Poster:      poster,
		Logger:      lgr,
		Config:      cfg.Dispatcher,
		Broadcaster: opts.Broadcaster,
	})
	if err != nil {
		return nil, err
	}

	q := opts.Queue
	if q == nil {
		q = dispatcherSvc
		if !cfg.Dispatcher.Enabled {
			q = &queue.Nop{}
		}
	}

	messengerSvc, err := messenger.New(messenger.Dependencies{
		Builder: builder,
		Queue:   q,
		Logger:  lgr,
	})
	if err != nil {
		return nil, err
	}

	cmdRegistry, err := commands.New(commands.Dependencies{
		Projects:     providers.Projects,
		Settings:     providers.Settings,
		Entities:     providers.Entities,
		CustomFields: providers.CustomFields,
		Transactions: providers.Transaction,
		Notifier:     messengerSvc,
		Logger:       lgr,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Storage:    providers,
		Defaults:   defaults,
		Settings:   resolver,
		Labels:     labels,
		Links:      linker,
		Renderer:   renderer,
		Builder:    builder,
		Messenger:  messengerSvc,
		Dispatcher: dispatcherSvc,
		Queue:      q,
		Commands:   cmdRegistry,
		Adapters:   adapterRegistry,
		Logger:     lgr,
	}, nil
}

// Start launches the dispatcher workers when the container owns the queue.
func (c *Container) Start(ctx context.Context) {
	if c == nil || c.Queue != queue.Queue(c.Dispatcher) {
		return
	}
	c.Dispatcher.Start(ctx)
}

// Close drains the dispatcher queue.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Dispatcher == nil {
		return nil
	}
	return c.Dispatcher.Close(ctx)
}
