package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/adapters/console"
	"github.com/goliatone/go-messenger/pkg/adapters/slack"
	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/notifier"
	"github.com/goliatone/go-messenger/pkg/storage"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// session is a module loaded with one fixture.
type session struct {
	module  *notifier.Module
	fixture *Fixture
	db      *bun.DB
}

func openSession(ctx context.Context, flags *globalFlags, fixturePath string, out, errOut io.Writer, dryRun bool) (*session, error) {
	cfg := config.Defaults()
	if flags.configPath != "" {
		loaded, err := config.LoadFile(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dryRun {
		cfg.Dispatcher.Adapter = "console"
	}

	lgr := logger.NewZerolog(zerolog.ConsoleWriter{Out: errOut, NoColor: true, TimeFormat: time.Kitchen}, flags.logLevel)

	s := &session{}
	providers := storage.NewMemoryProviders()
	if flags.dbPath != "" {
		db, err := openDB(ctx, flags.dbPath)
		if err != nil {
			return nil, err
		}
		s.db = db
		providers = storage.NewBunProviders(db)
	}

	module, err := notifier.NewModule(notifier.ModuleOptions{
		Config:  cfg,
		Storage: providers,
		Logger:  lgr,
		Posters: []adapters.Poster{
			slack.New(lgr, slack.WithConfig(slack.Config{Timeout: cfg.Dispatcher.TimeoutDuration()})),
			console.New(lgr, console.WithWriter(out)),
		},
	})
	if err != nil {
		s.close()
		return nil, err
	}
	s.module = module

	fx, err := LoadFixture(fixturePath)
	if err != nil {
		s.close()
		return nil, err
	}
	if err := fx.Apply(ctx, module.Commands()); err != nil {
		s.close()
		return nil, err
	}
	s.fixture = fx
	return s, nil
}

func openDB(ctx context.Context, path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("cli: open database %s: %w", path, err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := storage.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cli: create schema: %w", err)
	}
	return db, nil
}

// project returns the named project, defaulting to the fixture event project.
func (s *session) project(ctx context.Context, identifier string) (*domain.Project, error) {
	if identifier == "" {
		identifier = s.fixture.Notify.Project
	}
	if identifier == "" {
		return nil, fmt.Errorf("cli: no project given and fixture has no notify.project")
	}
	project, err := s.module.Container().Storage.Projects.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("cli: load project %s: %w", identifier, err)
	}
	return project, nil
}

// event returns the fixture event bound to its project.
func (s *session) event(ctx context.Context) (domain.IssueEvent, error) {
	project, err := s.project(ctx, "")
	if err != nil {
		return domain.IssueEvent{}, err
	}
	evt := s.fixture.Notify.Event
	evt.Project = project
	if evt.Kind == "" {
		evt.Kind = domain.IssueUpdated
	}
	return evt, nil
}

func (s *session) close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
