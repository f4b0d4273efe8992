package notifier

import (
	"context"
	"errors"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
)

// Builder turns an issue event into per-channel deliveries.
type Builder interface {
	Build(ctx context.Context, event domain.IssueEvent) ([]domain.Delivery, error)
}

// Dispatcher delivers payloads and waits for their outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, deliveries []domain.Delivery) error
}

// Manager builds and delivers notifications synchronously. Use the
// messenger service when fire-and-forget scheduling is preferred.
type Manager struct {
	builder    Builder
	dispatcher Dispatcher
	logger     logger.Logger
}

// Dependencies bundles the collaborators required by the manager.
type Dependencies struct {
	Builder    Builder
	Dispatcher Dispatcher
	Logger     logger.Logger
}

var (
	ErrMissingBuilder    = errors.New("notifier: builder is required")
	ErrMissingDispatcher = errors.New("notifier: dispatcher is required")
	ErrMissingProject    = errors.New("notifier: event project is required")
)

// New constructs the notifier manager.
func New(deps Dependencies) (*Manager, error) {
	if deps.Builder == nil {
		return nil, ErrMissingBuilder
	}
	if deps.Dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	deps.Logger = logger.OrNop(deps.Logger)
	return &Manager{
		builder:    deps.Builder,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}, nil
}

// Preview returns the deliveries an event would produce without sending them.
func (m *Manager) Preview(ctx context.Context, evt domain.IssueEvent) ([]domain.Delivery, error) {
	if evt.Project == nil {
		return nil, ErrMissingProject
	}
	return m.builder.Build(ctx, evt)
}

// Send builds the deliveries for evt and posts them, returning once every
// channel has succeeded or exhausted its retries.
func (m *Manager) Send(ctx context.Context, evt domain.IssueEvent) ([]domain.Delivery, error) {
	deliveries, err := m.Preview(ctx, evt)
	if err != nil {
		return nil, err
	}
	if len(deliveries) == 0 {
		m.logger.Debug("notifier skipped event",
			logger.F("project", evt.Project.Identifier),
			logger.F("issue", evt.Issue.ID),
		)
		return nil, nil
	}
	if err := m.dispatcher.Dispatch(ctx, deliveries); err != nil {
		m.logger.Error("notifier delivery failed",
			logger.F("project", evt.Project.Identifier),
			logger.F("issue", evt.Issue.ID),
			logger.Err(err),
		)
		return deliveries, err
	}
	return deliveries, nil
}
