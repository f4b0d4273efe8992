package messenger

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/interfaces/queue"
)

var (
	ErrMissingBuilder = errors.New("messenger: builder is required")
	ErrMissingQueue   = errors.New("messenger: queue is required")
)

// Dependencies wires the notification service.
type Dependencies struct {
	Builder *Builder
	Queue   queue.Queue
	Logger  logger.Logger
}

// Service builds deliveries for issue events and enqueues them.
type Service struct {
	builder *Builder
	queue   queue.Queue
	logger  logger.Logger
}

// New validates deps and returns a Service.
func New(deps Dependencies) (*Service, error) {
	if deps.Builder == nil {
		return nil, ErrMissingBuilder
	}
	if deps.Queue == nil {
		return nil, ErrMissingQueue
	}
	deps.Logger = logger.OrNop(deps.Logger)
	return &Service{builder: deps.Builder, queue: deps.Queue, logger: deps.Logger}, nil
}

// Builder exposes the payload builder.
func (s *Service) Builder() *Builder {
	return s.builder
}

// Notify enqueues one job per delivery and returns the deliveries it
// scheduled. Enqueue failures on one channel do not stop the others.
func (s *Service) Notify(ctx context.Context, event domain.IssueEvent) ([]domain.Delivery, error) {
	deliveries, err := s.builder.Build(ctx, event)
	if err != nil {
		return nil, err
	}

	var errs []error
	scheduled := make([]domain.Delivery, 0, len(deliveries))
	for _, delivery := range deliveries {
		job := queue.Job{
			Key:     jobKey(event, delivery),
			Payload: delivery,
		}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.logger.Error("messenger enqueue failed",
				logger.F("channel", delivery.Payload.Channel),
				logger.F("url", adapters.MaskURL(delivery.URL)),
				logger.Err(err),
			)
			errs = append(errs, fmt.Errorf("messenger: enqueue %s: %w", delivery.Payload.Channel, err))
			continue
		}
		scheduled = append(scheduled, delivery)
	}
	s.logger.Info("messenger event processed",
		logger.F("project", projectIdentifier(event.Project)),
		logger.F("issue", event.Issue.ID),
		logger.F("deliveries", len(scheduled)),
	)
	return scheduled, errors.Join(errs...)
}

func jobKey(event domain.IssueEvent, delivery domain.Delivery) string {
	return fmt.Sprintf("issue:%s:%s:%s", event.Issue.ID, event.Kind, delivery.Payload.Channel)
}
