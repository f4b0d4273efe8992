package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-messenger/pkg/adapters"
	"github.com/goliatone/go-messenger/pkg/config"
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/interfaces/queue"
	"github.com/goliatone/go-messenger/pkg/retry"
	"golang.org/x/time/rate"
)

// Dependencies groups the collaborators required by the dispatcher.
type Dependencies struct {
	Poster      adapters.Poster
	Logger      logger.Logger
	Config      config.DispatcherConfig
	Backoff     retry.Backoff
	Broadcaster broadcaster.Broadcaster
}

// Service delivers payloads to webhook endpoints. It is both a
// queue.Queue (asynchronous, worker pool) and a synchronous fan-out
// dispatcher.
type Service struct {
	poster      adapters.Poster
	logger      logger.Logger
	cfg         config.DispatcherConfig
	backoff     retry.Backoff
	broadcaster broadcaster.Broadcaster

	// jobsMu guards sends on jobs against Close closing the channel.
	jobsMu    sync.RWMutex
	jobs      chan queue.Job
	closed    bool
	wg        sync.WaitGroup
	startOnce sync.Once

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter

	delivered atomic.Int64
	failed    atomic.Int64
}

var _ queue.Queue = (*Service)(nil)

var (
	ErrMissingPoster = errors.New("dispatcher: poster is required")
	ErrQueueFull     = errors.New("dispatcher: queue is full")
	ErrQueueClosed   = errors.New("dispatcher: queue is closed")
	ErrInvalidJob    = errors.New("dispatcher: job payload must be a delivery")
)

// Stats reports delivery outcomes since the service was created.
type Stats struct {
	Delivered int64
	Failed    int64
}

// New builds the dispatcher service.
func New(deps Dependencies) (*Service, error) {
	if deps.Poster == nil {
		return nil, ErrMissingPoster
	}

	deps.Logger = logger.OrNop(deps.Logger)

	if deps.Config.MaxWorkers <= 0 {
		deps.Config.MaxWorkers = 4
	}

	if deps.Config.QueueSize <= 0 {
		deps.Config.QueueSize = 256
	}

	if deps.Backoff == nil {
		base, limit := deps.Config.BackoffDurations()
		deps.Backoff = retry.ExponentialBackoff{Base: base, Max: limit, Jitter: deps.Config.BackoffJitter}
	}

	if deps.Broadcaster == nil {
		deps.Broadcaster = &broadcaster.Nop{}
	}

	return &Service{
		poster:      deps.Poster,
		logger:      deps.Logger,
		cfg:         deps.Config,
		backoff:     deps.Backoff,
		broadcaster: deps.Broadcaster,
		jobs:        make(chan queue.Job, deps.Config.QueueSize),
		limiters:    make(map[string]*rate.Limiter),
	}, nil
}

// Start launches the worker pool. Workers stop when ctx is done or the
// service is closed. Calling Start more than once has no effect.
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for range s.cfg.MaxWorkers {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.work(ctx)
			}()
		}
	})
}

// Enqueue schedules one delivery without waiting for the outcome.
func (s *Service) Enqueue(ctx context.Context, job queue.Job) error {
	if _, ok := job.Payload.(domain.Delivery); !ok {
		return ErrInvalidJob
	}
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()
	if s.closed {
		return ErrQueueClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for queued jobs to drain or for
// ctx to expire.
func (s *Service) Close(ctx context.Context) error {
	s.jobsMu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.jobsMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch delivers every entry concurrently and waits for all outcomes.
func (s *Service) Dispatch(ctx context.Context, deliveries []domain.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	jobs := make(chan domain.Delivery, len(deliveries))
	errCh := make(chan error, len(deliveries))
	var wg sync.WaitGroup
	workerCount := min(s.cfg.MaxWorkers, len(deliveries))

	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for delivery := range jobs {
				if ctx.Err() != nil {
					errCh <- ctx.Err()
					continue
				}
				if err := s.Deliver(ctx, delivery); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for _, delivery := range deliveries {
		jobs <- delivery
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("dispatcher: %d of %d deliveries failed: %w", len(errs), len(deliveries), errors.Join(errs...))
	}
	return nil
}

// Deliver posts one delivery, retrying transient failures.
func (s *Service) Deliver(ctx context.Context, delivery domain.Delivery) error {
	err := s.deliverWithRetries(ctx, delivery)
	if err != nil {
		s.failed.Add(1)
		s.publish(ctx, broadcaster.TopicFailed, broadcaster.Outcome{Delivery: delivery, Error: err.Error()})
		return err
	}
	s.delivered.Add(1)
	s.publish(ctx, broadcaster.TopicDelivered, broadcaster.Outcome{Delivery: delivery})
	return nil
}

func (s *Service) publish(ctx context.Context, topic string, outcome broadcaster.Outcome) {
	if err := s.broadcaster.Broadcast(ctx, broadcaster.Event{Topic: topic, Payload: outcome}); err != nil {
		s.logger.Warn("dispatcher broadcast failed",
			logger.F("topic", topic),
			logger.Err(err),
		)
	}
}

// Stats returns delivery counters.
func (s *Service) Stats() Stats {
	return Stats{Delivered: s.delivered.Load(), Failed: s.failed.Load()}
}

func (s *Service) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			delivery, _ := job.Payload.(domain.Delivery)
			if err := s.Deliver(ctx, delivery); err != nil {
				s.logger.Error("dispatcher delivery failed",
					logger.F("job", job.Key),
					logger.F("channel", delivery.Payload.Channel),
					logger.F("url", adapters.MaskURL(delivery.URL)),
					logger.Err(err),
				)
			}
		}
	}
}

func (s *Service) deliverWithRetries(ctx context.Context, delivery domain.Delivery) error {
	var lastErr error
	attempts := s.cfg.Retries() + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.limiter(delivery.URL).Wait(ctx); err != nil {
			return fmt.Errorf("dispatcher: rate limit wait: %w", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.TimeoutDuration())
		lastErr = s.poster.Post(attemptCtx, delivery)
		cancel()
		if lastErr == nil {
			return nil
		}

		s.logger.Warn("delivery error",
			logger.F("attempt", attempt),
			logger.F("channel", delivery.Payload.Channel),
			logger.Err(lastErr),
		)
		if !adapters.IsRetryable(lastErr) || attempt == attempts {
			break
		}
		if err := retry.Wait(ctx, s.backoff.Next(attempt)); err != nil {
			return err
		}
	}
	return fmt.Errorf("dispatcher: delivery to %s failed: %w", delivery.Payload.Channel, lastErr)
}

// limiter returns the rate limiter shared by every delivery to url.
func (s *Service) limiter(url string) *rate.Limiter {
	key := strings.TrimSpace(url)
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	if l, ok := s.limiters[key]; ok {
		return l
	}
	limit := rate.Inf
	if s.cfg.RatePerSecond > 0 {
		limit = rate.Limit(s.cfg.RatePerSecond)
	}
	l := rate.NewLimiter(limit, 1)
	s.limiters[key] = l
	return l
}
