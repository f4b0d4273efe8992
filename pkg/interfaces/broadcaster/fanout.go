package broadcaster

import (
	"context"
	"errors"
	"fmt"
)

// Func adapts a function to the Broadcaster interface.
type Func func(ctx context.Context, event Event) error

func (f Func) Broadcast(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// Fanout publishes delivery outcomes to every registered sink.
type Fanout struct {
	sinks []Broadcaster
}

// NewFanout drops nil sinks.
func NewFanout(sinks ...Broadcaster) *Fanout {
	f := &Fanout{}
	for _, sink := range sinks {
		f.Add(sink)
	}
	return f
}

// Add registers another sink. Not safe to call concurrently with Broadcast.
func (f *Fanout) Add(sink Broadcaster) {
	if sink == nil {
		return
	}
	f.sinks = append(f.sinks, sink)
}

var _ Broadcaster = (*Fanout)(nil)

// Broadcast hands the event to every sink. A failing sink does not stop the
// others; all errors are joined.
func (f *Fanout) Broadcast(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Broadcast(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("broadcast %s: %w", event.Topic, err))
		}
	}
	return errors.Join(errs...)
}
