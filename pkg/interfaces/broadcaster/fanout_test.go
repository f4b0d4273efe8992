package broadcaster

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-messenger/pkg/domain"
)

func TestFanoutBroadcast(t *testing.T) {
	var topics []string
	fn := Func(func(ctx context.Context, evt Event) error {
		topics = append(topics, evt.Topic)
		return nil
	})
	f := NewFanout(fn, nil, fn)
	outcome := Outcome{Delivery: domain.Delivery{Payload: domain.Payload{Channel: "#ops"}}}
	if err := f.Broadcast(context.Background(), Event{Topic: TopicDelivered, Payload: outcome}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if len(topics) != 2 || topics[0] != TopicDelivered {
		t.Fatalf("expected delivered topic on both sinks, got %v", topics)
	}
}

func TestFanoutJoinsSinkErrors(t *testing.T) {
	errFirst := errors.New("sink unavailable")
	errSecond := errors.New("queue full")
	calls := 0
	f := NewFanout(
		Func(func(ctx context.Context, evt Event) error { calls++; return errFirst }),
		Func(func(ctx context.Context, evt Event) error { calls++; return nil }),
	)
	f.Add(Func(func(ctx context.Context, evt Event) error { calls++; return errSecond }))
	f.Add(nil)

	err := f.Broadcast(context.Background(), Event{Topic: TopicFailed})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected both sink errors, got %v", err)
	}
	if !strings.Contains(err.Error(), TopicFailed) {
		t.Fatalf("expected topic in error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected every sink invoked, got %d", calls)
	}
}

func TestNilFanout(t *testing.T) {
	var f *Fanout
	if err := f.Broadcast(context.Background(), Event{Topic: TopicDelivered}); err != nil {
		t.Fatalf("nil fanout: %v", err)
	}
}
