package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-messenger/pkg/domain"
)

type namedPoster string

func (n namedPoster) Name() string { return string(n) }

func (n namedPoster) Post(context.Context, domain.Delivery) error { return nil }

func TestRegistryRoute(t *testing.T) {
	reg := NewRegistry(namedPoster("Slack"), namedPoster("console"), nil)

	if p, err := reg.Route(" slack "); err != nil || p.Name() != "Slack" {
		t.Fatalf("expected slack poster, got %v (%v)", p, err)
	}
	if _, err := reg.Route("teams"); !errors.Is(err, ErrAdapterNotFound) {
		t.Fatalf("expected ErrAdapterNotFound, got %v", err)
	}
	if got := strings.Join(reg.Describe(), ","); got != "console,slack" {
		t.Fatalf("unexpected describe %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&StatusError{Adapter: "slack", StatusCode: 500}, true},
		{&StatusError{Adapter: "slack", StatusCode: 429}, true},
		{fmt.Errorf("wrapped: %w", &StatusError{Adapter: "slack", StatusCode: 404}), false},
		{errors.New("connection reset"), true},
		{context.Canceled, false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestMaskURLHidesPath(t *testing.T) {
	masked := MaskURL("https://hooks.slack.com/services/T000/B000/XXXXSECRET")
	if !strings.HasPrefix(masked, "https://hooks.slack.com/") {
		t.Fatalf("expected host to stay readable, got %q", masked)
	}
	if strings.Contains(masked, "T000/B000") || strings.Contains(masked, "SECRET") {
		t.Fatalf("expected secret path to be masked, got %q", masked)
	}
	if MaskURL("") != "" {
		t.Fatalf("expected empty input to stay empty")
	}
	if got := MaskURL("https://example.com"); got != "https://example.com/" {
		t.Fatalf("unexpected mask for bare host %q", got)
	}
}
