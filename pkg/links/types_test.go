package links

import (
	"context"
	"testing"
)

func TestHostBuilderParsesHostName(t *testing.T) {
	cases := []struct {
		host     string
		protocol string
		want     string
	}{
		{"redmine.example.com", "https", "https://redmine.example.com"},
		{"http://redmine.example.com:8080/tracker", "http", "http://redmine.example.com:8080/tracker"},
		{"localhost:3000", "", "http://localhost:3000"},
		{"example.com/sub/", "https", "https://example.com/sub"},
	}
	for _, tc := range cases {
		builder, err := NewHostBuilder(tc.host, tc.protocol)
		if err != nil {
			t.Fatalf("NewHostBuilder(%q): %v", tc.host, err)
		}
		if builder.Base() != tc.want {
			t.Fatalf("NewHostBuilder(%q) base = %q, want %q", tc.host, builder.Base(), tc.want)
		}
	}
}

func TestHostBuilderBuild(t *testing.T) {
	builder, err := NewHostBuilder("tracker.test", "https")
	if err != nil {
		t.Fatalf("NewHostBuilder: %v", err)
	}
	ctx := context.Background()

	got, err := builder.Build(ctx, LinkRequest{Kind: KindIssue, ID: "42"})
	if err != nil || got != "https://tracker.test/issues/42" {
		t.Fatalf("issue link = %q (%v)", got, err)
	}
	got, err = builder.Build(ctx, LinkRequest{Kind: KindAttachment, ID: "7"})
	if err != nil || got != "https://tracker.test/attachments/7" {
		t.Fatalf("attachment link = %q (%v)", got, err)
	}
	got, err = builder.Build(ctx, LinkRequest{Kind: KindProject, ID: "ops"})
	if err != nil || got != "https://tracker.test/projects/ops" {
		t.Fatalf("project link = %q (%v)", got, err)
	}
	if _, err := builder.Build(ctx, LinkRequest{Kind: "wiki", ID: "x"}); err == nil {
		t.Fatalf("expected unsupported kind error")
	}
	if _, err := builder.Build(ctx, LinkRequest{Kind: KindIssue}); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestNewHostBuilderValidation(t *testing.T) {
	if _, err := NewHostBuilder("", "https"); err == nil {
		t.Fatalf("expected empty host error")
	}
	if _, err := NewHostBuilder("example.com", "ftp"); err == nil {
		t.Fatalf("expected protocol error")
	}
}
