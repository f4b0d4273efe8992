package settings

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/google/uuid"
)

type fakeTree struct {
	projects  map[uuid.UUID]*domain.Project
	overrides map[uuid.UUID]*domain.ProjectSetting
	failOn    uuid.UUID
}

func newFakeTree() *fakeTree {
	return &fakeTree{
		projects:  make(map[uuid.UUID]*domain.Project),
		overrides: make(map[uuid.UUID]*domain.ProjectSetting),
	}
}

func (f *fakeTree) add(identifier string, parent *domain.Project, setting *domain.ProjectSetting) *domain.Project {
	project := &domain.Project{Identifier: identifier, Name: identifier}
	project.EnsureID()
	if parent != nil {
		id := parent.ID
		project.ParentID = &id
	}
	f.projects[project.ID] = project
	if setting != nil {
		setting.ProjectID = project.ID
		f.overrides[project.ID] = setting
	}
	return project
}

func (f *fakeTree) Parent(_ context.Context, project *domain.Project) (*domain.Project, error) {
	if project.ParentID == nil {
		return nil, nil
	}
	return f.projects[*project.ParentID], nil
}

func (f *fakeTree) Override(_ context.Context, project *domain.Project) (*domain.ProjectSetting, error) {
	if project.ID == f.failOn {
		return nil, errors.New("boom")
	}
	return f.overrides[project.ID], nil
}

func toggles(pairs map[domain.Toggle]domain.TriState) *domain.ProjectSetting {
	return &domain.ProjectSetting{Toggles: domain.ToggleMap(pairs)}
}

func TestToggleNearestExplicitAncestorWins(t *testing.T) {
	tree := newFakeTree()
	root := tree.add("root", nil, toggles(map[domain.Toggle]domain.TriState{domain.TogglePostDB: domain.TriStateForcedOn}))
	middle := tree.add("middle", root, toggles(map[domain.Toggle]domain.TriState{domain.TogglePostDB: domain.TriStateInherit}))
	leaf := tree.add("leaf", middle, nil)

	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{}})

	value, explicit := resolver.Toggle(context.Background(), leaf, domain.TogglePostDB)
	if !value || !explicit {
		t.Fatalf("expected explicit true from root, got value=%v explicit=%v", value, explicit)
	}
}

func TestToggleDescendantOverridesAncestor(t *testing.T) {
	tree := newFakeTree()
	root := tree.add("root", nil, toggles(map[domain.Toggle]domain.TriState{domain.TogglePostDB: domain.TriStateForcedOn}))
	leaf := tree.add("leaf", root, toggles(map[domain.Toggle]domain.TriState{domain.TogglePostDB: domain.TriStateForcedOff}))

	resolver := New(Dependencies{
		Tree:     tree,
		Defaults: domain.SystemDefaults{Toggles: map[domain.Toggle]bool{domain.TogglePostDB: true}},
	})

	if resolver.Enabled(context.Background(), leaf, domain.TogglePostDB) {
		t.Fatalf("expected leaf force-off to win")
	}
	if !resolver.Enabled(context.Background(), root, domain.TogglePostDB) {
		t.Fatalf("expected root force-on")
	}
}

func TestToggleFallsBackToSystemDefault(t *testing.T) {
	tree := newFakeTree()
	root := tree.add("root", nil, nil)
	leaf := tree.add("leaf", root, toggles(map[domain.Toggle]domain.TriState{}))

	resolver := New(Dependencies{
		Tree:     tree,
		Defaults: domain.SystemDefaults{Toggles: map[domain.Toggle]bool{domain.TogglePostDB: true}},
	})

	value, explicit := resolver.Toggle(context.Background(), leaf, domain.TogglePostDB)
	if !value || explicit {
		t.Fatalf("expected implicit system default, got value=%v explicit=%v", value, explicit)
	}
	if resolver.Enabled(context.Background(), leaf, "unknown_toggle") {
		t.Fatalf("unknown toggles must resolve false")
	}
	if resolver.Enabled(context.Background(), nil, domain.TogglePostDB) {
		t.Fatalf("nil project must resolve false")
	}
}

func TestChannelsOptOutIgnoresSystemDefault(t *testing.T) {
	tree := newFakeTree()
	project := tree.add("p", nil, &domain.ProjectSetting{Channel: domain.StringPtr("-")})

	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{Channel: "ops,infra"}})

	channels := resolver.Channels(context.Background(), project)
	if channels == nil || len(channels) != 0 {
		t.Fatalf("expected empty non-nil channel list, got %#v", channels)
	}
}

func TestChannelsInheritFromParentWithDedup(t *testing.T) {
	tree := newFakeTree()
	parent := tree.add("parent", nil, &domain.ProjectSetting{Channel: domain.StringPtr("a, a, b")})
	child := tree.add("child", parent, nil)

	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{Channel: "ops"}})

	got := resolver.Channels(context.Background(), child)
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestChannelsAncestorOptOutFallsBackToSystem(t *testing.T) {
	tree := newFakeTree()
	parent := tree.add("parent", nil, &domain.ProjectSetting{Channel: domain.StringPtr("-")})
	child := tree.add("child", parent, nil)

	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{Channel: " ops , infra,ops"}})

	got := resolver.Channels(context.Background(), child)
	if want := []string{"ops", "infra"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	resolver = New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{Channel: "-"}})
	if got := resolver.Channels(context.Background(), child); len(got) != 0 {
		t.Fatalf("expected system opt-out to yield no channels, got %v", got)
	}
	if got := resolver.Channels(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected nil project to yield no channels, got %v", got)
	}
}

func TestTextNearestOverrideThenSystem(t *testing.T) {
	tree := newFakeTree()
	root := tree.add("root", nil, &domain.ProjectSetting{Username: domain.StringPtr("root-bot")})
	middle := tree.add("middle", root, &domain.ProjectSetting{Username: domain.StringPtr("")})
	leaf := tree.add("leaf", middle, nil)

	resolver := New(Dependencies{
		Tree:     tree,
		Defaults: domain.SystemDefaults{Username: "system-bot", URL: "https://hooks.test/x"},
	})

	ctx := context.Background()
	if got := resolver.Text(ctx, leaf, domain.SettingUsername); got != "root-bot" {
		t.Fatalf("expected ancestor override, got %q", got)
	}
	if got := resolver.Text(ctx, leaf, domain.SettingURL); got != "https://hooks.test/x" {
		t.Fatalf("expected system url, got %q", got)
	}
	if got := resolver.Text(ctx, leaf, domain.SettingIcon); got != "" {
		t.Fatalf("expected empty icon, got %q", got)
	}
	if got := resolver.Text(ctx, nil, domain.SettingURL); got != "" {
		t.Fatalf("expected empty text for nil project, got %q", got)
	}
	if got := resolver.Text(ctx, leaf, domain.SettingKey("nope")); got != "" {
		t.Fatalf("expected unknown key to be empty, got %q", got)
	}
}

func TestBlankOverridesInherit(t *testing.T) {
	tree := newFakeTree()
	root := tree.add("root", nil, &domain.ProjectSetting{
		URL:     domain.StringPtr("https://hooks.test/root"),
		Channel: domain.StringPtr("general"),
	})
	middle := tree.add("middle", root, &domain.ProjectSetting{Channel: domain.StringPtr(" \t ")})
	leaf := tree.add("leaf", middle, &domain.ProjectSetting{
		URL:     domain.StringPtr("   "),
		Channel: domain.StringPtr("  "),
	})
	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{URL: "https://system", Channel: "#system"}})

	ctx := context.Background()
	if got := resolver.Text(ctx, leaf, domain.SettingURL); got != "https://hooks.test/root" {
		t.Fatalf("expected blank url to inherit, got %q", got)
	}
	if got := resolver.Channels(ctx, leaf); !reflect.DeepEqual(got, []string{"general"}) {
		t.Fatalf("expected blank channel to inherit, got %v", got)
	}

	optOut := tree.add("quiet", root, &domain.ProjectSetting{Channel: domain.StringPtr(" - ")})
	if got := resolver.Channels(ctx, optOut); len(got) != 0 {
		t.Fatalf("expected opt-out to silence the project, got %v", got)
	}
}

func TestOverrideLookupErrorDegradesToDefaults(t *testing.T) {
	tree := newFakeTree()
	project := tree.add("p", nil, &domain.ProjectSetting{URL: domain.StringPtr("https://project")})
	tree.failOn = project.ID

	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{URL: "https://system"}})
	if got := resolver.Text(context.Background(), project, domain.SettingURL); got != "https://system" {
		t.Fatalf("expected system fallback, got %q", got)
	}
}

func TestResolveSnapshot(t *testing.T) {
	tree := newFakeTree()
	project := tree.add("p", nil, &domain.ProjectSetting{
		Channel: domain.StringPtr("#dev"),
		Icon:    domain.StringPtr(":robot:"),
		Toggles: domain.ToggleMap{domain.ToggleAutoMentions: domain.TriStateForcedOn},
	})

	resolver := New(Dependencies{
		Tree: tree,
		Defaults: domain.SystemDefaults{
			URL:     "https://system",
			Toggles: map[domain.Toggle]bool{"post_wiki": true},
		},
	})

	resolved := resolver.Resolve(context.Background(), project)
	if resolved.URL != "https://system" || resolved.Icon != ":robot:" {
		t.Fatalf("unexpected text fields %+v", resolved)
	}
	if !reflect.DeepEqual(resolved.Channels, []string{"#dev"}) {
		t.Fatalf("unexpected channels %v", resolved.Channels)
	}
	if !resolved.Toggle(domain.ToggleAutoMentions) || resolved.Toggle(domain.TogglePostDB) {
		t.Fatalf("unexpected toggles %v", resolved.Toggles)
	}
	if !resolved.Toggle("post_wiki") {
		t.Fatalf("expected extra system toggle to be captured")
	}
	if len(resolved.Toggles) != len(domain.KnownToggles)+1 {
		t.Fatalf("expected every toggle to be resolved, got %d", len(resolved.Toggles))
	}
}

func TestResolverIsReentrant(t *testing.T) {
	tree := newFakeTree()
	on := tree.add("on", nil, toggles(map[domain.Toggle]domain.TriState{domain.TogglePostDB: domain.TriStateForcedOn}))
	onLeaf := tree.add("on-leaf", on, nil)
	off := tree.add("off", nil, nil)
	offLeaf := tree.add("off-leaf", off, nil)

	resolver := New(Dependencies{Tree: tree, Defaults: domain.SystemDefaults{}})

	var wg sync.WaitGroup
	errs := make(chan string, 200)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if !resolver.Enabled(context.Background(), onLeaf, domain.TogglePostDB) {
				errs <- "on-leaf resolved false"
			}
		}()
		go func() {
			defer wg.Done()
			if resolver.Enabled(context.Background(), offLeaf, domain.TogglePostDB) {
				errs <- "off-leaf resolved true"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}

func TestSplitChannels(t *testing.T) {
	got := SplitChannels(" a,,b , a,c ")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := SplitChannels(" , "); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
