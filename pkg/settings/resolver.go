// Package settings resolves per-project messenger configuration by walking
// the project tree from the project towards the root, falling back to the
// system defaults where the chain runs out.
package settings

import (
	"context"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
)

// ProjectTree exposes the parent link and override record of a project.
// Both methods return (nil, nil) when the value does not exist.
type ProjectTree interface {
	Parent(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Override(ctx context.Context, project *domain.Project) (*domain.ProjectSetting, error)
}

// Dependencies wires the resolver collaborators.
type Dependencies struct {
	Tree     ProjectTree
	Defaults domain.SystemDefaults
	Logger   logger.Logger
}

// Resolver answers setting questions for a project. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	tree     ProjectTree
	defaults domain.SystemDefaults
	logger   logger.Logger
}

// New constructs a Resolver. A nil tree resolves every project to the
// system defaults.
func New(deps Dependencies) *Resolver {
	deps.Logger = logger.OrNop(deps.Logger)
	return &Resolver{
		tree:     deps.Tree,
		defaults: deps.Defaults,
		logger:   deps.Logger,
	}
}

// Defaults returns the system defaults the resolver falls back to.
func (r *Resolver) Defaults() domain.SystemDefaults {
	return r.defaults
}

// Text returns the effective value of key for project: the nearest
// non-blank override in the project chain, else the system default. A nil
// project yields "". Whitespace-only overrides count as unset.
func (r *Resolver) Text(ctx context.Context, project *domain.Project, key domain.SettingKey) string {
	if project == nil {
		return ""
	}
	current := project
	for depth := 0; current != nil && depth < maxDepth; depth++ {
		if value := r.override(ctx, current).Text(key); present(value) {
			return value
		}
		current = r.parent(ctx, current)
	}
	return r.defaults.Text(key)
}

// Channels returns the ordered, de-duplicated channel list for project.
// An override of "-" on the project itself disables delivery. Ancestors
// only contribute a non-empty list; otherwise the system channels apply.
func (r *Resolver) Channels(ctx context.Context, project *domain.Project) []string {
	if project == nil {
		return []string{}
	}
	if value := strings.TrimSpace(r.override(ctx, project).Text(domain.SettingChannel)); value != "" {
		if value == domain.ChannelOptOut {
			return []string{}
		}
		return SplitChannels(value)
	}
	current := r.parent(ctx, project)
	for depth := 1; current != nil && depth < maxDepth; depth++ {
		value := strings.TrimSpace(r.override(ctx, current).Text(domain.SettingChannel))
		if value == domain.ChannelOptOut {
			break
		}
		if value != "" {
			if channels := SplitChannels(value); len(channels) > 0 {
				return channels
			}
			break
		}
		current = r.parent(ctx, current)
	}
	return r.systemChannels()
}

func present(value string) bool {
	return strings.TrimSpace(value) != ""
}

func (r *Resolver) systemChannels() []string {
	system := r.defaults.Channel
	if system == "" || system == domain.ChannelOptOut {
		return []string{}
	}
	return SplitChannels(system)
}

// Toggle reports the effective value of t for project along with whether
// it was set explicitly somewhere in the project chain.
func (r *Resolver) Toggle(ctx context.Context, project *domain.Project, t domain.Toggle) (value bool, explicit bool) {
	if project == nil {
		return false, false
	}
	current := project
	for depth := 0; current != nil && depth < maxDepth; depth++ {
		switch r.override(ctx, current).Toggle(t) {
		case domain.TriStateForcedOn:
			return true, true
		case domain.TriStateForcedOff:
			return false, true
		}
		current = r.parent(ctx, current)
	}
	return r.defaults.Toggle(t), false
}

// Enabled is Toggle without the explicit flag.
func (r *Resolver) Enabled(ctx context.Context, project *domain.Project, t domain.Toggle) bool {
	value, _ := r.Toggle(ctx, project, t)
	return value
}

// Resolve captures the full effective configuration for project, covering
// every text key, the channel list and every known toggle plus any toggle
// named in the system defaults.
func (r *Resolver) Resolve(ctx context.Context, project *domain.Project) domain.ResolvedSettings {
	out := domain.ResolvedSettings{
		URL:             r.Text(ctx, project, domain.SettingURL),
		Username:        r.Text(ctx, project, domain.SettingUsername),
		Icon:            r.Text(ctx, project, domain.SettingIcon),
		DefaultMentions: r.Text(ctx, project, domain.SettingDefaultMentions),
		Channels:        r.Channels(ctx, project),
		Toggles:         make(map[domain.Toggle]bool),
	}
	for _, t := range domain.KnownToggles {
		out.Toggles[t] = r.Enabled(ctx, project, t)
	}
	for t := range r.defaults.Toggles {
		if _, ok := out.Toggles[t]; !ok {
			out.Toggles[t] = r.Enabled(ctx, project, t)
		}
	}
	return out
}

// SplitChannels splits a comma separated list, trimming whitespace and
// dropping empty and repeated entries while keeping first-seen order.
func SplitChannels(value string) []string {
	parts := strings.Split(value, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// maxDepth bounds the parent walk in case stored data contains a cycle.
const maxDepth = 64

func (r *Resolver) override(ctx context.Context, project *domain.Project) *domain.ProjectSetting {
	if r.tree == nil || project == nil {
		return nil
	}
	setting, err := r.tree.Override(ctx, project)
	if err != nil {
		r.logger.Warn("settings override lookup failed",
			logger.F("project", project.Identifier),
			logger.Err(err),
		)
		return nil
	}
	return setting
}

func (r *Resolver) parent(ctx context.Context, project *domain.Project) *domain.Project {
	if r.tree == nil || project == nil || project.ParentID == nil {
		return nil
	}
	parent, err := r.tree.Parent(ctx, project)
	if err != nil {
		r.logger.Warn("settings parent lookup failed",
			logger.F("project", project.Identifier),
			logger.Err(err),
		)
		return nil
	}
	return parent
}
