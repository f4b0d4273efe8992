// Package messenger assembles chat payloads for issue events and hands
// them to the delivery queue.
package messenger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/links"
	"github.com/goliatone/go-messenger/pkg/markup"
	"github.com/goliatone/go-messenger/pkg/render"
)

var (
	ErrMissingSettings = errors.New("messenger: settings resolver is required")
	ErrMissingRenderer = errors.New("messenger: field renderer is required")
	ErrMissingSummary  = errors.New("messenger: summary renderer is required")
)

// SettingsSource resolves cascading project settings.
type SettingsSource interface {
	Text(ctx context.Context, project *domain.Project, key domain.SettingKey) string
	Channels(ctx context.Context, project *domain.Project) []string
	Enabled(ctx context.Context, project *domain.Project, t domain.Toggle) bool
}

// FieldRenderer converts a change record into a display field. The boolean
// is false when the field must be skipped.
type FieldRenderer interface {
	Render(ctx context.Context, change domain.ChangeRecord, project *domain.Project) (domain.RenderedField, bool)
}

// MentionSource builds the "To: ..." line.
type MentionSource interface {
	Mentions(ctx context.Context, project *domain.Project, text string) (string, bool)
}

// BuilderDependencies wires the builder collaborators.
type BuilderDependencies struct {
	Settings SettingsSource
	Renderer FieldRenderer
	Mentions MentionSource
	Summary  *Summary
	Links    links.LinkBuilder
	Labels   *render.Labels
	Logger   logger.Logger
}

// Builder turns issue events into per-channel deliveries. It keeps no
// per-event state and is safe for concurrent use.
type Builder struct {
	settings SettingsSource
	renderer FieldRenderer
	mentions MentionSource
	summary  *Summary
	links    links.LinkBuilder
	labels   *render.Labels
	logger   logger.Logger
}

// NewBuilder validates deps and returns a Builder.
func NewBuilder(deps BuilderDependencies) (*Builder, error) {
	if deps.Settings == nil {
		return nil, ErrMissingSettings
	}
	if deps.Renderer == nil {
		return nil, ErrMissingRenderer
	}
	if deps.Summary == nil {
		return nil, ErrMissingSummary
	}
	if deps.Links == nil {
		deps.Links = &links.NopBuilder{}
	}
	if deps.Labels == nil {
		deps.Labels = render.NewLabels(nil, render.DefaultLocale)
	}
	deps.Logger = logger.OrNop(deps.Logger)
	return &Builder{
		settings: deps.Settings,
		renderer: deps.Renderer,
		mentions: deps.Mentions,
		summary:  deps.Summary,
		links:    deps.Links,
		labels:   deps.Labels,
		logger:   deps.Logger,
	}, nil
}

// Build returns one delivery per resolved channel. An event whose project
// resolves no channels or no webhook url, or which is filtered by the
// project's toggles, yields no deliveries and no error.
func (b *Builder) Build(ctx context.Context, event domain.IssueEvent) ([]domain.Delivery, error) {
	project := event.Project

	channels := b.settings.Channels(ctx, project)
	url := b.settings.Text(ctx, project, domain.SettingURL)
	if len(channels) == 0 || strings.TrimSpace(url) == "" {
		b.logger.Debug("messenger skipped event without destination",
			logger.F("project", projectIdentifier(project)),
			logger.F("issue", event.Issue.ID),
		)
		return nil, nil
	}
	if reason, skip := b.filtered(ctx, event); skip {
		b.logger.Debug("messenger skipped event",
			logger.F("project", projectIdentifier(project)),
			logger.F("issue", event.Issue.ID),
			logger.F("reason", reason),
		)
		return nil, nil
	}

	text, err := b.summaryText(ctx, event)
	if err != nil {
		return nil, err
	}

	attachment := domain.PayloadAttachment{
		Text:   b.attachmentText(ctx, event),
		Fields: b.fields(ctx, event),
	}
	attachments := []domain.PayloadAttachment{}
	if attachment.Text != "" || len(attachment.Fields) > 0 {
		attachments = append(attachments, attachment)
	}

	base := domain.Payload{
		Text:        text,
		LinkNames:   true,
		Username:    b.settings.Text(ctx, project, domain.SettingUsername),
		Attachments: attachments,
	}
	if icon := b.settings.Text(ctx, project, domain.SettingIcon); icon != "" {
		if strings.HasPrefix(icon, ":") {
			base.IconEmoji = icon
		} else {
			base.IconURL = icon
		}
	}

	deliveries := make([]domain.Delivery, 0, len(channels))
	for _, channel := range channels {
		payload := base
		payload.Channel = channel
		deliveries = append(deliveries, domain.Delivery{URL: url, Payload: payload})
	}
	return deliveries, nil
}

func (b *Builder) filtered(ctx context.Context, event domain.IssueEvent) (string, bool) {
	project := event.Project
	if event.Kind == domain.IssueUpdated && !b.settings.Enabled(ctx, project, domain.TogglePostUpdates) {
		return "post_updates disabled", true
	}
	if event.Issue.IsPrivate && !b.settings.Enabled(ctx, project, domain.TogglePostPrivateIssues) {
		return "private issue", true
	}
	if event.PrivateNotes && strings.TrimSpace(event.Notes) != "" &&
		!b.settings.Enabled(ctx, project, domain.TogglePostPrivateNotes) {
		return "private notes", true
	}
	return "", false
}

func (b *Builder) summaryText(ctx context.Context, event domain.IssueEvent) (string, error) {
	data := SummaryData{
		Project: b.link(ctx, links.KindProject, projectIdentifier(event.Project), event.Project.String()),
		Author:  markup.Escape(event.Author),
		Issue:   b.link(ctx, links.KindIssue, event.Issue.ID, issueTitle(event.Issue)),
	}
	if line, ok := b.mentionLine(ctx, event); ok {
		data.Mentions = " " + line
	}
	text, err := b.summary.Render(event.Kind, data)
	if err != nil {
		return "", fmt.Errorf("messenger: issue %s: %w", event.Issue.ID, err)
	}
	return text, nil
}

// mentionLine always includes the project's default mentions; handles in
// the event text are only picked up when auto_mentions is enabled.
func (b *Builder) mentionLine(ctx context.Context, event domain.IssueEvent) (string, bool) {
	if b.mentions == nil {
		return "", false
	}
	text := ""
	if b.settings.Enabled(ctx, event.Project, domain.ToggleAutoMentions) {
		text = event.Notes
		if event.Kind == domain.IssueCreated {
			text = event.Issue.Description
		}
	}
	return b.mentions.Mentions(ctx, event.Project, text)
}

func (b *Builder) attachmentText(ctx context.Context, event domain.IssueEvent) string {
	project := event.Project
	switch event.Kind {
	case domain.IssueCreated:
		if b.settings.Enabled(ctx, project, domain.ToggleNewIncludeDescription) {
			return markup.Format(event.Issue.Description)
		}
	case domain.IssueUpdated:
		if b.settings.Enabled(ctx, project, domain.ToggleUpdatedIncludeDescription) {
			for _, change := range event.Details {
				if change.Category == domain.CategoryAttribute && change.Key == "description" {
					return markup.Format(change.Value)
				}
			}
		}
	}
	return ""
}

func (b *Builder) fields(ctx context.Context, event domain.IssueEvent) []domain.PayloadField {
	fields := make([]domain.PayloadField, 0, len(event.Details)+2)
	for _, change := range event.Details {
		field, ok := b.renderer.Render(ctx, change, event.Project)
		if !ok {
			continue
		}
		fields = append(fields, domain.PayloadField{Title: field.Title, Value: field.Value, Short: field.Short})
	}
	if notes := markup.Format(event.Notes); notes != "" {
		fields = append(fields, domain.PayloadField{Title: b.labels.Label("label_comment"), Value: notes})
	}
	if len(event.Watchers) > 0 && b.settings.Enabled(ctx, event.Project, domain.ToggleDisplayWatchers) {
		fields = append(fields, domain.PayloadField{
			Title: b.labels.Label("field_watcher"),
			Value: markup.Escape(strings.Join(event.Watchers, ", ")),
		})
	}
	return fields
}

// link returns "<url|text>" with text escaped, or the escaped text alone
// when no url can be built.
func (b *Builder) link(ctx context.Context, kind links.Kind, id, text string) string {
	escaped := markup.Escape(text)
	if strings.TrimSpace(id) == "" {
		return escaped
	}
	target, err := b.links.Build(ctx, links.LinkRequest{Kind: kind, ID: id})
	if err != nil || target == "" {
		return escaped
	}
	return markup.Link(target, escaped)
}

func issueTitle(issue domain.IssueRef) string {
	var sb strings.Builder
	if issue.Tracker != "" {
		sb.WriteString(issue.Tracker)
		sb.WriteString(" ")
	}
	if issue.ID != "" {
		sb.WriteString("#")
		sb.WriteString(issue.ID)
	}
	if issue.Subject != "" {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}
		sb.WriteString(issue.Subject)
	}
	return sb.String()
}

func projectIdentifier(project *domain.Project) string {
	if project == nil {
		return ""
	}
	return project.Identifier
}
