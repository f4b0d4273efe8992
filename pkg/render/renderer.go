// Package render converts raw change records into display-ready fields.
package render

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
	"github.com/goliatone/go-messenger/pkg/links"
	"github.com/goliatone/go-messenger/pkg/markup"
)

// ErrToggleSourceRequired indicates the renderer cannot gate relation fields.
var ErrToggleSourceRequired = errors.New("render: toggle source is required")

// Placeholder is the value shown for empty changes.
const Placeholder = "-"

// ToggleSource resolves cascading feature toggles.
type ToggleSource interface {
	Enabled(ctx context.Context, project *domain.Project, t domain.Toggle) bool
}

// EntityResolver finds display-name capable records. It returns (nil, nil)
// when the record does not exist.
type EntityResolver interface {
	FindByID(ctx context.Context, kind domain.EntityKind, id string) (*domain.Entity, error)
}

// CustomFieldSource looks up custom field definitions. It returns
// (nil, nil) when the field does not exist.
type CustomFieldSource interface {
	CustomField(ctx context.Context, id string) (*domain.CustomField, error)
}

// Dependencies wires the renderer collaborators. Only Toggles is required.
type Dependencies struct {
	Toggles      ToggleSource
	Entities     EntityResolver
	CustomFields CustomFieldSource
	Formatter    FieldFormatter
	Links        links.LinkBuilder
	Labels       *Labels
	HoursFormat  string
	Logger       logger.Logger
}

// Renderer maps change records to rendered fields. It keeps no per-call
// state and is safe for concurrent use.
type Renderer struct {
	toggles      ToggleSource
	entities     EntityResolver
	customFields CustomFieldSource
	formatter    FieldFormatter
	links        links.LinkBuilder
	labels       *Labels
	hoursFormat  string
	logger       logger.Logger
}

// New validates deps and returns a Renderer.
func New(deps Dependencies) (*Renderer, error) {
	if deps.Toggles == nil {
		return nil, ErrToggleSourceRequired
	}
	if deps.Labels == nil {
		deps.Labels = NewLabels(nil, DefaultLocale)
	}
	if deps.Formatter == nil {
		deps.Formatter = DefaultFormatter{Labels: deps.Labels}
	}
	if deps.Links == nil {
		deps.Links = &links.NopBuilder{}
	}
	deps.Logger = logger.OrNop(deps.Logger)
	return &Renderer{
		toggles:      deps.Toggles,
		entities:     deps.Entities,
		customFields: deps.CustomFields,
		formatter:    deps.Formatter,
		links:        deps.Links,
		labels:       deps.Labels,
		hoursFormat:  deps.HoursFormat,
		logger:       deps.Logger,
	}, nil
}

// Labels exposes the label translator used for titles.
func (r *Renderer) Labels() *Labels {
	return r.labels
}

// relationKind describes a project-optional link type gated by a toggle.
type relationKind struct {
	toggle domain.Toggle
	entity domain.EntityKind
	label  string
}

var relations = map[domain.ChangeCategory]relationKind{
	domain.CategoryDBRelation:       {toggle: domain.TogglePostDB, entity: domain.EntityDBEntry, label: "field_db_relation"},
	domain.CategoryPasswordRelation: {toggle: domain.TogglePostPassword, entity: domain.EntityPassword, label: "field_password_relation"},
}

// fieldKind is the post-processing class of a field key.
type fieldKind int

const (
	fieldGeneric fieldKind = iota
	fieldWide
	fieldDescription
	fieldEntity
	fieldHours
	fieldAttachment
	fieldIssueLink
)

var entityKeys = map[string]domain.EntityKind{
	"tracker":       domain.EntityTracker,
	"project":       domain.EntityProject,
	"status":        domain.EntityStatus,
	"priority":      domain.EntityPriority,
	"category":      domain.EntityCategory,
	"assigned_to":   domain.EntityPrincipal,
	"author":        domain.EntityPrincipal,
	"fixed_version": domain.EntityVersion,
}

func classify(key string) fieldKind {
	switch key {
	case "title", "subject":
		return fieldWide
	case "description":
		return fieldDescription
	case "estimated_hours":
		return fieldHours
	case "attachment":
		return fieldAttachment
	case "parent", "copied_from":
		return fieldIssueLink
	}
	if _, ok := entityKeys[key]; ok {
		return fieldEntity
	}
	return fieldGeneric
}

// draft is the intermediate state between category dispatch and value
// normalization.
type draft struct {
	title  string
	key    string
	value  string
	format string
}

// Render converts change into a field. The boolean is false when the
// field must be suppressed: description changes, and relation fields whose
// visibility toggle resolves false.
func (r *Renderer) Render(ctx context.Context, change domain.ChangeRecord, project *domain.Project) (domain.RenderedField, bool) {
	category := change.Category
	if category == domain.CategoryAttribute {
		if _, ok := relations[domain.ChangeCategory(change.Key)]; ok {
			category = domain.ChangeCategory(change.Key)
		}
	}

	var d draft
	switch category {
	case domain.CategoryCustomField:
		d = r.customField(ctx, change)
	case domain.CategoryAttachment:
		d = draft{key: "attachment", title: r.labels.Label("label_attachment"), value: change.Value}
	case domain.CategoryDBRelation, domain.CategoryPasswordRelation:
		rel := relations[category]
		if !r.toggles.Enabled(ctx, project, rel.toggle) {
			return domain.RenderedField{}, false
		}
		d = draft{key: string(category), title: r.labels.Label(rel.label), value: change.Value}
		if strings.TrimSpace(change.Value) != "" {
			d.value = r.displayName(ctx, rel.entity, change.Value)
		}
	default:
		d = r.attribute(change)
	}

	short := true
	escape := true
	switch classify(d.key) {
	case fieldWide:
		short = false
	case fieldDescription:
		return domain.RenderedField{}, false
	case fieldEntity:
		d.value = r.displayName(ctx, entityKeys[d.key], change.Value)
	case fieldHours:
		if hours, ok := ParseHours(d.value); ok {
			d.value = FormatHours(hours, r.hoursFormat)
		}
	case fieldAttachment:
		d.value, escape = r.linkTo(ctx, domain.EntityAttachment, links.KindAttachment, change.Key)
	case fieldIssueLink:
		d.value, escape = r.linkTo(ctx, domain.EntityIssue, links.KindIssue, change.Value)
	}

	if category == domain.CategoryCustomField && d.format == "version" {
		d.value = r.displayName(ctx, domain.EntityVersion, change.Value)
		escape = true
	}

	value := d.value
	switch {
	case strings.TrimSpace(value) == "":
		value = Placeholder
	case escape:
		value = markup.Escape(value)
	}

	return domain.RenderedField{Title: d.title, Value: value, Key: d.key, Short: short}, true
}

func (r *Renderer) customField(ctx context.Context, change domain.ChangeRecord) draft {
	field, err := r.lookupCustomField(ctx, change.Key)
	if err != nil || field == nil {
		return draft{
			key:   "cf_" + change.Key,
			title: r.labels.Label("label_custom_field", change.Key),
			value: change.Value,
		}
	}
	d := draft{key: field.Name, title: field.Name, value: change.Value, format: field.Format}
	if strings.TrimSpace(change.Value) != "" {
		d.value = r.formatter.Format(ctx, change.Value, field)
	}
	return d
}

func (r *Renderer) attribute(change domain.ChangeRecord) draft {
	key := strings.TrimSuffix(change.Key, "_id")
	var title string
	switch key {
	case "parent":
		title = r.labels.Label("field_parent_issue")
	case "copied_from":
		title = r.labels.Label("label_copied_from")
	default:
		title = r.labels.Label("field_" + key)
	}
	return draft{key: key, title: title, value: change.Value}
}

// displayName resolves id to the entity display name, falling back to id.
func (r *Renderer) displayName(ctx context.Context, kind domain.EntityKind, id string) string {
	entity := r.lookup(ctx, kind, id)
	if entity == nil {
		return id
	}
	return entity.DisplayName()
}

// linkTo resolves id and returns a link to it. The second return value
// reports whether the result still needs escaping.
func (r *Renderer) linkTo(ctx context.Context, kind domain.EntityKind, linkKind links.Kind, id string) (string, bool) {
	entity := r.lookup(ctx, kind, id)
	if entity == nil {
		return id, true
	}
	target, err := r.links.Build(ctx, links.LinkRequest{Kind: linkKind, ID: entity.ExternalID})
	if err != nil || target == "" {
		if err != nil {
			r.logger.Debug("render link build failed",
				logger.F("kind", string(linkKind)),
				logger.F("id", id),
				logger.Err(err),
			)
		}
		return entity.DisplayName(), true
	}
	return markup.Link(target, markup.Escape(entity.DisplayName())), false
}

func (r *Renderer) lookup(ctx context.Context, kind domain.EntityKind, id string) *domain.Entity {
	if r.entities == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	entity, err := r.entities.FindByID(ctx, kind, id)
	if err != nil {
		r.logger.Warn("render entity lookup failed",
			logger.F("kind", string(kind)),
			logger.F("id", id),
			logger.Err(err),
		)
		return nil
	}
	return entity
}

func (r *Renderer) lookupCustomField(ctx context.Context, id string) (*domain.CustomField, error) {
	if r.customFields == nil || strings.TrimSpace(id) == "" {
		return nil, nil
	}
	field, err := r.customFields.CustomField(ctx, id)
	if err != nil {
		r.logger.Warn("render custom field lookup failed",
			logger.F("id", id),
			logger.Err(err),
		)
	}
	return field, err
}
