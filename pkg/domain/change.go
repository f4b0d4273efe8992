package domain

// ChangeCategory classifies a journal detail.
type ChangeCategory string

const (
	CategoryAttribute        ChangeCategory = "attr"
	CategoryCustomField      ChangeCategory = "cf"
	CategoryAttachment       ChangeCategory = "attachment"
	CategoryDBRelation       ChangeCategory = "db_relation"
	CategoryPasswordRelation ChangeCategory = "password_relation"
)

// ChangeRecord is one field change on an issue. Key is the property key
// (attribute name, custom field id, or attachment id depending on Category).
type ChangeRecord struct {
	Category ChangeCategory `json:"category" yaml:"category"`
	Key      string         `json:"key" yaml:"key"`
	OldValue string         `json:"old_value,omitempty" yaml:"old_value"`
	Value    string         `json:"value,omitempty" yaml:"value"`
}

// RenderedField is the display-ready form of a change record. Value is
// already escaped or formatted as markup.
type RenderedField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Key   string `json:"key,omitempty"`
	Short bool   `json:"short"`
}

// IssueEventKind distinguishes newly created issues from updates.
type IssueEventKind string

const (
	IssueCreated IssueEventKind = "created"
	IssueUpdated IssueEventKind = "updated"
)

// IssueRef carries the issue attributes needed to describe it in a summary.
type IssueRef struct {
	ID          string `json:"id" yaml:"id"`
	Tracker     string `json:"tracker" yaml:"tracker"`
	Subject     string `json:"subject" yaml:"subject"`
	Description string `json:"description,omitempty" yaml:"description"`
	IsPrivate   bool   `json:"is_private,omitempty" yaml:"is_private"`
}

// IssueEvent is a change notification for one issue.
type IssueEvent struct {
	Kind         IssueEventKind `json:"kind" yaml:"kind"`
	Project      *Project       `json:"-" yaml:"-"`
	Issue        IssueRef       `json:"issue" yaml:"issue"`
	Author       string         `json:"author" yaml:"author"`
	Notes        string         `json:"notes,omitempty" yaml:"notes"`
	PrivateNotes bool           `json:"private_notes,omitempty" yaml:"private_notes"`
	Details      []ChangeRecord `json:"details,omitempty" yaml:"details"`
	Watchers     []string       `json:"watchers,omitempty" yaml:"watchers"`
}
