package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-messenger/pkg/commands"
	yaml "go.yaml.in/yaml/v3"
)

// Fixture is a YAML description of a project tree, its lookup tables and
// one issue event to announce.
type Fixture struct {
	Projects     []commands.UpsertProject     `yaml:"projects"`
	Settings     []commands.SaveSettings      `yaml:"settings"`
	Entities     []commands.UpsertEntity      `yaml:"entities"`
	CustomFields []commands.UpsertCustomField `yaml:"custom_fields"`
	Notify       commands.NotifyIssue         `yaml:"notify"`
}

// LoadFixture reads and decodes a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("cli: decode fixture %s: %w", path, err)
	}
	return &fx, nil
}

// Apply stores the fixture records through the command registry. Projects
// are created in listed order, so parents must precede their children.
func (f *Fixture) Apply(ctx context.Context, reg *commands.Registry) error {
	for _, msg := range f.Projects {
		if err := reg.UpsertProject.Execute(ctx, msg); err != nil {
			return err
		}
	}
	for _, msg := range f.Settings {
		if err := reg.SaveSettings.Execute(ctx, msg); err != nil {
			return err
		}
	}
	for _, msg := range f.Entities {
		if err := reg.UpsertEntity.Execute(ctx, msg); err != nil {
			return err
		}
	}
	for _, msg := range f.CustomFields {
		if err := reg.UpsertCustomField.Execute(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
