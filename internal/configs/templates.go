package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

//go:embed templates.yaml
var defaultTemplates []byte

type templateColumn struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Color         string `yaml:"color"`
	HandoffTarget bool   `yaml:"handoff_target"`
	Done          bool   `yaml:"done"`
}

// BoardTemplates maps a team type to the ordered columns new boards start with.
type BoardTemplates map[string][]templateColumn

// LoadBoardTemplates reads templates from path, or the embedded defaults when
// path is empty.
func LoadBoardTemplates(path string) (BoardTemplates, error) {
	data := defaultTemplates
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read board templates: %w", err)
		}
		data = raw
	}
	return ParseBoardTemplates(data)
}

func ParseBoardTemplates(data []byte) (BoardTemplates, error) {
	var tpl BoardTemplates
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parse board templates: %w", err)
	}
	if len(tpl["default"]) == 0 {
		return nil, fmt.Errorf("board templates: a non-empty \"default\" template is required")
	}
	for name, cols := range tpl {
		seen := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			if c.ID == "" || c.Name == "" {
				return nil, fmt.Errorf("board template %q: columns need an id and a name", name)
			}
			if _, dup := seen[c.ID]; dup {
				return nil, fmt.Errorf("board template %q: duplicate column %q", name, c.ID)
			}
			seen[c.ID] = struct{}{}
		}
	}
	return tpl, nil
}

// Columns instantiates the template for teamType, falling back to "default".
func (t BoardTemplates) Columns(teamType constants.TeamType, teamID string) []model.Column {
	cols, ok := t[string(teamType)]
	if !ok || len(cols) == 0 {
		cols = t["default"]
	}
	out := make([]model.Column, 0, len(cols))
	for i, c := range cols {
		out = append(out, model.Column{
			ID:              c.ID,
			TeamID:          teamID,
			Name:            c.Name,
			Position:        i,
			Color:           c.Color,
			IsHandoffTarget: c.HandoffTarget,
			IsDone:          c.Done,
		})
	}
	return out
}
