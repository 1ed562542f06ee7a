package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tablerohq/tablero/internal/models"
)

// fileSchema mirrors the kanban_policy section of a project config file.
type fileSchema struct {
	KanbanPolicy struct {
		Columns []struct {
			Status      string `yaml:"status"`
			Name        string `yaml:"name"`
			WIPLimit    int    `yaml:"wip_limit"` // 0 or absent = unlimited
			Description string `yaml:"description"`
		} `yaml:"columns"`
		Transitions map[string][]string `yaml:"transitions"`
	} `yaml:"kanban_policy"`
}

// LoadFile reads a kanban policy from a YAML file. A missing or empty
// kanban_policy section falls back to the default policy.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse builds a policy from YAML bytes.
func Parse(data []byte) (*Policy, error) {
	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if len(file.KanbanPolicy.Columns) == 0 {
		return Default(), nil
	}

	columns := make([]*models.Column, 0, len(file.KanbanPolicy.Columns))
	for i, raw := range file.KanbanPolicy.Columns {
		status, err := models.ParseStatus(raw.Status)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		name := raw.Name
		if name == "" {
			name = status.DisplayName()
		}
		col := &models.Column{
			Status:      status,
			Name:        name,
			Position:    i,
			Description: raw.Description,
		}
		if raw.WIPLimit > 0 {
			v := raw.WIPLimit
			col.Limit = &v
		}
		columns = append(columns, col)
	}

	transitions := defaultTransitions()
	if len(file.KanbanPolicy.Transitions) > 0 {
		transitions = make(map[models.Status][]models.Status, len(file.KanbanPolicy.Transitions))
		for rawFrom, rawTos := range file.KanbanPolicy.Transitions {
			from, err := models.ParseStatus(rawFrom)
			if err != nil {
				return nil, fmt.Errorf("transition source: %w", err)
			}
			tos := make([]models.Status, 0, len(rawTos))
			for _, rawTo := range rawTos {
				to, err := models.ParseStatus(rawTo)
				if err != nil {
					return nil, fmt.Errorf("transition target for %s: %w", from, err)
				}
				tos = append(tos, to)
			}
			transitions[from] = tos
		}
	}

	return New(columns, transitions)
}
