package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ImportActions is the YAML file listing import runs in execution order:
//
//	actions:
//	  - data_entity: merchant
//	    source: merchant.csv
//	  - data_entity: merchant-store
//	    source: merchant_store.csv
type ImportActions struct {
	Actions []ImportAction `yaml:"actions"`
}

// ImportAction is one import run. Source is relative to the file's
// directory unless absolute; an empty Source uses the type's default file.
type ImportAction struct {
	DataEntity string `yaml:"data_entity"`
	Source     string `yaml:"source"`
}

// LoadImportActions reads and validates the actions file at path. Relative
// sources are resolved against the file's directory.
func LoadImportActions(path string) (*ImportActions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import actions: %w", err)
	}

	actions, err := ParseImportActions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, a := range actions.Actions {
		if a.Source != "" && !filepath.IsAbs(a.Source) {
			actions.Actions[i].Source = filepath.Join(dir, a.Source)
		}
	}
	return actions, nil
}

// ParseImportActions decodes an actions document.
func ParseImportActions(data []byte) (*ImportActions, error) {
	var actions ImportActions
	if err := yaml.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("parse import actions: %w", err)
	}
	if len(actions.Actions) == 0 {
		return nil, fmt.Errorf("no import actions defined")
	}
	for i, a := range actions.Actions {
		if a.DataEntity == "" {
			return nil, fmt.Errorf("action %d: data_entity is required", i+1)
		}
	}
	return &actions, nil
}
