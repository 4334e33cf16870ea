package domain

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultsFile struct {
	Statuses  []StatusDefinition `yaml:"statuses"`
	Templates []WhatsAppTemplate `yaml:"templates"`
}

func loadDefaults() (defaultsFile, error) {
	var f defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return defaultsFile{}, fmt.Errorf("decode default seed: %w", err)
	}
	return f, nil
}

// DefaultStatuses returns the seed pipeline stages ordered by OrderIndex.
func DefaultStatuses() ([]StatusDefinition, error) {
	f, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(f.Statuses, func(i, j int) bool {
		return f.Statuses[i].OrderIndex < f.Statuses[j].OrderIndex
	})
	return f.Statuses, nil
}

// DefaultTemplates returns the seed WhatsApp templates.
func DefaultTemplates() ([]WhatsAppTemplate, error) {
	f, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	return f.Templates, nil
}
