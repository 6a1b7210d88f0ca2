package threshold

import (
	"fmt"
	"os"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a custom threshold schedule.
type File struct {
	Updated    string            `yaml:"updated"`
	Thresholds []model.Threshold `yaml:"thresholds"`
}

// LoadFile reads a YAML threshold schedule and builds a table from it.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read threshold file %s: %w", path, err)
	}

	t, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("threshold file %s: %w", path, err)
	}
	return t, nil
}

// LoadBytes parses YAML threshold data.
func LoadBytes(data []byte) (*Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse thresholds: %w", err)
	}
	if len(f.Thresholds) == 0 {
		return nil, fmt.Errorf("no thresholds defined")
	}
	return New(f.Thresholds)
}
