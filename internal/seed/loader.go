package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of a calendar dataset file
type Loader struct {
	filePath string
}

// NewLoader creates a new dataset loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the dataset YAML file
func (l *Loader) Load() (Dataset, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse dataset yaml: %w", err)
	}

	if len(ds.Calendar) == 0 {
		return Dataset{}, fmt.Errorf("dataset has no calendar entries")
	}

	return ds, nil
}
