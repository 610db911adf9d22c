package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParsePipeline parses YAML content into a Pipeline and validates it.
// On any failure the returned Pipeline is the zero value, never a
// partially populated one.
func ParsePipeline(data []byte) (Pipeline, error) {
	var pipeline Pipeline
	if err := yaml.Unmarshal(data, &pipeline); err != nil {
		return Pipeline{}, fmt.Errorf("parsing pipeline: %w", err)
	}

	if issues := Validate(pipeline); len(issues) > 0 {
		return Pipeline{}, fmt.Errorf("invalid pipeline: %s", strings.Join(issues, "; "))
	}

	return pipeline, nil
}

// LoadPipeline reads a pipeline descriptor file and parses it.
func LoadPipeline(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("reading %s: %w", path, err)
	}

	pipeline, err := ParsePipeline(data)
	if err != nil {
		return Pipeline{}, fmt.Errorf("%s: %w", path, err)
	}

	return pipeline, nil
}
