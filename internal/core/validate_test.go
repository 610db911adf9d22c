package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		pipeline   Pipeline
		wantIssues int
	}{
		{
			name:       "zero steps is valid",
			pipeline:   Pipeline{Name: "empty"},
			wantIssues: 0,
		},
		{
			name: "step with zero commands is valid",
			pipeline: Pipeline{
				Name:  "noop",
				Steps: []Step{{Name: "s"}},
			},
			wantIssues: 0,
		},
		{
			name: "ordinary pipeline",
			pipeline: Pipeline{
				Name: "ok",
				Steps: []Step{
					{Name: "build", Commands: []string{"go build ./..."}},
					{Name: "test", Commands: []string{"go test ./..."}},
				},
			},
			wantIssues: 0,
		},
		{
			name: "empty command",
			pipeline: Pipeline{
				Name:  "bad",
				Steps: []Step{{Name: "s", Commands: []string{""}}},
			},
			wantIssues: 1,
		},
		{
			name: "whitespace-only command",
			pipeline: Pipeline{
				Name:  "bad",
				Steps: []Step{{Name: "s", Commands: []string{" \t "}}},
			},
			wantIssues: 1,
		},
		{
			name: "multiple bad commands across steps",
			pipeline: Pipeline{
				Name: "bad",
				Steps: []Step{
					{Name: "a", Commands: []string{"", "echo ok"}},
					{Name: "b", Commands: []string{"  "}},
				},
			},
			wantIssues: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate(tt.pipeline)
			assert.Len(t, issues, tt.wantIssues, "issues: %v", issues)
		})
	}
}

func TestValidateIssueNamesStep(t *testing.T) {
	pipeline := Pipeline{
		Name:  "bad",
		Steps: []Step{{Name: "compile", Commands: []string{""}}},
	}
	issues := Validate(pipeline)
	assert.Len(t, issues, 1)
	assert.Contains(t, issues[0], `"compile"`)
	assert.Contains(t, issues[0], "commands[0]")
}
