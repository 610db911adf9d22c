package core

import (
	"fmt"
	"strings"
)

// Validate checks a Pipeline for structural issues and returns a list
// of human-readable descriptions. An empty list means the pipeline is
// valid.
//
// A pipeline with zero steps is valid, as is a step with zero commands.
// A command string that tokenizes to zero tokens (empty or
// whitespace-only) is a configuration error: it has no executable name,
// and catching it here keeps the executor from discovering it halfway
// through a run, after side effects have already happened.
func Validate(pipeline Pipeline) []string {
	var issues []string

	for stepIndex, step := range pipeline.Steps {
		prefix := fmt.Sprintf("steps[%d]", stepIndex)
		if step.Name != "" {
			prefix = fmt.Sprintf("steps[%d] %q", stepIndex, step.Name)
		}

		for commandIndex, command := range step.Commands {
			if len(strings.Fields(command)) == 0 {
				issues = append(issues, fmt.Sprintf(
					"%s: commands[%d] is empty or whitespace-only (an executable name is required)",
					prefix, commandIndex,
				))
			}
		}
	}

	return issues
}
