package core

// Pipeline describes a named build process as an ordered list of steps.
// The zero value is a valid (empty) pipeline.
type Pipeline struct {
	Name  string `yaml:"name"`  // Display name (e.g. "Build and Test")
	Steps []Step `yaml:"steps"` // Executed strictly in order
}

// Step is a named ordered sequence of shell command strings.
type Step struct {
	Name     string   `yaml:"name"`     // Display name (e.g. "compile", "unit tests")
	Commands []string `yaml:"commands"` // Executed strictly in order
}
