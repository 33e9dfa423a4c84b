// Package questions loads the interview prompt set served to the recording
// frontend.
package questions

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set holds the ordered interview prompts. The 1-based position of a prompt
// is its question index.
type Set struct {
	Questions []string `yaml:"questions"`
}

// Default returns the built-in prompt set used when no questions file is
// configured.
func Default() *Set {
	return &Set{Questions: []string{
		"Briefly introduce yourself and your most notable experience.",
		"Why do you want to apply for this position?",
		"What is your greatest professional strength? Give a concrete example.",
		"Describe a difficult situation at work and how you handled it.",
		"Where do you see yourself in the next few years?",
	}}
}

// Load reads and validates a question set from a YAML file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}

	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("questions file %s defines no questions", path)
	}
	for i, question := range set.Questions {
		if strings.TrimSpace(question) == "" {
			return nil, fmt.Errorf("question %d is empty", i+1)
		}
	}
	return &set, nil
}

// Count returns the number of prompts in the set.
func (s *Set) Count() int {
	return len(s.Questions)
}
