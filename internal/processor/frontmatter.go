package processor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// FrontMatterProcessor strips a leading YAML front matter block. Its keys are
// merged into data without overwriting keys already present.
type FrontMatterProcessor struct{}

// NewFrontMatterProcessor creates a new FrontMatterProcessor.
func NewFrontMatterProcessor() *FrontMatterProcessor {
	return &FrontMatterProcessor{}
}

// Process removes the front matter, if any.
func (p *FrontMatterProcessor) Process(content string, data map[string]interface{}) (string, error) {
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || strings.TrimRight(first, "\r ") != frontMatterDelimiter {
		return content, nil
	}

	var block []string
	for {
		var line string
		line, rest, ok = strings.Cut(rest, "\n")
		if strings.TrimRight(line, "\r ") == frontMatterDelimiter {
			break
		}
		if !ok {
			// Unterminated, so this was never front matter.
			return content, nil
		}
		block = append(block, line)
	}

	var meta map[string]interface{}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &meta); err != nil {
		return "", fmt.Errorf("failed to parse front matter: %w", err)
	}
	if data != nil {
		for k, v := range meta {
			if _, exists := data[k]; !exists {
				data[k] = v
			}
		}
	}

	return rest, nil
}
