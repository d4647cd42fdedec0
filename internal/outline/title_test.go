package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"My Section!", "My Section!"},
		{"**Bold** move", "Bold move"},
		{"Using `go test`", "Using go test"},
		{"[Docs](https://example.com) home", "Docs home"},
		{"1. Intro", "1. Intro"},
		{"- Not a list", "- Not a list"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlainTitle(tt.title))
		})
	}
}
