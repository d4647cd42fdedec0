package model

import (
	"fmt"
	"strings"
)

// Default placeholder tokens. Both live in the Unicode private use area so they
// can never collide with text a user typed.
const (
	DefaultHashToken      = "\uE000"
	DefaultDuplicateToken = "\uE001"
)

// Options configures a single conversion pipeline.
type Options struct {
	// HashToken replaces every non-structural '#' while the document is parsed.
	HashToken string
	// DuplicateToken prefixes the numeric suffix appended to repeated headings.
	DuplicateToken string
	// Shortdesc promotes the first paragraph of the root body to <shortdesc>.
	Shortdesc bool
	// Lang is emitted as xml:lang on the root concept when not empty.
	Lang string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		HashToken:      DefaultHashToken,
		DuplicateToken: DefaultDuplicateToken,
		Shortdesc:      true,
	}
}

// WithDefaults fills in any empty token with its default.
func (o Options) WithDefaults() Options {
	if o.HashToken == "" {
		o.HashToken = DefaultHashToken
	}
	if o.DuplicateToken == "" {
		o.DuplicateToken = DefaultDuplicateToken
	}
	return o
}

// ParseShortdesc maps the "shortdesc" configuration value to a bool.
func ParseShortdesc(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid shortdesc value %q: must be yes or no", v)
	}
}
