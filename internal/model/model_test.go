package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShortdesc(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected bool
		wantErr  bool
	}{
		{name: "yes", value: "yes", expected: true},
		{name: "no", value: "no", expected: false},
		{name: "empty defaults to yes", value: "", expected: true},
		{name: "case and space insensitive", value: " NO ", expected: false},
		{name: "invalid", value: "maybe", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseShortdesc(tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{Lang: "en-us"}.WithDefaults()
	assert.Equal(t, DefaultHashToken, opts.HashToken)
	assert.Equal(t, DefaultDuplicateToken, opts.DuplicateToken)
	assert.Equal(t, "en-us", opts.Lang)

	custom := Options{HashToken: "@@", DuplicateToken: "%%"}.WithDefaults()
	assert.Equal(t, "@@", custom.HashToken)
	assert.Equal(t, "%%", custom.DuplicateToken)
}

func TestStructureError(t *testing.T) {
	err := NewStructureError(ErrInvalidNesting, "line 3: h3 under h1", "line 9: h4 under h2")
	wrapped := fmt.Errorf("converting guide.md: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInvalidNesting))
	assert.False(t, errors.Is(wrapped, ErrDepthExceeded))

	var serr *StructureError
	require.True(t, errors.As(wrapped, &serr))
	assert.Len(t, serr.Violations, 2)
	assert.Equal(t, "invalid heading nesting:\nline 3: h3 under h1\nline 9: h4 under h2", err.Error())
	assert.Equal(t, "missing title heading", NewStructureError(ErrMissingTitle).Error())
}

func TestInputError(t *testing.T) {
	err := &InputError{Kind: ErrNoSource, Hint: "pass -i"}
	assert.True(t, errors.Is(err, ErrNoSource))
	assert.Equal(t, "no input source\npass -i", err.Error())
	assert.Equal(t, "no input source", (&InputError{Kind: ErrNoSource}).Error())
}

func TestSwitchUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Switch
		wantErr  bool
	}{
		{name: "true", input: `true`, expected: true},
		{name: "false", input: `false`, expected: false},
		{name: "yes", input: `"yes"`, expected: true},
		{name: "no", input: `"no"`, expected: false},
		{name: "upper case", input: `"NO"`, expected: false},
		{name: "other string", input: `"maybe"`, wantErr: true},
		{name: "number", input: `1`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s Switch
			err := json.Unmarshal([]byte(tc.input), &s)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestManifestOptions(t *testing.T) {
	yes, no := Switch(true), Switch(false)
	base := DefaultOptions()

	testCases := []struct {
		name      string
		manifest  Manifest
		job       Job
		shortdesc bool
		lang      string
	}{
		{
			name:      "base",
			shortdesc: true,
		},
		{
			name:      "defaults override base",
			manifest:  Manifest{Defaults: Defaults{Shortdesc: &no, Lang: "de"}},
			shortdesc: false,
			lang:      "de",
		},
		{
			name:      "job overrides defaults",
			manifest:  Manifest{Defaults: Defaults{Shortdesc: &no, Lang: "de"}},
			job:       Job{Shortdesc: &yes, Lang: "fr"},
			shortdesc: true,
			lang:      "fr",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.manifest.Options(tc.job, base)
			assert.Equal(t, tc.shortdesc, opts.Shortdesc)
			assert.Equal(t, tc.lang, opts.Lang)
			assert.Equal(t, base.HashToken, opts.HashToken)
		})
	}
}
