package model

import (
	"encoding/json"
	"fmt"
)

// Switch is a yes/no setting. It decodes from a JSON boolean or from the
// strings accepted by ParseShortdesc, so unquoted YAML yes/no and quoted
// "yes"/"no" mean the same thing.
type Switch bool

// UnmarshalJSON implements json.Unmarshaler.
func (s *Switch) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = Switch(b)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid switch value %s: must be a boolean, yes or no", data)
	}
	b, err := ParseShortdesc(str)
	if err != nil {
		return err
	}
	*s = Switch(b)
	return nil
}

// Job describes one document in a batch manifest.
type Job struct {
	Input     string                 `json:"input" yaml:"input"`
	Output    string                 `json:"output" yaml:"output"`
	Shortdesc *Switch                `json:"shortdesc,omitempty" yaml:"shortdesc,omitempty"`
	Lang      string                 `json:"lang,omitempty" yaml:"lang,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// Manifest is a list of conversion jobs sharing defaults.
type Manifest struct {
	Defaults Defaults `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Jobs     []Job    `json:"jobs" yaml:"jobs"`
}

// Defaults apply to every job that does not set the field itself.
type Defaults struct {
	Shortdesc *Switch `json:"shortdesc,omitempty" yaml:"shortdesc,omitempty"`
	Lang      string `json:"lang,omitempty" yaml:"lang,omitempty"`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// Options resolves the conversion options for a job: the job's own fields
// win over the manifest defaults, which win over base.
func (m Manifest) Options(j Job, base Options) Options {
	opts := base
	if m.Defaults.Shortdesc != nil {
		opts.Shortdesc = bool(*m.Defaults.Shortdesc)
	}
	if j.Shortdesc != nil {
		opts.Shortdesc = bool(*j.Shortdesc)
	}
	if m.Defaults.Lang != "" {
		opts.Lang = m.Defaults.Lang
	}
	if j.Lang != "" {
		opts.Lang = j.Lang
	}
	return opts
}
