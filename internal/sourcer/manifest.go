package sourcer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/ghodss/yaml"
	"github.com/xeipuuv/gojsonschema"
)

// ManifestSchema is the JSON schema every batch manifest is validated against.
const ManifestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "md2dita batch manifest",
	"type": "object",
	"definitions": {
		"switch": {
			"oneOf": [
				{ "type": "boolean" },
				{ "type": "string", "pattern": "^\\s*(?i:yes|no)\\s*$" }
			]
		}
	},
	"properties": {
		"defaults": {
			"type": "object",
			"properties": {
				"shortdesc": { "$ref": "#/definitions/switch" },
				"lang": { "type": "string" },
				"output_dir": { "type": "string" }
			},
			"additionalProperties": false
		},
		"jobs": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"input": { "type": "string", "minLength": 1 },
					"output": { "type": "string" },
					"shortdesc": { "$ref": "#/definitions/switch" },
					"lang": { "type": "string" },
					"data": { "type": "object" }
				},
				"required": ["input"],
				"additionalProperties": false
			}
		}
	},
	"required": ["jobs"]
}`

// ManifestParser reads batch manifests.
type ManifestParser struct {
	schemaLoader gojsonschema.JSONLoader
}

// NewManifestParser creates a new ManifestParser.
func NewManifestParser() *ManifestParser {
	return &ManifestParser{
		schemaLoader: gojsonschema.NewStringLoader(ManifestSchema),
	}
}

// Parse validates a YAML manifest and resolves relative job inputs against
// the directory the manifest lives in.
func (p *ManifestParser) Parse(path string, data []byte) (*model.Manifest, error) {
	// Convert YAML to JSON, as gojsonschema only works with JSON
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert yaml to json: %w", err)
	}

	result, err := gojsonschema.Validate(p.schemaLoader, gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to validate manifest: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, "- "+desc.String())
		}
		return nil, fmt.Errorf("manifest '%s' is not valid:\n%s", path, strings.Join(problems, "\n"))
	}

	var m model.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range m.Jobs {
		if isLocal(m.Jobs[i].Input) && !filepath.IsAbs(m.Jobs[i].Input) {
			m.Jobs[i].Input = filepath.Join(dir, m.Jobs[i].Input)
		}
	}

	return &m, nil
}

func isLocal(input string) bool {
	return input != "-" && !strings.Contains(input, "://")
}
