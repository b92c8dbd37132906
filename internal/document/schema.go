package document

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// docSchema is the structural shape every document must satisfy before any
// expression is resolved: a top-level "tests" array of objects, each
// either a flat case (a "command") or a structured one ("processes").
// This catches gross shape errors (wrong types, missing required keys) as
// a DocumentError ahead of any $-head evaluation.
var docSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"tests"},
	Properties: map[string]*jsonschema.Schema{
		"tests": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				AnyOf: []*jsonschema.Schema{
					{Required: []string{"command"}},
					{Required: []string{"processes"}},
				},
				Properties: map[string]*jsonschema.Schema{
					"name":       {Type: "string"},
					"let":        {Type: "object"},
					"command":    {},
					"stdin":      {},
					"expect":     {},
					"tee_stdout": {Type: "boolean"},
					"tee_stderr": {Type: "boolean"},
					"processes":  {Type: "object"},
				},
			},
		},
	},
}

var resolvedDocSchema *jsonschema.Resolved

func resolveDocSchema() (*jsonschema.Resolved, error) {
	if resolvedDocSchema != nil {
		return resolvedDocSchema, nil
	}
	r, err := docSchema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve document schema: %w", err)
	}
	resolvedDocSchema = r
	return r, nil
}

// validateShape checks the raw decoded document (map[string]any /
// []any / scalars, as produced by goccy/go-yaml) against docSchema.
func validateShape(doc any) error {
	r, err := resolveDocSchema()
	if err != nil {
		return err
	}
	if err := r.Validate(doc); err != nil {
		return fmt.Errorf("document does not match expected shape: %w", err)
	}
	return nil
}
