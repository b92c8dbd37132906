package document

import (
	"github.com/goccy/go-yaml"

	"github.com/go-texest/texest/internal/texerr"
	"github.com/go-texest/texest/internal/value"
)

// Parse reads a YAML document and returns its Cases in declaration order,
// with every Expression field left unevaluated for the orchestrator to
// resolve per-case.
//
// Parsing happens in two passes over the same bytes: the first decodes
// plain Go values for the jsonschema shape check, the second decodes with
// yaml.UseOrderedMap() so `let` bindings, process declarations, and file
// expectations keep their source order.
func Parse(data []byte) ([]Case, error) {
	var shape any
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, texerr.Documentf("parse yaml: %w", err)
	}
	if shape == nil {
		return nil, texerr.Documentf("document is empty")
	}
	if err := validateShape(shape); err != nil {
		return nil, texerr.New(texerr.KindDocument, err)
	}

	var ordered any
	if err := yaml.UnmarshalWithOptions(data, &ordered, yaml.UseOrderedMap()); err != nil {
		return nil, texerr.Documentf("parse yaml: %w", err)
	}
	root := value.FromOrdered(ordered)

	testsVal, ok := root.MapGet("tests")
	if !ok {
		return nil, texerr.Documentf("document must have a top-level tests array")
	}
	items, ok := testsVal.Seq()
	if !ok {
		return nil, texerr.Documentf("tests must be a sequence")
	}

	cases := make([]Case, len(items))
	for i, item := range items {
		c, err := decodeCase(item, i)
		if err != nil {
			return nil, err
		}
		cases[i] = c
	}
	return cases, nil
}
