package oracle

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"
)

// Schema definition names inside the response schema document.
const (
	DefRecommendation = "recommendation"
	DefBuildOptions   = "build_options"
	DefDetailedBuild  = "detailed_build"
)

//go:embed schemas/response_schema.json
var defaultSchema []byte

type definition struct {
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	raw      string
}

// Validator checks candidate answers against the response schema.
// It is built once at startup and is safe for concurrent use.
type Validator struct {
	defs map[string]*definition
}

// NewValidator loads the schema document at path, or the embedded one when path is empty.
func NewValidator(path string) (*Validator, error) {
	data := defaultSchema
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read response schema: %w", err)
		}
		data = b
	}
	return newValidator(data)
}

func newValidator(data []byte) (*Validator, error) {
	var root struct {
		Defs map[string]json.RawMessage `json:"$defs"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse response schema: %w", err)
	}

	v := &Validator{defs: make(map[string]*definition, len(root.Defs))}
	for _, name := range []string{DefRecommendation, DefBuildOptions, DefDetailedBuild} {
		raw, ok := root.Defs[name]
		if !ok {
			return nil, fmt.Errorf("response schema is missing definition %q", name)
		}

		var s jsonschema.Schema
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to parse schema definition %q: %w", name, err)
		}
		resolved, err := s.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve schema definition %q: %w", name, err)
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil, fmt.Errorf("failed to compact schema definition %q: %w", name, err)
		}
		v.defs[name] = &definition{schema: &s, resolved: resolved, raw: compact.String()}
	}
	return v, nil
}

// Definition returns the compact JSON text of a schema definition, for use in prompts.
func (v *Validator) Definition(name string) (string, bool) {
	d, ok := v.defs[name]
	if !ok {
		return "", false
	}
	return d.raw, true
}

// Conform projects doc onto the keys the definition declares and validates the result.
func (v *Validator) Conform(name string, doc any) (any, error) {
	d, ok := v.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema definition %q", name)
	}
	projected := project(d.schema, doc)
	if err := d.resolved.Validate(projected); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaRejected, err)
	}
	return projected, nil
}

// project drops object keys the schema does not declare. Objects without declared
// properties (free-form maps) are left as they are.
func project(s *jsonschema.Schema, doc any) any {
	if s == nil {
		return doc
	}
	switch val := doc.(type) {
	case map[string]any:
		if len(s.Properties) == 0 {
			return val
		}
		out := make(map[string]any, len(s.Properties))
		for key, sub := range s.Properties {
			if field, ok := val[key]; ok {
				out[key] = project(sub, field)
			}
		}
		return out
	case []any:
		if s.Items == nil {
			return val
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = project(s.Items, item)
		}
		return out
	default:
		return doc
	}
}

// ParseAnswer extracts the candidate JSON from raw model text and decodes it.
func ParseAnswer(raw string) (any, error) {
	content := ExtractJSONBlock(raw)
	if IsNullAnswer(content) {
		return nil, ErrNullAnswer
	}
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if doc == nil {
		return nil, ErrNullAnswer
	}
	return doc, nil
}

// Decode maps a validated document onto a typed value.
func Decode[T any](doc any) (T, error) {
	var out T
	data, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return out, nil
}

// DecodeAnswer runs the full answer pipeline: extract, parse, normalize, project,
// validate and map. normalize may be nil.
func DecodeAnswer[T any](v *Validator, name, raw string, normalize func(any) any) (T, error) {
	var zero T
	doc, err := ParseAnswer(raw)
	if err != nil {
		return zero, err
	}
	if normalize != nil {
		doc = normalize(doc)
	}
	conformed, err := v.Conform(name, doc)
	if err != nil {
		return zero, err
	}
	return Decode[T](conformed)
}
