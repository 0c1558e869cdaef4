package extract

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/skillforge/internal/llm"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Decode extracts a record from text, checks it against schema and stores
// the result in v. A nil schema skips the check.
func Decode(text string, schema *llm.Schema, v any) error {
	record, err := Extract(text)
	if err != nil {
		return err
	}

	if err := Validate(schema, record); err != nil {
		return err
	}

	// Round-trip through JSON so v gets typed fields.
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("re-encode record: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		name := "record"
		if schema != nil {
			name = schema.Name
		}
		return &ErrMissingField{Schema: name, Err: err}
	}
	return nil
}

// Validate checks an extracted record against schema.
// Returns *ErrMissingField on failure.
func Validate(schema *llm.Schema, record map[string]any) error {
	if schema == nil {
		return nil
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	// The validator wants plain decoded JSON values.
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("re-encode record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("re-parse record: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return &ErrMissingField{Schema: schema.Name, Err: err}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *llm.Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
