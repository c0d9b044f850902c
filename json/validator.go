package json

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ehviewer/ehparse"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

// Validator checks encoded results against the JSON Schema of their page kind.
// Schemas are compiled once by NewValidator; the Validator is safe for
// concurrent use.
type Validator struct {
	schemas map[ehparse.Kind]*jsonschema.Schema
}

// NewValidator compiles the embedded schema for every page kind.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	for _, kind := range ehparse.Kinds() {
		name := schemaName(kind)
		raw, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema for %s: %w", kind, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("failed to load schema for %s: %w", kind, err)
		}
	}

	v := &Validator{schemas: make(map[ehparse.Kind]*jsonschema.Schema)}
	for _, kind := range ehparse.Kinds() {
		schema, err := compiler.Compile(schemaName(kind))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", kind, err)
		}
		v.schemas[kind] = schema
	}
	return v, nil
}

// Validate returns an EINVALID error if data is not valid JSON for kind.
func (v *Validator) Validate(kind ehparse.Kind, data []byte) error {
	schema, ok := v.schemas[kind]
	if !ok {
		return ehparse.Errorf(ehparse.EINVALID, "no schema for kind %q", kind)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return ehparse.Errorf(ehparse.EINVALID, "result is not valid JSON: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		return ehparse.Errorf(ehparse.EINVALID, "result does not match %s schema: %v", kind, err)
	}
	return nil
}

func schemaName(kind ehparse.Kind) string {
	return "schema/" + string(kind) + ".json"
}
