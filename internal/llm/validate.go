package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CompileSchema compiles a schema map built by this package.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

var (
	entriesSchemaOnce sync.Once
	entriesSchema     *jsonschema.Schema
	entriesSchemaErr  error
)

// validateEntries checks an already decoded document against the entries schema.
func validateEntries(v any) error {
	entriesSchemaOnce.Do(func() {
		entriesSchema, entriesSchemaErr = CompileSchema(BuildEntriesJSONSchema())
	})
	if entriesSchemaErr != nil {
		return entriesSchemaErr
	}
	if err := entriesSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
