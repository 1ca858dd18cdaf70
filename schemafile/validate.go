package schemafile

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// MetaValidate compiles doc as a JSON Schema (draft 2020-12 unless $schema says
// otherwise) and returns the compiler error when the document is not a valid schema.
func MetaValidate(doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	// The compiler expects values produced by its own decoder (json.Number for numbers).
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", v); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	if _, err := c.Compile("schema.json"); err != nil {
		return fmt.Errorf("invalid JSON schema: %w", err)
	}
	return nil
}
