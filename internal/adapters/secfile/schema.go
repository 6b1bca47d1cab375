package secfile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed sector.schema.json
var sectorSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("sector.schema.json", strings.NewReader(sectorSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add sector schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("sector.schema.json")
	})
	return schema, schemaErr
}

// ValidateJSON checks a custom-sector document against the embedded
// schema without decoding it into domain types.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("sector document: %w", err)
	}

	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("sector document: %w", firstSchemaCause(err))
	}
	return nil
}

// firstSchemaCause digs to the most specific validation failure so
// callers can surface one actionable message.
func firstSchemaCause(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return fmt.Errorf("%s", ve.Message)
	}
	return fmt.Errorf("%s: %s", ve.InstanceLocation, ve.Message)
}
