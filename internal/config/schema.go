package config

import (
	_ "embed"
	"fmt"
	"sync"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed launcher_schema_v1.json
var schemaV1Bytes []byte

var (
	schemaV1   *gojsonschema.Schema
	schemaOnce sync.Once
	schemaErr  error
)

// loadSchema compiles the embedded schema once.
func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		if len(schemaV1Bytes) == 0 {
			schemaErr = launcherrors.NewConfigError("embedded schema 'launcher_schema_v1.json' is empty", nil)
			return
		}
		schemaV1, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaV1Bytes))
		if schemaErr != nil {
			schemaErr = launcherrors.NewConfigError("failed to compile embedded schema 'launcher_schema_v1.json'", schemaErr)
		}
	})
	return schemaV1, schemaErr
}

// ValidateWithSchema validates a YAML configuration document against the
// embedded v1 schema.
func ValidateWithSchema(documentYAML []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	// gojsonschema works on JSON-like Go values, so decode the YAML generically first.
	var jsonData interface{}
	if err := yaml.Unmarshal(documentYAML, &jsonData); err != nil {
		return launcherrors.NewConfigError("failed to parse config YAML for schema validation", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(jsonData))
	if err != nil {
		return launcherrors.NewConfigError("schema validation process failed", err)
	}
	if !result.Valid() {
		errMsg := "config failed JSON schema validation:"
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "(root)" || field == "" {
				field = desc.Context().String()
			}
			errMsg += fmt.Sprintf("\n  - Field '%s': %s", field, desc.Description())
		}
		return launcherrors.NewValidationError(errMsg, nil)
	}
	return nil
}
