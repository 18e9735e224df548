package config

import (
	"fmt"
	"sort"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaVersion is the major schema version YAML configs must declare.
const SupportedSchemaVersion = "v1"

const schemaVersionKey = "schemaVersion"

// parseYAML validates a YAML config and flattens nested mappings into
// dotted keys. Sequences become comma-separated strings so they feed the
// same splitting rules as the key/value format.
func parseYAML(data []byte, path string) (map[string]string, error) {
	if len(data) == 0 {
		return nil, launcherrors.NewConfigError(fmt.Sprintf("config '%s' is empty", path), nil)
	}
	if err := ValidateWithSchema(data); err != nil {
		return nil, launcherrors.NewConfigError(fmt.Sprintf("config '%s' failed schema validation", path), err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, launcherrors.NewConfigError(fmt.Sprintf("failed to parse config YAML '%s'", path), err)
	}

	if err := checkSchemaVersion(doc[schemaVersionKey], path); err != nil {
		return nil, err
	}
	delete(doc, schemaVersionKey)

	values := make(map[string]string)
	flatten("", doc, values)
	return values, nil
}

func checkSchemaVersion(raw interface{}, path string) error {
	version, _ := raw.(string)
	if version == "" {
		return launcherrors.NewValidationError(fmt.Sprintf("config '%s' is missing required 'schemaVersion' field", path), nil)
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return launcherrors.NewValidationError(fmt.Sprintf("config '%s' has invalid 'schemaVersion' format: '%s'", path, version), nil)
	}
	if semver.Major(v) != SupportedSchemaVersion {
		return launcherrors.NewValidationError(
			fmt.Sprintf("config '%s' schemaVersion '%s' is not compatible with launcher requirement '%s'", path, version, SupportedSchemaVersion),
			nil,
		)
	}
	return nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := node[k].(type) {
		case map[string]interface{}:
			flatten(key, v, out)
		case []interface{}:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = scalarString(item)
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = scalarString(v)
		}
	}
}

func scalarString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
