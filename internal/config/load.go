package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

// FileLoader reads configuration files from disk.
type FileLoader struct{}

// NewFileLoader returns the default Loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

var _ Loader = (*FileLoader)(nil)

// Load reads the file at path and applies overrides found in args.
func (l *FileLoader) Load(path string, args []string) (*Config, error) {
	if path == "" {
		return nil, launcherrors.NewConfigError("config file path cannot be empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, launcherrors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}
	return Parse(data, path, args)
}

// Parse decodes data according to the format implied by path's extension
// (".yaml"/".yml" for YAML, anything else for the sectioned key/value
// format) and then applies argument overrides.
func Parse(data []byte, path string, args []string) (*Config, error) {
	var (
		values map[string]string
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		values, err = parseYAML(data, path)
	default:
		values, err = parseINI(data, path)
	}
	if err != nil {
		return nil, err
	}

	overrides, err := ParseOverrides(args)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		values[k] = v
	}
	return &Config{path: path, values: values}, nil
}
