package config

import (
	"sort"
	"strconv"
	"strings"
)

// Well-known configuration keys read by the launcher.
const (
	KeyDebug         = "launcher.debug"
	KeyMain          = "launcher.main"
	KeyJava          = "launcher.java"
	KeyJar           = "launcher.jar"
	KeyVMArgs        = "launcher.vmargs"
	KeyEmptyArgs     = "launcher.empty_args"
	KeyMetricsFile   = "launcher.metrics_file"
	KeyApplication   = "launcher.application"
	KeyResourcesPath = "bootstrap.resourcespath"
	KeySupportPath   = "bootstrap.supportpath"
)

// DefaultMain is the entry point used when launcher.main is absent.
const DefaultMain = "Main"

// Loader loads a configuration file and applies argument overrides.
type Loader interface {
	Load(path string, args []string) (*Config, error)
}

// Config is a flat, read-only mapping of dotted keys to string values.
// A Config belongs to a single launch pass and is released at its end.
type Config struct {
	path     string
	values   map[string]string
	released bool
}

// New builds a Config from an already flattened map. The map is copied.
func New(path string, values map[string]string) *Config {
	c := &Config{path: path, values: make(map[string]string, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Lookup returns the raw value for key and whether it was present.
func (c *Config) Lookup(key string) (string, bool) {
	if c == nil || c.released {
		return "", false
	}
	v, ok := c.values[key]
	return v, ok
}

// GetString returns the value for key, or def when the key is absent.
// A key present with an empty value returns the empty string.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return def
}

// GetInt returns the integer value for key, or def when the key is absent
// or not a base-10 integer.
func (c *Config) GetInt(key string, def int) int {
	v, ok := c.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Keys returns all keys in sorted order.
func (c *Config) Keys() []string {
	if c == nil || c.released {
		return nil
	}
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Release drops the loaded values. Getters on a released Config behave as
// if every key were absent.
func (c *Config) Release() {
	if c == nil {
		return
	}
	c.values = nil
	c.released = true
}
