// Package template expands "{key}" placeholders in configuration values.
//
// Expansion runs in passes. Each pass substitutes every placeholder once,
// using the configuration's raw values, so a value that refers to another
// templated value is resolved on a later pass. Resolution stops when a pass
// no longer changes the value (compared case-insensitively) or after
// MaxPasses, in which case the value is reported as not converged. Reference
// chains longer than MaxPasses and cycles therefore fail instead of looping.
// A pass that replaces placeholders yet reproduces its input is a cycle of
// length one ("a={a}", or "a={b}" with "b={b}") and fails the same way.
package template

import (
	"strings"

	"github.com/gxo-labs/launcher/internal/config"
	"github.com/gxo-labs/launcher/internal/paths"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

const (
	// MaxPasses is the number of substitution passes attempted per key.
	MaxPasses = 5
	// MaxValueSize is the largest resolved value, in bytes.
	MaxValueSize = 10 * paths.MaxPath
)

// Source provides raw configuration values.
type Source interface {
	Lookup(key string) (string, bool)
}

// LookupFunc returns the replacement for a placeholder name.
type LookupFunc func(name string) (string, bool)

// ReplaceContext carries what placeholder lookups need for one launch pass.
// It is a value type and is not modified after construction.
type ReplaceContext struct {
	Config        Source
	ResourcesPath string
	SupportPath   string
}

// NewReplaceContext builds a ReplaceContext. cfg may be nil, in which case
// only the two synthetic keys resolve.
func NewReplaceContext(cfg Source, resourcesPath, supportPath string) ReplaceContext {
	return ReplaceContext{Config: cfg, ResourcesPath: resourcesPath, SupportPath: supportPath}
}

// Replacement resolves a placeholder name. The resources and support path
// keys match case-insensitively and always win over configuration values.
func (rc ReplaceContext) Replacement(name string) (string, bool) {
	switch {
	case strings.EqualFold(name, config.KeyResourcesPath):
		return rc.ResourcesPath, true
	case strings.EqualFold(name, config.KeySupportPath):
		return rc.SupportPath, true
	}
	if rc.Config == nil {
		return "", false
	}
	return rc.Config.Lookup(name)
}

// ResolveKey resolves the configuration value stored under key. A key that
// is not configured resolves to "" with a nil error. On failure the
// returned value is always "" and the error is a *errors.TemplateError.
func ResolveKey(rc ReplaceContext, key string, maxLen int) (string, error) {
	value, _, err := Resolve(rc, key, maxLen)
	return value, err
}

// Resolve is ResolveKey that also reports how many passes were run.
func Resolve(rc ReplaceContext, key string, maxLen int) (string, int, error) {
	if rc.Config == nil {
		return "", 0, nil
	}
	raw, ok := rc.Config.Lookup(key)
	if !ok {
		return "", 0, nil
	}
	if len(raw) > maxLen {
		return "", 0, launcherrors.NewTemplateError(key, launcherrors.BufferTooSmall, raw, nil)
	}

	current := raw
	for pass := 1; pass <= MaxPasses; pass++ {
		next, replaced, err := format(current, maxLen, rc.Replacement)
		if err != nil {
			if tErr, ok := err.(*launcherrors.TemplateError); ok {
				tErr.Key = key
				if tErr.Value == "" {
					tErr.Value = current
				}
			}
			return "", pass, err
		}
		if strings.EqualFold(next, current) {
			// A substitution that reproduces its input is a key referring
			// to itself, directly or through its own placeholder.
			if replaced > 0 {
				return "", pass, launcherrors.NewTemplateError(key, launcherrors.NotConverged, current, nil)
			}
			return next, pass, nil
		}
		current = next
	}
	return "", MaxPasses, launcherrors.NewTemplateError(key, launcherrors.NotConverged, current, nil)
}
