package errors

import (
	"errors"
	"fmt"
)

// --- Launcher Error Types ---

// PathError reports that a platform directory (resources or support path)
// could not be determined or created.
type PathError struct {
	Which string // "resources" or "support"
	Cause error
}

func NewPathError(which string, cause error) *PathError {
	return &PathError{Which: which, Cause: cause}
}
func (e *PathError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to locate %s path: %v", e.Which, e.Cause)
	}
	return fmt.Sprintf("failed to locate %s path", e.Which)
}
func (e *PathError) Unwrap() error { return e.Cause }

// ConfigError represents an error encountered while loading or parsing the
// launcher configuration file or its argument overrides.
type ConfigError struct {
	Message string
	Cause   error
}

func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Message: message, Cause: cause}
}
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}
func (e *ConfigError) Unwrap() error { return e.Cause }

// ValidationError indicates that a configuration document failed schema or
// version checks.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
func (e *ValidationError) Unwrap() error { return e.Cause }

// TemplateErrorKind classifies why a templated value could not be resolved.
type TemplateErrorKind int

const (
	// MissingReplacement: a placeholder names a key with no value.
	MissingReplacement TemplateErrorKind = iota + 1
	// BufferTooSmall: the expansion exceeds the maximum value size.
	BufferTooSmall
	// SyntaxError: the template is malformed.
	SyntaxError
	// NotConverged: the value was still changing when the pass budget ran out.
	NotConverged
)

func (k TemplateErrorKind) String() string {
	switch k {
	case MissingReplacement:
		return "missing_replacement"
	case BufferTooSmall:
		return "buffer_too_small"
	case SyntaxError:
		return "syntax_error"
	case NotConverged:
		return "not_converged"
	default:
		return "unknown"
	}
}

// TemplateError reports a failed resolution of one configuration key.
// Value holds the offending text at the point of failure.
type TemplateError struct {
	Key         string
	Kind        TemplateErrorKind
	Value       string
	Placeholder string // the placeholder name, for MissingReplacement
	Cause       error
}

func NewTemplateError(key string, kind TemplateErrorKind, value string, cause error) *TemplateError {
	return &TemplateError{Key: key, Kind: kind, Value: value, Cause: cause}
}
func (e *TemplateError) Error() string {
	switch e.Kind {
	case MissingReplacement:
		if e.Placeholder != "" {
			return fmt.Sprintf("one of the replacements in %s could not be resolved (%s): %s", e.Key, e.Placeholder, e.Value)
		}
		return fmt.Sprintf("one of the replacements in %s could not be resolved: %s", e.Key, e.Value)
	case BufferTooSmall:
		return fmt.Sprintf("the buffer is too small to account for the replacements in %s", e.Key)
	case SyntaxError:
		if e.Cause != nil {
			return fmt.Sprintf("the value at %s has syntax errors: %s: %v", e.Key, e.Value, e.Cause)
		}
		return fmt.Sprintf("the value at %s has syntax errors: %s", e.Key, e.Value)
	case NotConverged:
		return fmt.Sprintf("the replacements in %s did not converge: %s", e.Key, e.Value)
	default:
		return fmt.Sprintf("template error in %s: %v", e.Key, e.Cause)
	}
}
func (e *TemplateError) Unwrap() error { return e.Cause }

// IsTemplateKind reports whether err is a TemplateError of the given kind.
func IsTemplateKind(err error, kind TemplateErrorKind) bool {
	var tErr *TemplateError
	return errors.As(err, &tErr) && tErr.Kind == kind
}

// SpawnError indicates the child process could not be started at all
// (executable missing, permission denied, bad format).
type SpawnError struct {
	Path  string
	Cause error
}

func NewSpawnError(path string, cause error) *SpawnError {
	return &SpawnError{Path: path, Cause: cause}
}
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to launch application %q: %v", e.Path, e.Cause)
}
func (e *SpawnError) Unwrap() error { return e.Cause }
