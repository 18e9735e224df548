package args

import (
	"errors"
	"fmt"
	"strings"
)

// MaxArgs is the number of argument slots available to a child process,
// counting the trailing terminator slot.
const MaxArgs = 128

// ClasspathFlag precedes the classpath in every vector.
const ClasspathFlag = "-cp"

var (
	// ErrTooManyArguments is returned when a vector would need more than
	// MaxArgs slots. Vectors are never truncated.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrEmptyInterpreter is returned when the interpreter path resolved to
	// the empty string.
	ErrEmptyInterpreter = errors.New("interpreter path is empty")
)

// EmptyTokenPolicy controls what happens to empty segments produced by
// splitting a comma separated argument list, such as "a,,b" or a trailing
// comma.
type EmptyTokenPolicy int

const (
	// EmptyTokenSkip drops empty segments.
	EmptyTokenSkip EmptyTokenPolicy = iota
	// EmptyTokenKeep forwards empty segments as empty arguments.
	EmptyTokenKeep
)

func (p EmptyTokenPolicy) String() string {
	switch p {
	case EmptyTokenSkip:
		return "skip"
	case EmptyTokenKeep:
		return "keep"
	default:
		return fmt.Sprintf("EmptyTokenPolicy(%d)", int(p))
	}
}

// ParseEmptyTokenPolicy maps the launcher.empty_args setting to a policy.
// The empty string selects EmptyTokenSkip.
func ParseEmptyTokenPolicy(s string) (EmptyTokenPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return EmptyTokenSkip, nil
	case "keep":
		return EmptyTokenKeep, nil
	default:
		return EmptyTokenSkip, fmt.Errorf("invalid empty argument policy '%s': expected 'skip' or 'keep'", s)
	}
}

// PlatformKey returns the configuration key holding platform specific VM
// arguments for goos, or "" for targets without one.
func PlatformKey(goos string) string {
	switch goos {
	case "darwin":
		return "platform.osx"
	case "windows":
		return "platform.windows"
	case "linux":
		return "platform.linux"
	default:
		return ""
	}
}

// Spec holds the resolved values a vector is assembled from. PlatformArgs
// and VMArgs are comma separated lists.
type Spec struct {
	Interpreter  string
	Classpath    string
	EntryPoint   string
	PlatformArgs string
	VMArgs       string
}

// Vector is an ordered child process argument list:
//
//	interpreter, -cp, classpath, platform args..., vm args..., entry point
//
// followed by an implicit terminator slot.
type Vector struct {
	argv []string
}

// Args returns the arguments without the terminator. The first element is
// the executable path.
func (v *Vector) Args() []string {
	if v == nil {
		return nil
	}
	return v.argv
}

// Path returns the executable path.
func (v *Vector) Path() string {
	if v == nil || len(v.argv) == 0 {
		return ""
	}
	return v.argv[0]
}

// Len returns the number of occupied slots, terminator included.
func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.argv) + 1
}

// NewVector wraps an already assembled argument list, applying the same
// capacity and interpreter checks as Build.
func NewVector(argv ...string) (*Vector, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyInterpreter
	}
	if len(argv)+1 > MaxArgs {
		return nil, fmt.Errorf("%w: %d slots needed, capacity is %d", ErrTooManyArguments, len(argv)+1, MaxArgs)
	}
	return &Vector{argv: argv}, nil
}

// Builder assembles argument vectors.
type Builder struct {
	policy EmptyTokenPolicy
}

// NewBuilder returns a Builder applying policy to empty list segments.
func NewBuilder(policy EmptyTokenPolicy) *Builder {
	return &Builder{policy: policy}
}

// Policy returns the builder's empty token policy.
func (b *Builder) Policy() EmptyTokenPolicy {
	return b.policy
}

// Build assembles the vector for spec.
func (b *Builder) Build(spec Spec) (*Vector, error) {
	if spec.Interpreter == "" {
		return nil, ErrEmptyInterpreter
	}

	platform := b.split(spec.PlatformArgs)
	vm := b.split(spec.VMArgs)

	// interpreter, -cp, classpath, entry point, terminator
	slots := 5 + len(platform) + len(vm)
	if slots > MaxArgs {
		return nil, fmt.Errorf("%w: %d slots needed, capacity is %d", ErrTooManyArguments, slots, MaxArgs)
	}

	argv := make([]string, 0, slots-1)
	argv = append(argv, spec.Interpreter, ClasspathFlag, spec.Classpath)
	argv = append(argv, platform...)
	argv = append(argv, vm...)
	argv = append(argv, spec.EntryPoint)
	return &Vector{argv: argv}, nil
}

// split breaks a comma separated list into tokens. An empty list yields no
// tokens under either policy.
func (b *Builder) split(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	if b.policy == EmptyTokenKeep {
		return parts
	}
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
