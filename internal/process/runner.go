package process

import (
	"context"

	"github.com/gxo-labs/launcher/internal/args"
)

// ExitAbnormal is reported when the child could not be started or did not
// terminate through a normal exit (killed by a signal, crashed).
const ExitAbnormal = 127

// Runner spawns a child process from an argument vector and waits for it.
type Runner interface {
	// Run starts the executable named by the vector's first argument, with
	// the whole vector as its argument list, and blocks until it terminates.
	// The returned code is the child's exit status, or ExitAbnormal. A
	// *errors.SpawnError is returned when the child could not be started.
	Run(ctx context.Context, argv *args.Vector) (int, error)
}

// NewRunner returns the runner for the host platform.
func NewRunner() Runner {
	return newPlatformRunner()
}
