//go:build !windows

package process

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/gxo-labs/launcher/internal/args"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

// execRunner runs children with os/exec. The executable path is used as
// given, without a PATH search, and the standard streams are inherited.
type execRunner struct{}

func newPlatformRunner() Runner {
	return &execRunner{}
}

// Run starts the child and waits for it.
func (r *execRunner) Run(ctx context.Context, argv *args.Vector) (int, error) {
	path := argv.Path()
	if path == "" {
		return ExitAbnormal, launcherrors.NewSpawnError(path, args.ErrEmptyInterpreter)
	}

	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv.Args(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := cmd.Start(); err != nil {
		return ExitAbnormal, launcherrors.NewSpawnError(path, err)
	}

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return ExitAbnormal, nil
		}
	}
	return exitCode(cmd.ProcessState), nil
}

// exitCode maps a finished process to the launcher's exit code: the child's
// status for a normal exit, ExitAbnormal otherwise.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return ExitAbnormal
	}
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !status.Exited() {
		return ExitAbnormal
	}
	return status.ExitStatus()
}
