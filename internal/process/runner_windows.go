//go:build windows

package process

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gxo-labs/launcher/internal/args"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

// handleRunner creates the child with CreateProcess, passing the launcher's
// standard handles explicitly and suppressing the console window.
type handleRunner struct{}

func newPlatformRunner() Runner {
	return &handleRunner{}
}

// Run starts the child and waits for it. Exit statuses above 255 are
// NTSTATUS crash codes and are reported as ExitAbnormal.
func (r *handleRunner) Run(ctx context.Context, argv *args.Vector) (int, error) {
	path := argv.Path()
	if path == "" {
		return ExitAbnormal, launcherrors.NewSpawnError(path, args.ErrEmptyInterpreter)
	}

	appName, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return ExitAbnormal, launcherrors.NewSpawnError(path, err)
	}
	cmdLine, err := windows.UTF16PtrFromString(windows.ComposeCommandLine(argv.Args()))
	if err != nil {
		return ExitAbnormal, launcherrors.NewSpawnError(path, err)
	}

	var si windows.StartupInfo
	si.Cb = uint32(unsafe.Sizeof(si))
	si.Flags = windows.STARTF_USESTDHANDLES
	si.StdInput, _ = windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	si.StdOutput, _ = windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	si.StdErr, _ = windows.GetStdHandle(windows.STD_ERROR_HANDLE)

	var pi windows.ProcessInformation
	err = windows.CreateProcess(appName, cmdLine, nil, nil, true, windows.CREATE_NO_WINDOW, nil, nil, &si, &pi)
	if err != nil {
		return ExitAbnormal, launcherrors.NewSpawnError(path, err)
	}
	defer windows.CloseHandle(pi.Process)
	defer windows.CloseHandle(pi.Thread)

	if _, err := windows.WaitForSingleObject(pi.Process, windows.INFINITE); err != nil {
		return ExitAbnormal, fmt.Errorf("waiting for '%s': %w", path, err)
	}

	var code uint32
	if err := windows.GetExitCodeProcess(pi.Process, &code); err != nil {
		return ExitAbnormal, fmt.Errorf("reading exit code of '%s': %w", path, err)
	}
	if code > 255 {
		return ExitAbnormal, nil
	}
	return int(code), nil
}
