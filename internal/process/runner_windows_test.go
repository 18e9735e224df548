//go:build windows

package process_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gxo-labs/launcher/internal/args"
	"github.com/gxo-labs/launcher/internal/process"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmdExe() string {
	if comspec := os.Getenv("ComSpec"); comspec != "" {
		return comspec
	}
	return filepath.Join(os.Getenv("SystemRoot"), "System32", "cmd.exe")
}

func shell(t *testing.T, script string) *args.Vector {
	t.Helper()
	v, err := args.NewVector(cmdExe(), "/c", script)
	require.NoError(t, err)
	return v
}

func TestRun_ExitCodePropagates(t *testing.T) {
	testCases := []struct {
		name     string
		script   string
		expected int
	}{
		{name: "success", script: "exit 0", expected: 0},
		{name: "child failure", script: "exit 3", expected: 3},
		{name: "restart sentinel", script: "exit 17", expected: 17},
		{name: "status above 255", script: "exit 300", expected: process.ExitAbnormal},
		{name: "crash status", script: "exit -1073741819", expected: process.ExitAbnormal},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := process.NewRunner().Run(context.Background(), shell(t, tc.script))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, code)
		})
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-java.exe")
	v, err := args.NewVector(missing, "-cp", "app.jar", "Main")
	require.NoError(t, err)

	code, err := process.NewRunner().Run(context.Background(), v)
	assert.Equal(t, process.ExitAbnormal, code)

	var spawnErr *launcherrors.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, missing, spawnErr.Path)
}

func TestRun_NoPathSearch(t *testing.T) {
	v, err := args.NewVector("cmd.exe", "/c", "exit 0")
	require.NoError(t, err)

	wd := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(wd))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	code, err := process.NewRunner().Run(context.Background(), v)
	assert.Equal(t, process.ExitAbnormal, code)
	assert.Error(t, err, "a bare name is resolved against the working directory, not PATH")
}
