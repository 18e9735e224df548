package paths_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gxo-labs/launcher/internal/paths"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSystem(goos, exe, home string) paths.System {
	return paths.System{
		GOOS:        goos,
		Executable:  func() (string, error) { return exe, nil },
		UserHomeDir: func() (string, error) { return home, nil },
		Getenv:      func(string) string { return "" },
		MkdirAll:    os.MkdirAll,
	}
}

func TestResourcesPath_ExecutableDirectory(t *testing.T) {
	r := paths.NewResolverWithSystem(fakeSystem("linux", "/opt/app/bin/launcher", "/home/u"))

	dir, err := r.ResourcesPath([]string{"launcher"})
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/opt/app/bin"), dir)
	assert.Equal(t, filepath.Join(dir, "config"), paths.ConfigPath(dir))
}

func TestResourcesPath_MacBundle(t *testing.T) {
	r := paths.NewResolverWithSystem(fakeSystem("darwin", "/Applications/App.app/Contents/MacOS/launcher", "/Users/u"))

	dir, err := r.ResourcesPath(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/Applications/App.app/Contents/Resources"), dir)
}

func TestResourcesPath_FallsBackToArgv0(t *testing.T) {
	sys := fakeSystem("linux", "", "/home/u")
	sys.Executable = func() (string, error) { return "", errors.New("unsupported") }
	r := paths.NewResolverWithSystem(sys)

	dir, err := r.ResourcesPath([]string{"/srv/tool/launcher"})
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/srv/tool"), dir)

	_, err = r.ResourcesPath(nil)
	var pathErr *launcherrors.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "resources", pathErr.Which)
}

func TestSupportPath_CreatesDirectory(t *testing.T) {
	home := t.TempDir()
	testCases := []struct {
		goos     string
		expected string
	}{
		{goos: "linux", expected: filepath.Join(home, ".Defold")},
		{goos: "darwin", expected: filepath.Join(home, "Library", "Application Support", "Defold")},
	}
	for _, tc := range testCases {
		t.Run(tc.goos, func(t *testing.T) {
			r := paths.NewResolverWithSystem(fakeSystem(tc.goos, "/x/launcher", home))

			dir, err := r.SupportPath("Defold")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dir)
			assert.DirExists(t, dir)

			again, err := r.SupportPath("Defold")
			require.NoError(t, err, "an existing directory is not an error")
			assert.Equal(t, dir, again)
		})
	}
}

func TestSupportPath_WindowsUsesLocalAppData(t *testing.T) {
	local := t.TempDir()
	sys := fakeSystem("windows", `C:\app\launcher.exe`, "")
	sys.Getenv = func(key string) string {
		if key == "LOCALAPPDATA" {
			return local
		}
		return ""
	}
	r := paths.NewResolverWithSystem(sys)

	dir, err := r.SupportPath("Defold")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(local, "Defold"), dir)

	sys.Getenv = func(string) string { return "" }
	_, err = paths.NewResolverWithSystem(sys).SupportPath("Defold")
	assert.Error(t, err)
}

func TestSupportPath_Errors(t *testing.T) {
	r := paths.NewResolverWithSystem(fakeSystem("linux", "/x/launcher", t.TempDir()))
	_, err := r.SupportPath("")
	assert.Error(t, err)
	_, err = r.SupportPath("a/b")
	assert.Error(t, err)

	long := paths.NewResolverWithSystem(fakeSystem("linux", "/x/launcher", "/"+strings.Repeat("h", paths.MaxPath)))
	_, err = long.SupportPath("Defold")
	var pathErr *launcherrors.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "support", pathErr.Which)

	failing := fakeSystem("linux", "/x/launcher", "/home/u")
	failing.MkdirAll = func(string, os.FileMode) error { return os.ErrPermission }
	_, err = paths.NewResolverWithSystem(failing).SupportPath("Defold")
	assert.ErrorIs(t, err, os.ErrPermission)
}
