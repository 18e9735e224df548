// Package paths locates the launcher's install resources directory and the
// per-application support directory.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

// MaxPath bounds every path produced by a Resolver.
const MaxPath = 1024

// ConfigFileName is the name of the configuration file inside the resources directory.
const ConfigFileName = "config"

// Resolver determines platform default directories.
type Resolver interface {
	// ResourcesPath returns the directory holding the installed resources.
	// argv is the launcher's own argument vector; argv[0] is used when the
	// running executable cannot be determined.
	ResourcesPath(argv []string) (string, error)
	// SupportPath returns the per-application support directory for
	// application, creating it if it does not exist.
	SupportPath(application string) (string, error)
}

// System abstracts the OS queries a Resolver needs.
type System struct {
	GOOS        string
	Executable  func() (string, error)
	UserHomeDir func() (string, error)
	Getenv      func(string) string
	MkdirAll    func(path string, perm os.FileMode) error
}

// HostSystem returns a System backed by the running process.
func HostSystem() System {
	return System{
		GOOS:        runtime.GOOS,
		Executable:  os.Executable,
		UserHomeDir: os.UserHomeDir,
		Getenv:      os.Getenv,
		MkdirAll:    os.MkdirAll,
	}
}

// OSResolver implements Resolver with OS-idiomatic locations.
type OSResolver struct {
	sys System
}

var _ Resolver = (*OSResolver)(nil)

// NewResolver returns a resolver for the host system.
func NewResolver() *OSResolver {
	return &OSResolver{sys: HostSystem()}
}

// NewResolverWithSystem returns a resolver using the given System.
func NewResolverWithSystem(sys System) *OSResolver {
	return &OSResolver{sys: sys}
}

func (r *OSResolver) ResourcesPath(argv []string) (string, error) {
	exe, err := r.executable(argv)
	if err != nil {
		return "", launcherrors.NewPathError("resources", err)
	}
	dir := filepath.Dir(exe)

	// Inside a macOS bundle the binary lives in Contents/MacOS and the
	// resources in Contents/Resources.
	if r.sys.GOOS == "darwin" && filepath.Base(dir) == "MacOS" && filepath.Base(filepath.Dir(dir)) == "Contents" {
		dir = filepath.Join(filepath.Dir(dir), "Resources")
	}
	if len(dir) >= MaxPath {
		return "", launcherrors.NewPathError("resources", fmt.Errorf("path exceeds %d bytes", MaxPath))
	}
	return dir, nil
}

func (r *OSResolver) executable(argv []string) (string, error) {
	if r.sys.Executable != nil {
		if exe, err := r.sys.Executable(); err == nil && exe != "" {
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				return resolved, nil
			}
			return exe, nil
		}
	}
	if len(argv) == 0 || argv[0] == "" {
		return "", errors.New("cannot determine executable location")
	}
	return filepath.Abs(argv[0])
}

func (r *OSResolver) SupportPath(application string) (string, error) {
	if application == "" || strings.ContainsAny(application, `/\`) {
		return "", launcherrors.NewPathError("support", fmt.Errorf("invalid application name %q", application))
	}

	var base string
	switch r.sys.GOOS {
	case "windows":
		base = r.getenv("LOCALAPPDATA")
		if base == "" {
			return "", launcherrors.NewPathError("support", errors.New("%LOCALAPPDATA% is not set"))
		}
		base = filepath.Join(base, application)
	case "darwin":
		home, err := r.home()
		if err != nil {
			return "", launcherrors.NewPathError("support", err)
		}
		base = filepath.Join(home, "Library", "Application Support", application)
	default:
		home, err := r.home()
		if err != nil {
			return "", launcherrors.NewPathError("support", err)
		}
		base = filepath.Join(home, "."+application)
	}

	if len(base) >= MaxPath {
		return "", launcherrors.NewPathError("support", fmt.Errorf("path exceeds %d bytes", MaxPath))
	}
	mkdir := r.sys.MkdirAll
	if mkdir == nil {
		mkdir = os.MkdirAll
	}
	if err := mkdir(base, 0o755); err != nil {
		return "", launcherrors.NewPathError("support", err)
	}
	return base, nil
}

func (r *OSResolver) getenv(key string) string {
	if r.sys.Getenv == nil {
		return ""
	}
	return r.sys.Getenv(key)
}

func (r *OSResolver) home() (string, error) {
	if r.sys.UserHomeDir == nil {
		return "", errors.New("home directory lookup unavailable")
	}
	home, err := r.sys.UserHomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("home directory is empty")
	}
	return home, nil
}

// ConfigPath returns the default configuration file location for a
// resources directory.
func ConfigPath(resourcesPath string) string {
	return filepath.Join(resourcesPath, ConfigFileName)
}
