package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/pflag"

	launcher "github.com/gxo-labs/launcher/pkg/launcher/v1"

	"github.com/gxo-labs/launcher/internal/launch"
	"github.com/gxo-labs/launcher/internal/logger"
	"github.com/gxo-labs/launcher/internal/tracing"
)

const (
	ExitSuccess     = 0
	ExitUsageError  = 2
	DefaultLogLevel = "info"
	DefaultLogFmt   = "text"

	tracingShutdownTimeout = 5 * time.Second
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// options are the launcher's own command line settings.
type options struct {
	overrides   []string
	configFile  string
	application string
	logLevel    string
	logFormat   string
	version     bool
	help        bool
}

// parseFlags reads the launcher's flags from args (without argv[0]).
// Unknown flags are tolerated: the launcher may be started by a desktop
// environment that adds arguments of its own.
func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("launcher", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringArrayVar(&opts.overrides, "config", nil, "Override a configuration value, as section.key=value (repeatable)")
	fs.StringVar(&opts.configFile, "config-file", "", "Configuration file to load instead of <resources>/config")
	fs.StringVar(&opts.application, "application", launch.DefaultApplicationName, "Support directory name used when the configuration sets none")
	fs.StringVar(&opts.logLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error, fatal)")
	fs.StringVar(&opts.logFormat, "log-format", DefaultLogFmt, "Log format (text, json)")
	fs.BoolVar(&opts.version, "version", false, "Print version information and exit")
	fs.BoolVarP(&opts.help, "help", "h", false, "Print this help and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: launcher [flags...]\n\n")
		fmt.Fprintln(stderr, "Starts the application described by the configuration file and relaunches it on request.")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

// launcherArgs rebuilds the argument list handed to the launcher: argv0
// followed by one --config=section.key=value per override.
func launcherArgs(argv0 string, overrides []string) []string {
	out := make([]string, 0, len(overrides)+1)
	out = append(out, argv0)
	for _, o := range overrides {
		out = append(out, "--config="+o)
	}
	return out
}

func run(argv []string, stdout, stderr io.Writer) int {
	argv0 := ""
	var rest []string
	if len(argv) > 0 {
		argv0, rest = argv[0], argv[1:]
	}

	opts, fs, err := parseFlags(rest, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(stderr, "Error parsing flags: %v\n", err)
		return ExitUsageError
	}
	if opts.help {
		fs.Usage()
		return ExitSuccess
	}
	if opts.version {
		printVersion(stdout)
		return ExitSuccess
	}

	log := logger.NewLogger(opts.logLevel, opts.logFormat, stderr)

	ctx := context.Background()
	tp, err := tracing.NewProviderFromEnv(ctx, log)
	if err != nil {
		log.Warnf("Tracing disabled: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warnf("%v", err)
		}
	}()

	l, err := launch.NewLauncher(log, launcherArgs(argv0, opts.overrides),
		launcher.WithConfigFile(opts.configFile),
		launcher.WithApplicationName(opts.application),
		launcher.WithTracerProvider(tp),
	)
	if err != nil {
		log.Fatalf("Failed to initialize launcher: %v", err)
		return launcher.ExitConfigFailure
	}
	return l.Run(ctx)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "launcher version %s\n", version)
	fmt.Fprintf(w, "commit: %s\n", commit)
	fmt.Fprintf(w, "built: %s\n", buildDate)
	fmt.Fprintf(w, "go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
