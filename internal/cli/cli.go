package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/buildinfo"
	"github.com/matzehuels/boreholelog/pkg/cache"
	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

const appName = "boreholelog"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by ExitCode.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitBadInput  = 2
	ExitInterrupt = 130
)

// CLI carries the logger shared by every command.
type CLI struct {
	Logger *log.Logger
}

func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the boreholelog command tree. The persistent --verbose
// flag lowers the log level before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   appName,
		Short: "Lay out and paginate borehole logs",
		Long: `boreholelog turns borehole stratigraphy (AGS4, CSV or JSON) into paged
log sheets with a header block, depth ruler, lithology bar and wrapped
layer descriptions, rendered as PNG, SVG, PDF or a JSON layout dump.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	for _, cmd := range root.Commands() {
		registerCompletions(cmd)
	}

	return root
}

// ExitCode maps a command error to a process exit status. Bad input of any
// kind exits with 2 so scripts can tell it apart from render failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupt
	}
	switch errors.ClassOf(err) {
	case errors.ClassInput, errors.ClassMissing:
		return ExitBadInput
	}
	return ExitFailure
}

// reported marks an error the command already printed.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	var r reported
	return stderrors.As(err, &r)
}

// newRunner builds a runner on the file cache, or on no cache at all.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the artifact cache directory, honouring XDG_CACHE_HOME
// and falling back to ~/.cache/boreholelog.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cache.DefaultDir()
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a comma list of formats. Empty input means PNG.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
