package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/vk/partgrid/internal/app"
	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/registry"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, a ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, a...)}
}

// DefaultFile is the description file read when --file is not given.
const DefaultFile = "partgrid.hcl"

// flags holds the values of the flags shared by every command.
type flags struct {
	file      string
	settings  []string
	enable    []string
	disable   []string
	static    bool
	output    string
	format    string
	logLevel  string
	logFormat string
	color     string
}

// Deps are the collaborators commands are wired to.
type Deps struct {
	Out     io.Writer
	Err     io.Writer
	Loader  config.Loader
	Modules []registry.Module
}

// NewRootCommand builds the partgrid command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "partgrid",
		Short: "Declarative build descriptions for OCaml projects",
		Long: `partgrid reads a project description (partgrid.hcl) of compilation units,
libraries, executables, packages and actions, and derives the build rules
they imply for a configuration. The rules are emitted as a Makefile or as
a YAML plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyColor(f.color)
		},
	}
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&f.file, "file", "f", DefaultFile, "Description file or directory of .hcl files.")
	pf.StringArrayVar(&f.settings, "set", nil, "Set a configuration key, as key=value. Repeatable.")
	pf.StringSliceVar(&f.enable, "enable", nil, "Force atoms on.")
	pf.StringSliceVar(&f.disable, "disable", nil, "Force atoms off.")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.color, "color", "auto", "Colored output. Options: 'auto', 'always' or 'never'.")

	root.AddCommand(
		describeCommand(deps, f),
		makeCommand(deps, f),
		atomsCommand(deps, f),
		keysCommand(deps, f),
		watchCommand(deps, f),
	)
	return root
}

// Execute runs the command tree on args. Usage errors are returned as
// *ExitError with code 2.
func Execute(ctx context.Context, deps Deps, args []string) error {
	root := NewRootCommand(deps)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError("%s", err)
	}
	return err
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	return color.Red.Sprint("error: ") + err.Error()
}

// newApp validates the flags into an app configuration.
func newApp(deps Deps, f *flags, format string) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		Path:      f.file,
		Settings:  f.settings,
		Enable:    f.enable,
		Disable:   f.disable,
		Static:    f.static,
		Format:    format,
		Output:    f.output,
		LogFormat: f.logFormat,
		LogLevel:  f.logLevel,
	})
	if err != nil {
		return nil, usageError("%s", err)
	}
	return app.NewApp(deps.Out, deps.Err, cfg, deps.Loader, deps.Modules...), nil
}

func applyColor(mode string) error {
	switch mode {
	case "auto":
	case "always":
		color.Enable = true
	case "never":
		color.Enable = false
	default:
		return usageError("invalid color: must be 'auto', 'always' or 'never'")
	}
	return nil
}
