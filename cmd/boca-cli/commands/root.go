package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"boca-cli/internal/app"
	"boca-cli/internal/browser"
	"boca-cli/internal/components/chrono"
	"boca-cli/internal/components/telemetry"
	"boca-cli/internal/output"
	"boca-cli/internal/setup"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "boca-cli",
	Short:         "boca-cli automates contest administration and run handling on a BOCA installation.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every browser step.")
}

// ExecuteContext runs the cli and returns the exit code of the process.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return app.ExitCode(err)
	}
	return app.ExitOk
}

func Exit(code int) {
	os.Exit(code)
}

type browserFlags struct {
	timeout  time.Duration
	headed   bool
	execPath string
}

func (f *browserFlags) register(cmd *cobra.Command) {
	defaults := browser.DefaultOptions()
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", defaults.Timeout, "Timeout of every browser action.")
	cmd.Flags().BoolVar(&f.headed, "headed", false, "Show the browser window.")
	cmd.Flags().StringVar(&f.execPath, "chrome", "", "Path to the chrome binary, detected when empty.")
}

// options turns the flags into browser options, a timeout must be positive.
func (f browserFlags) options() (browser.Options, error) {
	if f.timeout <= 0 {
		return browser.Options{}, &setup.SchemaError{Violations: []setup.Violation{
			{Field: "timeout", Message: fmt.Sprintf("must be positive, got %s", f.timeout)},
		}}
	}
	opts := browser.DefaultOptions()
	opts.Timeout = f.timeout
	opts.Headless = !f.headed
	opts.ExecPath = f.execPath
	return opts, nil
}

// newInvoker wires a chrome backed invoker.
func newInvoker(flags browserFlags) (app.Invoker, *output.Sink, error) {
	tel := telemetry.SlogAPI{}

	opts, err := flags.options()
	if err != nil {
		return app.Invoker{}, nil, err
	}
	validator, err := setup.NewValidator()
	if err != nil {
		return app.Invoker{}, nil, fmt.Errorf("compile setup schemas: %w", err)
	}
	clock, err := chrono.NewStandardImpl("")
	if err != nil {
		return app.Invoker{}, nil, err
	}

	sink := output.NewSink(tel, clock)
	invoker := app.NewInvoker(validator, browser.NewChrome(opts, tel), sink, tel)
	return invoker, sink, nil
}
