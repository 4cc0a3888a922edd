package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"boca-cli/internal/access"
	"boca-cli/internal/app"
	"boca-cli/internal/output"
	"boca-cli/internal/setup"

	"github.com/spf13/cobra"
)

var (
	runPath   string
	runMethod string
	runJson   bool
	runFlags  browserFlags
)

func init() {
	runCmd.Flags().StringVarP(&runPath, "path", "p", "", "The setup file (JSON or JSON5).")
	runCmd.Flags().StringVarP(&runMethod, "method", "m", "", "The method to run, see `boca-cli methods`.")
	runCmd.Flags().BoolVar(&runJson, "json", false, "Print the result as JSON instead of a table.")
	runFlags.register(runCmd)
	runCmd.MarkFlagRequired("path")
	runCmd.MarkFlagRequired("method")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run -p <setup> -m <method>",
	Short: "Runs one method with the given setup file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		method, ok := access.Lookup(runMethod)
		if !ok {
			return &setup.SchemaError{
				Method:     access.Method(runMethod),
				Violations: []setup.Violation{{Field: "method", Message: "unknown method"}},
			}
		}

		raw, err := app.LoadSetup(runPath)
		if err != nil {
			return err
		}
		invoker, _, err := newInvoker(runFlags)
		if err != nil {
			return err
		}

		out, err := invoker.Invoke(cmd.Context(), app.Request{Method: method, Raw: raw})
		if err != nil {
			return err
		}

		if runJson {
			encoded, err := json.MarshalIndent(out.Value, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(encoded))
			return nil
		}
		return output.Render(os.Stdout, out.Value)
	},
}
