package commands

import (
	"fmt"
	"os"

	"boca-cli/internal/access"
	"boca-cli/internal/output"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyDb     string
	historyMethod string
	historyLimit  int
)

func init() {
	historyCmd.Flags().StringVar(&historyDb, "db", "results.db", "The result archive (config.resultDbPath).")
	historyCmd.Flags().StringVarP(&historyMethod, "method", "m", "", "Only list results of this method.")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "How many results to list.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path/to/results.db>]",
	Short: "Lists the most recent archived results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyMethod != "" {
			if _, ok := access.Lookup(historyMethod); !ok {
				return fmt.Errorf("unknown method %q", historyMethod)
			}
		}
		_, err := os.Stat(historyDb)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}

		archive, err := output.OpenArchive(cmd.Context(), historyDb)
		if err != nil {
			return err
		}
		defer archive.Close()

		results, err := archive.Recent(cmd.Context(), access.Method(historyMethod), historyLimit)
		if err != nil {
			return err
		}

		t := output.NewTable(os.Stdout)
		t.AppendHeader(table.Row{"#", "at", "method", "username", "bytes"})
		for _, r := range results {
			t.AppendRow(table.Row{r.Id, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Method, r.Username, len(r.Value)})
		}
		t.Render()
		return nil
	},
}
