package commands

import (
	"os"
	"strings"

	"boca-cli/internal/access"
	"boca-cli/internal/output"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var methodsRole string

func init() {
	methodsCmd.Flags().StringVarP(&methodsRole, "role", "r", "", "Only list the methods a role (System, Admin, Team) may run.")
	rootCmd.AddCommand(methodsCmd)
}

var methodsCmd = &cobra.Command{
	Use:   "methods [--role <role>]",
	Short: "Lists the methods, their category and the roles that may run them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var only access.Role
		if methodsRole != "" {
			role, err := access.ParseRole(methodsRole)
			if err != nil {
				return err
			}
			only = role
		}

		roles := []access.Role{access.RoleSystem, access.RoleAdmin, access.RoleTeam}
		t := output.NewTable(os.Stdout)
		t.AppendHeader(table.Row{"category", "method", "tag", "roles"})
		for _, category := range access.AllCategories() {
			for _, method := range access.MethodsIn(category) {
				var allowed []string
				for _, role := range roles {
					if access.Authorize(role, category, method) {
						allowed = append(allowed, string(role))
					}
				}
				if only != "" && !access.Authorize(only, category, method) {
					continue
				}
				t.AppendRow(table.Row{category, method, access.TagOf(method), strings.Join(allowed, ", ")})
			}
			t.AppendSeparator()
		}
		t.Render()
		return nil
	},
}
