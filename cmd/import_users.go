package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importFile string

var importUsersCmd = &cobra.Command{
	Use:   "import-users",
	Short: "Bulk-create users from a CSV file",
	Long: `Read username,password,role,status rows (after a header row) and create every valid
user in one transaction. Malformed rows and existing usernames are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", importFile, err)
		}
		defer f.Close()

		deps, err := initializeDependencies(context.Background())
		if err != nil {
			return err
		}
		defer deps.Close()

		report, err := deps.Users.ImportCSV(context.Background(), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, line := range report.Lines {
			fmt.Fprintln(out, line.String())
		}
		fmt.Fprintf(out, "Import complete: %d added, %d skipped.\n", report.Added(), report.Skipped())
		return nil
	},
}

func init() {
	importUsersCmd.Flags().StringVarP(&importFile, "file", "f", "users.csv", "CSV file to import")
}
