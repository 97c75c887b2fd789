package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tupm/internal/database"
)

func init() {
	listCmd.SilenceErrors = true
	listCmd.SilenceUsage = true
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List account names in the database",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	db, err := database.Open(resolveDBPath(), passphrase)
	if err != nil {
		return err
	}

	for _, acc := range db.Accounts() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", acc.Name, acc.User)
	}
	return nil
}
