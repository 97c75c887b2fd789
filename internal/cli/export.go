package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tupm/internal/database"
	tupmexport "tupm/internal/export"
)

func init() {
	exportCmd.SilenceErrors = true
	exportCmd.SilenceUsage = true
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a flat text report of all accounts",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	db, err := database.Open(resolveDBPath(), passphrase)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), tupmexport.Flat(db.Accounts()))
	return nil
}
