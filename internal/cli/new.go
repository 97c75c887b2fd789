package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tupm/internal/database"
)

func init() {
	newCmd.SilenceErrors = true
	newCmd.SilenceUsage = true
	rootCmd.AddCommand(newCmd)

	setRemoteCmd.SilenceErrors = true
	setRemoteCmd.SilenceUsage = true
	setRemoteCmd.Flags().StringVar(&syncHTTPUser, "http-user", "", "HTTP Basic auth user for the sync repository")
	setRemoteCmd.Flags().StringVar(&syncHTTPPass, "http-password", "", "HTTP Basic auth password for the sync repository")
	rootCmd.AddCommand(setRemoteCmd)

	clearRemoteCmd.SilenceErrors = true
	clearRemoteCmd.SilenceUsage = true
	rootCmd.AddCommand(clearRemoteCmd)
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new, empty database",
	RunE:  runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(true)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	db := database.New(name)
	return db.Save(path, passphrase)
}

var setRemoteCmd = &cobra.Command{
	Use:   "set-remote URL",
	Short: "Bind a sync repository to the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetRemote,
}

func runSetRemote(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	db.SetRemote(args[0], syncHTTPUser, syncHTTPPass)
	return db.Save(path, passphrase)
}

var clearRemoteCmd = &cobra.Command{
	Use:   "clear-remote",
	Short: "Remove the sync repository binding from the database",
	RunE:  runClearRemote,
}

func runClearRemote(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	db.ClearRemote()
	return db.Save(path, passphrase)
}
