package cli

import (
	"github.com/spf13/cobra"

	"tupm/internal/database"
	"tupm/internal/payload"
)

var (
	updateNewName   string
	updateUser      string
	updatePass      string
	updateURL       string
	updateNotes     string
	updateGenerate  bool
	updateGenLength int
)

func init() {
	updateCmd.SilenceErrors = true
	updateCmd.SilenceUsage = true
	updateCmd.Flags().StringVar(&updateNewName, "rename", "", "new account name")
	updateCmd.Flags().StringVar(&updateUser, "user", "", "new account username")
	updateCmd.Flags().StringVar(&updatePass, "account-password", "", "new account password")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "new account URL")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "new account notes")
	updateCmd.Flags().BoolVar(&updateGenerate, "generate", false, "generate a random account password instead of --account-password")
	updateCmd.Flags().IntVar(&updateGenLength, "generate-length", 20, "length of the generated password")
	rootCmd.AddCommand(updateCmd)

	deleteCmd.SilenceErrors = true
	deleteCmd.SilenceUsage = true
	rootCmd.AddCommand(deleteCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update NAME",
	Short: "Update an existing account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	name := args[0]
	existing, err := db.Get(name)
	if err != nil {
		return err
	}

	updated := existing
	if updateNewName != "" {
		updated.Name = updateNewName
	}
	if updateUser != "" {
		updated.User = updateUser
	}
	if updateGenerate {
		updated.Password, err = generateAccountPassword(cmd, updateGenLength)
		if err != nil {
			return err
		}
	} else if updatePass != "" {
		updated.Password = updatePass
	}
	if updateURL != "" {
		updated.URL = updateURL
	}
	if updateNotes != "" {
		updated.Notes = updateNotes
	}

	if err := db.Update(name, updated); err != nil {
		return err
	}

	return db.Save(path, passphrase)
}

var deleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	if err := db.Delete(args[0]); err != nil {
		return err
	}

	return db.Save(path, passphrase)
}
