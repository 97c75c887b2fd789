package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tupm/internal/database"
	"tupm/internal/payload"
	"tupm/internal/util"
)

var (
	addUser      string
	addPass      string
	addURL       string
	addNotes     string
	addGenerate  bool
	addGenLength int
)

func init() {
	addCmd.SilenceErrors = true
	addCmd.SilenceUsage = true
	addCmd.Flags().StringVar(&addUser, "user", "", "account username")
	addCmd.Flags().StringVar(&addPass, "account-password", "", "account password")
	addCmd.Flags().StringVar(&addURL, "url", "", "account URL")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "account notes")
	addCmd.Flags().BoolVar(&addGenerate, "generate", false, "generate a random account password instead of --account-password")
	addCmd.Flags().IntVar(&addGenLength, "generate-length", 20, "length of the generated password")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a new account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

// generateAccountPassword produces a random password using the full
// upper/lower/number/symbol character set, printing it once so the caller
// can record it.
func generateAccountPassword(cmd *cobra.Command, length int) (string, error) {
	pw, err := util.GenPassword(util.PassgenOptions{
		Length:  length,
		Upper:   true,
		Lower:   true,
		Numbers: true,
		Symbols: true,
	})
	if err != nil {
		return "", err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Generated account password: %s\n", pw)
	return pw, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	accPass := addPass
	if addGenerate {
		accPass, err = generateAccountPassword(cmd, addGenLength)
		if err != nil {
			return err
		}
	}

	acc := payload.Account{Name: args[0], User: addUser, Password: accPass, URL: addURL, Notes: addNotes}
	if err := db.Add(acc); err != nil {
		return err
	}

	return db.Save(path, passphrase)
}
