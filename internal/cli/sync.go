package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tupm/internal/container"
	"tupm/internal/database"
	tupmsync "tupm/internal/sync"
)

var (
	syncHTTPUser string
	syncHTTPPass string
)

func init() {
	syncCmd.SilenceErrors = true
	syncCmd.SilenceUsage = true
	syncCmd.PersistentFlags().StringVar(&syncHTTPUser, "http-user", "", "HTTP Basic auth user for the sync repository")
	syncCmd.PersistentFlags().StringVar(&syncHTTPPass, "http-password", "", "HTTP Basic auth password for the sync repository")

	syncCmd.AddCommand(syncPushCmd, syncPullCmd)
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the database with a remote repository",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local database to the remote repository",
	RunE:  runSyncPush,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the remote database and replace the local copy",
	RunE:  runSyncPull,
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	remote, ok := db.RemoteConfig()
	if !ok {
		return fmt.Errorf("no remote repository configured for this database")
	}

	containerBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	client := tupmsync.NewClient(tupmsync.Options{})
	return client.Upload(cmd.Context(), remote.URL, db.DBName(), syncHTTPUser, syncHTTPPass, db.Revision(), containerBytes)
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(false)
	if err != nil {
		return err
	}

	path := resolveDBPath()
	db, err := database.Open(path, passphrase)
	if err != nil {
		return err
	}

	remote, ok := db.RemoteConfig()
	if !ok {
		return fmt.Errorf("no remote repository configured for this database")
	}

	client := tupmsync.NewClient(tupmsync.Options{})
	raw, err := client.Download(cmd.Context(), remote.URL, db.DBName(), syncHTTPUser, syncHTTPPass)
	if err != nil {
		return err
	}

	// Validate the downloaded container decrypts under the same
	// passphrase before replacing the local file.
	if _, err := container.Decode(raw, passphrase); err != nil {
		return err
	}

	tmp := path + ".incomplete"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}
