package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by main.go.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tupm",
	Short: "A UPM-compatible password database",
	Long: `tupm opens, edits, and synchronizes Universal Password Manager (UPM)
compatible account databases: a single encrypted file holding named
credentials, optionally synchronized with an HTTP repository.`,
	Version: Version,
}

// dbPath, passwordFlag and passwordStdin are shared across subcommands.
var (
	dbPath        string
	passwordFlag  string
	passwordStdin bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database file (default: $HOME/.tupm/primary)")
	rootCmd.PersistentFlags().StringVarP(&passwordFlag, "password", "p", "", "database passphrase (visible in shell history; prefer -P or interactive entry)")
	rootCmd.PersistentFlags().BoolVarP(&passwordStdin, "password-stdin", "P", false, "read the passphrase from stdin")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func resolvePassphrase(confirm bool) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	if passwordStdin {
		return ReadPasswordFromStdin()
	}
	return ReadPasswordInteractive(confirm)
}

func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "primary"
	}
	return home + "/.tupm/primary"
}

// Execute runs the CLI application, wiring SIGINT/SIGTERM into context
// cancellation for in-flight sync operations.
func Execute(version string) int {
	Version = version
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tupm: %v\n", err)
		return 1
	}
	return 0
}
