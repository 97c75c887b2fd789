package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Picocrypt/zxcvbn-go"
	"golang.org/x/term"
)

var strengthLabels = [...]string{"very weak", "weak", "fair", "strong", "very strong"}

// PasswordStrength returns a zxcvbn score (0-4) and a human label for pw.
// This is cosmetic guidance shown to the user when setting a new database
// passphrase; it has no bearing on the KDF or container format.
func PasswordStrength(pw string) (int, string) {
	score := zxcvbn.PasswordStrength(pw, nil).Score
	if score < 0 || score >= len(strengthLabels) {
		return score, "unknown"
	}
	return score, strengthLabels[score]
}

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordEmpty    = errors.New("password cannot be empty")
)

// isTerminal returns true if stdin is a terminal (not piped/redirected).
func isTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPasswordSecure reads a password from stdin without echo.
// Falls back to buffered read if stdin is not a terminal.
func readPasswordSecure(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !isTerminal() {
		// stdin is piped; read normally
		reader := bufio.NewReader(os.Stdin)
		pw, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		pw = strings.TrimSuffix(pw, "\n")
		pw = strings.TrimSuffix(pw, "\r")
		return pw, nil
	}

	// Terminal mode: disable echo
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// ReadPasswordInteractive prompts for password interactively.
// If confirm is true, asks for confirmation (for encryption).
func ReadPasswordInteractive(confirm bool) (string, error) {
	password, err := readPasswordSecure("Password: ")
	if err != nil {
		return "", err
	}

	if password == "" {
		return "", ErrPasswordEmpty
	}

	if confirm {
		_, label := PasswordStrength(password)
		fmt.Fprintf(os.Stderr, "Password strength: %s\n", label)

		confirm, err := readPasswordSecure("Confirm password: ")
		if err != nil {
			return "", err
		}
		if password != confirm {
			return "", ErrPasswordMismatch
		}
	}

	return password, nil
}

// ReadPasswordFromStdin reads password from stdin (for piped input with -P flag).
func ReadPasswordFromStdin() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	pw, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	pw = strings.TrimSuffix(pw, "\n")
	pw = strings.TrimSuffix(pw, "\r")
	return pw, nil
}
