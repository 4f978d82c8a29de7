// ABOUTME: Password change command for the filebox CLI
// ABOUTME: Confirmation mismatch fails locally before any request is sent

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"filebox-cli/internal/client"
	"filebox-cli/internal/profile"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Long:  `Change the password of the currently signed-in account.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		current, err := promptPassword(os.Stdout, "Current password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		next, err := promptPassword(os.Stdout, "New password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		confirm, err := promptPassword(os.Stdout, "Confirm new password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		if exitCode := runPasswd(ctx, os.Stdout, current, next, confirm); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}

// runPasswd changes the password and returns an exit code
func runPasswd(ctx context.Context, w io.Writer, current, next, confirm string) int {
	env := newAppEnv()

	if !env.sessions.Authenticated() {
		fmt.Fprintln(w, "Not signed in. Run \"filebox login\" first.")
		return 2
	}

	if err := env.profiles.ChangePassword(ctx, current, next, confirm); err != nil {
		if errors.Is(err, profile.ErrPasswordMismatch) {
			fmt.Fprintln(w, "Error: new password and confirmation do not match")
			return 1
		}
		fmt.Fprintf(w, "Error: %s\n", client.Detail(err, err.Error()))
		return 2
	}

	fmt.Fprintln(w, "Password changed")
	return 0
}
