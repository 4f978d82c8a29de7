// ABOUTME: Login command for the filebox CLI
// ABOUTME: Establishes and persists a session for subsequent commands

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to FileBox",
	Long:  `Sign in to FileBox and persist the session for subsequent commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		username := loginUsername
		if username == "" {
			var err error
			username, err = promptLine(os.Stdin, os.Stdout, "Username")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
		}
		password, err := promptPassword(os.Stdout, "Password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		if exitCode := runLogin(ctx, os.Stdout, username, password); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username to sign in with")
	rootCmd.AddCommand(loginCmd)
}

// runLogin performs the login sequence and returns an exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	env := newAppEnv()

	sess, err := env.sessions.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Signed in as %s\n", sess.Username)
	return 0
}
