// ABOUTME: Register command for the filebox CLI
// ABOUTME: Creates a new account; signing in remains an explicit separate step

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"filebox-cli/internal/client"
)

var (
	registerUsername    string
	registerFullName    string
	registerEmail       string
	registerDescription string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new FileBox account",
	Long: `Create a new FileBox account.

Registration does not sign you in; run "filebox login" afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		password, err := promptPassword(os.Stdout, "Password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		confirm, err := promptPassword(os.Stdout, "Confirm password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		req := &client.RegisterRequest{
			Username:    registerUsername,
			Password:    password,
			FullName:    registerFullName,
			Email:       registerEmail,
			Description: registerDescription,
		}
		if exitCode := runRegister(ctx, os.Stdout, req, confirm); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username for the new account")
	registerCmd.Flags().StringVar(&registerFullName, "full-name", "", "Full name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerDescription, "description", "", "Profile description")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("full-name")
	registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(registerCmd)
}

// runRegister validates the confirmation locally, then creates the
// account. A mismatch never reaches the network.
func runRegister(ctx context.Context, w io.Writer, req *client.RegisterRequest, confirm string) int {
	if req.Password != confirm {
		fmt.Fprintln(w, "Error: passwords do not match")
		return 1
	}

	env := newAppEnv()
	if err := env.sessions.Register(ctx, req); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Account %s created. Run \"filebox login\" to sign in.\n", req.Username)
	return 0
}
