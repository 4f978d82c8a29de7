// ABOUTME: Whoami command for the filebox CLI
// ABOUTME: Shows the signed-in user's profile in human or JSON form

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"filebox-cli/internal/client"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  `Fetch and display the profile of the currently signed-in user.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami fetches the current profile and returns an exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	env := newAppEnv()

	// Guard: no stored session means no fetch is attempted at all
	if !env.sessions.Authenticated() {
		fmt.Fprintln(w, "Not signed in. Run \"filebox login\" first.")
		return 2
	}

	user, err := env.profiles.FetchCurrent(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", client.Detail(err, err.Error()))
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(user))
	} else {
		fmt.Fprintln(w, formatUserHuman(user))
	}
	return 0
}

// formatUserHuman formats a profile for human readability
func formatUserHuman(user *client.User) string {
	return fmt.Sprintf(`Username:    %s
Full name:   %s
Email:       %s
Description: %s
Avatar:      %s
Created:     %s`,
		user.Username, user.FullName, user.Email,
		user.Description, user.ProfileImage, user.CreatedAt)
}

// formatUserJSON formats a profile as JSON
func formatUserJSON(user *client.User) string {
	data, _ := json.MarshalIndent(user, "", "  ")
	return string(data)
}
